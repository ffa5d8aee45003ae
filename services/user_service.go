package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

// Register creates a customer account. Elevated roles are never granted here.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if len(input.Password) < minPasswordLength {
		return nil, validationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if !utils.ValidatePhone(input.Phone) {
		return nil, validationError("phone", "must be a valid phone number")
	}

	phone := utils.NormalizePhone(input.Phone)

	db := s.db.WithContext(ctx)
	if err := s.ensureEmailFree(db, email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(db, phone, uuid.Nil); err != nil {
		return nil, err
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: input.Password, // hashed in BeforeCreate
		Phone:    phone,
		Role:     models.RoleCustomer,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(KindConflict, "Email or phone already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks credentials. identifier is an email when it contains
// "@" and a phone number otherwise.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	db := s.db.WithContext(ctx)

	query := db.Where("phone = ?", utils.NormalizePhone(identifier))
	if strings.Contains(identifier, "@") {
		query = db.Where("email = ?", normalizeEmail(identifier))
	}

	var user models.User
	err := query.First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindUnauthenticated, "Invalid credentials")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, newError(KindUnauthenticated, "Invalid credentials")
	}

	now := s.now()
	if err := db.Model(&user).UpdateColumn("last_login", &now).Error; err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, input ProfileUpdate) (*models.User, error) {
	db := s.db.WithContext(ctx)
	updates := map[string]interface{}{}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			updates["name"] = name
		}
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			return nil, validationError("phone", "must be a valid phone number")
		}
		phone := utils.NormalizePhone(*input.Phone)
		if phone != user.Phone {
			if err := s.ensurePhoneFree(db, phone, user.ID); err != nil {
				return nil, err
			}
			updates["phone"] = phone
		}
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(db, email, user.ID); err != nil {
				return nil, err
			}
			updates["email"] = email
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, newError(KindConflict, "Email or phone already registered")
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetByID(ctx, user.ID)
}

func (s *UserService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	stored, err := s.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, stored.Password) {
		return validationError("currentPassword", "is incorrect")
	}
	if len(next) < minPasswordLength {
		return validationError("newPassword", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hashed, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password", hashed).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// It returns true when an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password, phone string) (bool, error) {
	db := s.db.WithContext(ctx)
	email = normalizeEmail(email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := models.User{
		Name:     name,
		Email:    email,
		Password: password,
		Phone:    utils.NormalizePhone(phone),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func (s *UserService) ensureEmailFree(db *gorm.DB, email string, self uuid.UUID) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, self).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return newError(KindConflict, "Email already registered")
	}
	return nil
}

func (s *UserService) ensurePhoneFree(db *gorm.DB, phone string, self uuid.UUID) error {
	var count int64
	if err := db.Model(&models.User{}).Where("phone = ? AND id <> ?", phone, self).Count(&count).Error; err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if count > 0 {
		return newError(KindConflict, "Phone already registered")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
