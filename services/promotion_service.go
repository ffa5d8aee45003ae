package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type PromotionInput struct {
	Title              string
	Description        string
	DiscountType       models.DiscountType
	DiscountValue      decimal.Decimal
	Code               string
	StartDate          time.Time
	EndDate            time.Time
	ApplicableServices []uuid.UUID
	MaxUses            *int
}

type PromotionUpdate struct {
	Title              *string
	Description        *string
	DiscountType       *models.DiscountType
	DiscountValue      *decimal.Decimal
	StartDate          *time.Time
	EndDate            *time.Time
	IsActive           *bool
	ApplicableServices *[]uuid.UUID
	MaxUses            *int
}

type PromotionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{db: db, now: time.Now}
}

// NormalizeCode makes promotion codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// EvaluatePromotion decides whether p can be used at now, optionally for a
// specific service. It never changes the promotion.
func EvaluatePromotion(p *models.Promotion, serviceID *uuid.UUID, now time.Time) error {
	if !p.IsActive {
		return newError(KindInvalidState, "Promotion is not active")
	}
	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return newError(KindLimitReached, "Promotion limit reached")
	}
	if now.Before(p.StartDate) {
		return newError(KindInvalidState, "Promotion is not yet active")
	}
	if now.After(p.EndDate) {
		return newError(KindInvalidState, "Promotion has expired")
	}
	if serviceID != nil && !p.AppliesTo(*serviceID) {
		return newError(KindInvalidState, "Promotion not applicable to this service")
	}
	return nil
}

// ApplyDiscount returns price after the promotion's discount, never below zero.
func ApplyDiscount(p *models.Promotion, price decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercentage:
		discount = price.Mul(p.DiscountValue).Div(hundred)
	case models.DiscountFixed:
		discount = p.DiscountValue
	}
	if discount.GreaterThan(price) {
		discount = price
	}
	return price.Sub(discount).Round(2)
}

// Validate looks up code and evaluates it against the current time.
func (s *PromotionService) Validate(ctx context.Context, code string, serviceID *uuid.UUID) (*models.Promotion, error) {
	return s.validateTx(s.db.WithContext(ctx), code, serviceID)
}

func (s *PromotionService) validateTx(tx *gorm.DB, code string, serviceID *uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := tx.Preload("ApplicableServices").
		Where("code = ?", NormalizeCode(code)).
		First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Invalid or expired promotion code")
		}
		return nil, fmt.Errorf("find promotion: %w", err)
	}

	if err := EvaluatePromotion(&promo, serviceID, s.now()); err != nil {
		return nil, err
	}
	return &promo, nil
}

// redeemTx consumes one use of the promotion. The conditional update keeps
// usedCount within maxUses under concurrent bookings.
func (s *PromotionService) redeemTx(tx *gorm.DB, promotionID uuid.UUID) error {
	result := tx.Model(&models.Promotion{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", promotionID).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("redeem promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindLimitReached, "Promotion limit reached")
	}
	return nil
}

// ListActive returns promotions that are active and inside their window now.
func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	now := s.now().UTC()
	var promotions []models.Promotion
	if err := s.db.WithContext(ctx).
		Preload("ApplicableServices").
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("end_date asc").
		Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return promotions, nil
}

func (s *PromotionService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.db.WithContext(ctx).Preload("ApplicableServices").First(&promo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Promotion not found")
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return &promo, nil
}

func (s *PromotionService) Create(ctx context.Context, input PromotionInput) (*models.Promotion, error) {
	if err := checkDiscount(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, validationError("endDate", "must not be before startDate")
	}
	if input.MaxUses != nil && *input.MaxUses < 1 {
		return nil, validationError("maxUses", "must be at least 1")
	}

	promo := models.Promotion{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		Code:          NormalizeCode(input.Code),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      true,
		MaxUses:       input.MaxUses,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Promotion{}).Where("code = ?", promo.Code).Count(&count).Error; err != nil {
			return fmt.Errorf("check promotion code: %w", err)
		}
		if count > 0 {
			return newError(KindConflict, "Promotion code already exists")
		}

		services, err := loadServices(tx, input.ApplicableServices)
		if err != nil {
			return err
		}
		promo.ApplicableServices = services

		if err := tx.Omit("ApplicableServices.*").Create(&promo).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindConflict, "Promotion code already exists")
			}
			return fmt.Errorf("create promotion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, promo.ID)
}

func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, input PromotionUpdate) (*models.Promotion, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var promo models.Promotion
		if err := tx.First(&promo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newError(KindNotFound, "Promotion not found")
			}
			return fmt.Errorf("get promotion: %w", err)
		}

		updates := map[string]interface{}{}
		if input.Title != nil {
			updates["title"] = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			updates["description"] = strings.TrimSpace(*input.Description)
		}
		discountType, discountValue := promo.DiscountType, promo.DiscountValue
		if input.DiscountType != nil {
			discountType = *input.DiscountType
			updates["discount_type"] = discountType
		}
		if input.DiscountValue != nil {
			discountValue = *input.DiscountValue
			updates["discount_value"] = discountValue
		}
		if err := checkDiscount(discountType, discountValue); err != nil {
			return err
		}
		start, end := promo.StartDate, promo.EndDate
		if input.StartDate != nil {
			start = *input.StartDate
			updates["start_date"] = start
		}
		if input.EndDate != nil {
			end = *input.EndDate
			updates["end_date"] = end
		}
		if end.Before(start) {
			return validationError("endDate", "must not be before startDate")
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.MaxUses != nil {
			if *input.MaxUses < 1 {
				return validationError("maxUses", "must be at least 1")
			}
			updates["max_uses"] = *input.MaxUses
		}

		if len(updates) > 0 {
			if err := tx.Model(&promo).Omit("ApplicableServices").Updates(updates).Error; err != nil {
				return fmt.Errorf("update promotion: %w", err)
			}
		}

		if input.ApplicableServices != nil {
			services, err := loadServices(tx, *input.ApplicableServices)
			if err != nil {
				return err
			}
			association := tx.Model(&promo).Omit("ApplicableServices.*").Association("ApplicableServices")
			if len(services) == 0 {
				err = association.Clear()
			} else {
				err = association.Replace(services)
			}
			if err != nil {
				return fmt.Errorf("update applicable services: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Deactivate is the promotion soft delete.
func (s *PromotionService) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Promotion{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate promotion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "Promotion not found")
	}
	return nil
}

func checkDiscount(kind models.DiscountType, value decimal.Decimal) error {
	switch kind {
	case models.DiscountPercentage, models.DiscountFixed:
	default:
		return validationError("discountType", "must be one of: percentage fixed")
	}
	if value.IsNegative() {
		return validationError("discountValue", "must not be negative")
	}
	if kind == models.DiscountPercentage && value.GreaterThan(hundred) {
		return validationError("discountValue", "must be at most 100 for percentage discounts")
	}
	return nil
}

func loadServices(tx *gorm.DB, ids []uuid.UUID) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var services []models.Service
	if err := tx.Where("id IN ?", unique).Find(&services).Error; err != nil {
		return nil, fmt.Errorf("load applicable services: %w", err)
	}
	if len(services) != len(unique) {
		return nil, validationError("applicableServices", "contains an unknown service")
	}
	return services, nil
}
