package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewInput struct {
	ServiceID uuid.UUID
	Rating    int
	Comment   string
}

type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

type RatingSummary struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Average   float64   `json:"average"`
	Count     int64     `json:"count"`
}

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.find(s.db.WithContext(ctx))
}

func (s *ReviewService) ListByService(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	return s.find(s.db.WithContext(ctx).Where("service_id = ?", serviceID))
}

func (s *ReviewService) Summary(ctx context.Context, serviceID uuid.UUID) (*RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("service_id = ?", serviceID).
		Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}
	return &RatingSummary{ServiceID: serviceID, Average: row.Average, Count: row.Count}, nil
}

// Create records a review. Only customers with a completed appointment for
// the service may review it, once.
func (s *ReviewService) Create(ctx context.Context, user *models.User, input ReviewInput) (*models.Review, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if err := checkRating(input.Rating); err != nil {
		return nil, err
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, validationError("comment", "is required")
	}

	review := models.Review{
		UserID:    user.ID,
		ServiceID: input.ServiceID,
		Rating:    input.Rating,
		Comment:   comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var completed int64
		if err := tx.Model(&models.Appointment{}).
			Where("user_id = ? AND service_id = ? AND status = ?", user.ID, input.ServiceID, models.StatusCompleted).
			Count(&completed).Error; err != nil {
			return fmt.Errorf("check completed appointment: %w", err)
		}
		if completed == 0 {
			return newError(KindForbidden, "Can only review services you have experienced")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND service_id = ?", user.ID, input.ServiceID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing review: %w", err)
		}
		if existing > 0 {
			return newError(KindConflict, "You have already reviewed this service")
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindConflict, "You have already reviewed this service")
			}
			return fmt.Errorf("create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(s.db.WithContext(ctx), review.ID)
}

func (s *ReviewService) Update(ctx context.Context, user *models.User, id uuid.UUID, input ReviewUpdate) (*models.Review, error) {
	db := s.db.WithContext(ctx)
	review, err := s.load(db, id)
	if err != nil {
		return nil, err
	}
	if !CanModifyReview(user, review) {
		return nil, newError(KindForbidden, "Not authorized to update this review")
	}

	updates := map[string]interface{}{}
	if input.Rating != nil {
		if err := checkRating(*input.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *input.Rating
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if comment == "" {
			return nil, validationError("comment", "is required")
		}
		updates["comment"] = comment
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Review{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}
	}
	return s.load(db, id)
}

func (s *ReviewService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	review, err := s.load(db, id)
	if err != nil {
		return err
	}
	if !CanDeleteReview(user, review) {
		return newError(KindForbidden, "Not authorized to delete this review")
	}
	if err := db.Delete(&models.Review{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (s *ReviewService) find(query *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := query.
		Preload("User").
		Preload("Service").
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) load(tx *gorm.DB, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := tx.Preload("User").Preload("Service").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Review not found")
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return validationError("rating", "must be between 1 and 5")
	}
	return nil
}
