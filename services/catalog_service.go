package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceInput struct {
	Name        string
	Description string
	Duration    int
	Price       decimal.Decimal
	Category    models.Category
	Image       string
}

type ServiceUpdate struct {
	Name        *string
	Description *string
	Duration    *int
	Price       *decimal.Decimal
	Category    *models.Category
	Image       *string
	IsActive    *bool
}

type ServiceFilter struct {
	Category *models.Category
	IsActive *bool
}

// CatalogService manages the bookable services offered by the business.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) List(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	query := s.db.WithContext(ctx).Order("created_at desc")
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		query = query.Where("state = ?", stateFor(*filter.IsActive))
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// Search matches active services whose name, description or category
// contains term, ignoring case.
func (s *CatalogService) Search(ctx context.Context, term string) ([]models.Service, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationError("query", "is required")
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var services []models.Service
	if err := s.db.WithContext(ctx).
		Where("state = ?", models.ServiceActive).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern).
		Order("name asc").
		Find(&services).Error; err != nil {
		return nil, fmt.Errorf("search services: %w", err)
	}
	return services, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return findService(s.db.WithContext(ctx), id)
}

func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if err := checkServiceFields(input.Duration, input.Price, input.Category); err != nil {
		return nil, err
	}

	service := models.Service{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Duration:    input.Duration,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		State:       models.ServiceActive,
	}
	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return &service, nil
}

func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, input ServiceUpdate) (*models.Service, error) {
	service, err := findService(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		service.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		service.Description = strings.TrimSpace(*input.Description)
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.Image != nil {
		service.Image = *input.Image
	}
	if input.IsActive != nil {
		service.State = stateFor(*input.IsActive)
	}
	if err := checkServiceFields(service.Duration, service.Price, service.Category); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(service).Error; err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	return service, nil
}

// Deactivate retires a service without removing it.
func (s *CatalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", id).
		Update("state", models.ServiceInactive)
	if result.Error != nil {
		return fmt.Errorf("deactivate service: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "Service not found")
	}
	return nil
}

func findService(tx *gorm.DB, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := tx.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Service not found")
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &service, nil
}

func checkServiceFields(duration int, price decimal.Decimal, category models.Category) error {
	if duration < 1 {
		return validationError("duration", "must be a positive number of minutes")
	}
	if price.IsNegative() {
		return validationError("price", "must not be negative")
	}
	switch category {
	case models.CategoryHaircut, models.CategorySpa, models.CategoryFacial, models.CategoryMassage, models.CategoryOther:
		return nil
	}
	return validationError("category", "must be one of: haircut spa facial massage other")
}

func stateFor(active bool) models.ServiceState {
	if active {
		return models.ServiceActive
	}
	return models.ServiceInactive
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
