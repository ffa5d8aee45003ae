package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryHaircut Category = "haircut"
	CategorySpa     Category = "spa"
	CategoryFacial  Category = "facial"
	CategoryMassage Category = "massage"
	CategoryOther   Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHaircut, CategorySpa, CategoryFacial, CategoryMassage, CategoryOther:
		return true
	}
	return false
}

// ServiceState is the catalog lifecycle of a service. Inactive services stay
// in the table so historical appointments and reviews keep their reference.
type ServiceState string

const (
	ServiceActive   ServiceState = "active"
	ServiceInactive ServiceState = "inactive"
)

type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Duration    int             `gorm:"not null" json:"duration"` // in minutes
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	State       ServiceState    `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	Image       string          `json:"image,omitempty"`

	IsActive bool `gorm:"-" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.State == "" {
		s.State = ServiceActive
	}
	return
}

func (s *Service) AfterFind(tx *gorm.DB) (err error) {
	s.IsActive = s.State == ServiceActive
	return
}

func (s *Service) AfterSave(tx *gorm.DB) (err error) {
	s.IsActive = s.State == ServiceActive
	return
}
