package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Promotion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	DiscountType  DiscountType    `gorm:"type:varchar(20);not null" json:"discountType"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	Code          string          `gorm:"uniqueIndex;not null" json:"code"`
	StartDate     time.Time       `gorm:"not null" json:"startDate"`
	EndDate       time.Time       `gorm:"not null" json:"endDate"`
	IsActive      bool            `gorm:"not null;default:true" json:"isActive"`
	MaxUses       *int            `json:"maxUses"`
	UsedCount     int             `gorm:"not null;default:0" json:"usedCount"`

	// Empty means the promotion applies to every service.
	ApplicableServices []Service `gorm:"many2many:promotion_services;" json:"applicableServices"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// AppliesTo reports whether the promotion covers the given service.
func (p *Promotion) AppliesTo(serviceID uuid.UUID) bool {
	if len(p.ApplicableServices) == 0 {
		return true
	}
	for _, s := range p.ApplicableServices {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}
