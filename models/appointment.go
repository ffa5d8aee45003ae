package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked slot. The partial unique index keeps at most one
// live (non-cancelled) appointment per service and start time.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;index;not null" json:"userId"`
	ServiceID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_service_slot,where:status <> 'cancelled'" json:"serviceId"`
	AppointmentDate time.Time         `gorm:"not null;index;uniqueIndex:idx_appointment_service_slot,where:status <> 'cancelled'" json:"appointmentDate"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	PromotionID     *uuid.UUID        `gorm:"type:uuid;index" json:"promotionId,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return
}
