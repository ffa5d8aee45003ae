// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderTypeAppointment = "appointment_reminder"

	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
)

// ReminderTemplate is the SMS body used for appointment reminders.
// Supported placeholders: [CustomerName], [ServiceName], [Time].
type ReminderTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *ReminderTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

type ReminderLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;index;not null" json:"appointmentId"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	TemplateID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"templateId"`
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"type:varchar(20);index" json:"status"` // sent, failed
	ErrorMessage  string     `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel       string     `gorm:"type:varchar(20)" json:"channel"`
	ProviderID    string     `gorm:"type:varchar(64)" json:"providerId,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
