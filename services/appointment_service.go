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

type BookingInput struct {
	ServiceID       uuid.UUID
	AppointmentDate time.Time
	Notes           string
	PromoCode       string
}

// AppointmentFilter narrows a listing. Bounds are inclusive; zero values
// mean no constraint.
type AppointmentFilter struct {
	Status *models.AppointmentStatus
	From   *time.Time
	To     *time.Time
}

type AppointmentService struct {
	db         *gorm.DB
	promotions *PromotionService
	hours      BusinessHours
}

func NewAppointmentService(db *gorm.DB, promotions *PromotionService, hours BusinessHours) *AppointmentService {
	return &AppointmentService{db: db, promotions: promotions, hours: hours}
}

// AvailableSlots returns the free start times for a service on day's
// calendar date, in ascending order. day's location is used as is.
func (s *AppointmentService) AvailableSlots(ctx context.Context, serviceID uuid.UUID, day time.Time) ([]time.Time, error) {
	db := s.db.WithContext(ctx)

	service, err := findService(db, serviceID)
	if err != nil {
		return nil, err
	}

	slots, err := GenerateSlots(day, time.Duration(service.Duration)*time.Minute, s.hours)
	if err != nil {
		return nil, err
	}

	var booked []time.Time
	if err := db.Model(&models.Appointment{}).
		Where("service_id = ? AND appointment_date BETWEEN ? AND ? AND status <> ?",
			serviceID, utils.BeginningOfDay(day), utils.EndOfDay(day), models.StatusCancelled).
		Pluck("appointment_date", &booked).Error; err != nil {
		return nil, fmt.Errorf("load booked appointments: %w", err)
	}

	return FreeSlots(slots, booked), nil
}

// Book creates a pending appointment for user. The amount is fixed from the
// service price at this moment, less any promotion discount.
func (s *AppointmentService) Book(ctx context.Context, user *models.User, input BookingInput) (*models.Appointment, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if input.AppointmentDate.IsZero() {
		return nil, validationError("appointmentDate", "is required")
	}

	appointment := models.Appointment{
		UserID:          user.ID,
		ServiceID:       input.ServiceID,
		AppointmentDate: input.AppointmentDate,
		Notes:           strings.TrimSpace(input.Notes),
		Status:          models.StatusPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		service, err := findService(tx, input.ServiceID)
		if err != nil {
			return err
		}
		if service.State != models.ServiceActive {
			return newError(KindInvalidState, "Service is not available")
		}

		taken, err := slotTaken(tx, input.ServiceID, input.AppointmentDate)
		if err != nil {
			return err
		}
		if taken {
			return newError(KindConflict, "Time slot not available")
		}

		appointment.TotalAmount = service.Price
		if code := strings.TrimSpace(input.PromoCode); code != "" {
			promo, err := s.promotions.validateTx(tx, code, &service.ID)
			if err != nil {
				return err
			}
			if err := s.promotions.redeemTx(tx, promo.ID); err != nil {
				return err
			}
			appointment.TotalAmount = ApplyDiscount(promo, service.Price)
			appointment.PromotionID = &promo.ID
		}

		if err := tx.Create(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindConflict, "Time slot not available")
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(s.db.WithContext(ctx), appointment.ID)
}

// TransitionStatus moves an appointment to target after checking who may
// request it and whether the status table allows it.
func (s *AppointmentService) TransitionStatus(ctx context.Context, user *models.User, id uuid.UUID, target models.AppointmentStatus) (*models.Appointment, error) {
	db := s.db.WithContext(ctx)

	appointment, err := s.load(db, id)
	if err != nil {
		return nil, err
	}

	if !CanRequestTransition(user, appointment, target) {
		if user == nil || appointment.UserID != user.ID {
			return nil, newError(KindForbidden, "Not authorized to update this appointment")
		}
		return nil, newError(KindForbidden, "Users can only cancel appointments")
	}
	if err := ValidateTransition(appointment.Status, target); err != nil {
		return nil, err
	}

	result := db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, appointment.Status).
		Update("status", target)
	if result.Error != nil {
		return nil, fmt.Errorf("update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, newError(KindConflict, "Appointment was modified by another request")
	}

	return s.load(db, id)
}

func (s *AppointmentService) List(ctx context.Context, user *models.User, filter AppointmentFilter) ([]models.Appointment, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	query := s.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Order("appointment_date asc")
	if !IsAdmin(user) {
		query = query.Where("user_id = ?", user.ID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("appointment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointment_date <= ?", *filter.To)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (s *AppointmentService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !CanViewAppointment(user, appointment) {
		return nil, newError(KindForbidden, "Not authorized to view this appointment")
	}
	return appointment, nil
}

func (s *AppointmentService) load(tx *gorm.DB, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := tx.Preload("User").Preload("Service").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Appointment not found")
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &appointment, nil
}

func slotTaken(tx *gorm.DB, serviceID uuid.UUID, at time.Time) (bool, error) {
	var count int64
	if err := tx.Model(&models.Appointment{}).
		Where("service_id = ? AND appointment_date = ? AND status <> ?", serviceID, at, models.StatusCancelled).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return count > 0, nil
}
