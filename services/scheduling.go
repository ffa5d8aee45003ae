package services

import (
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

type BusinessHours struct {
	Open  int
	Close int
}

var DefaultBusinessHours = BusinessHours{Open: 9, Close: 17}

// GenerateSlots lists candidate start times on day's calendar date, from the
// opening hour in steps of duration, while the start is before closing.
func GenerateSlots(day time.Time, duration time.Duration, hours BusinessHours) ([]time.Time, error) {
	if duration <= 0 {
		return nil, validationError("duration", "must be positive")
	}

	start := utils.AtHour(day, hours.Open)
	end := utils.AtHour(day, hours.Close)

	var slots []time.Time
	for t := start; t.Before(end); t = t.Add(duration) {
		slots = append(slots, t)
	}
	return slots, nil
}

// FreeSlots drops every slot whose start equals a booked start exactly.
// Partially overlapping bookings do not block a slot.
func FreeSlots(slots, booked []time.Time) []time.Time {
	free := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		taken := false
		for _, b := range booked {
			if b.Equal(slot) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}

var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted: nil,
	models.StatusCancelled: nil,
}

func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidateTransition(from, to models.AppointmentStatus) error {
	if !CanTransition(from, to) {
		return newError(KindInvalidTransition, "Cannot transition from %s to %s", from, to)
	}
	return nil
}
