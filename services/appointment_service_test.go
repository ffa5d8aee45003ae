package services

import (
	"context"
	"testing"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentService(t *testing.T) (*AppointmentService, *PromotionService) {
	t.Helper()
	db := newTestDB(t)
	promotions := NewPromotionService(db)
	promotions.now = fixedClock(bookingDay.AddDate(0, 0, -1))
	return NewAppointmentService(db, promotions, DefaultBusinessHours), promotions
}

func TestAvailableSlotsExcludesLiveBookings(t *testing.T) {
	svc, _ := newAppointmentService(t)
	customer := createUser(t, svc.db, models.RoleCustomer)
	massage := createService(t, svc.db, "Massage", 60, "80.00")

	ten := bookingDay.Add(10 * time.Hour)
	noon := bookingDay.Add(12 * time.Hour)
	createAppointment(t, svc.db, customer, massage, ten, models.StatusConfirmed)
	createAppointment(t, svc.db, customer, massage, noon, models.StatusCancelled)

	slots, err := svc.AvailableSlots(context.Background(), massage.ID, bookingDay)
	require.NoError(t, err)
	require.Len(t, slots, 7)

	for _, slot := range slots {
		assert.False(t, slot.Equal(ten), "confirmed booking must hide its slot")
	}
	assert.Contains(t, slots, noon, "cancelled booking frees its slot")
}

func TestAvailableSlotsUnknownService(t *testing.T) {
	svc, _ := newAppointmentService(t)

	_, err := svc.AvailableSlots(context.Background(), uuid.New(), bookingDay)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookSnapshotsPrice(t *testing.T) {
	svc, _ := newAppointmentService(t)
	customer := createUser(t, svc.db, models.RoleCustomer)
	facial := createService(t, svc.db, "Facial", 45, "60.00")

	appointment, err := svc.Book(context.Background(), customer, BookingInput{
		ServiceID:       facial.ID,
		AppointmentDate: bookingDay.Add(9 * time.Hour),
		Notes:           "  first visit ",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, appointment.Status)
	assert.True(t, appointment.TotalAmount.Equal(decimal.RequireFromString("60")))
	assert.Equal(t, "first visit", appointment.Notes)
	require.NotNil(t, appointment.Service)
	assert.Equal(t, "Facial", appointment.Service.Name)

	// Later price changes leave the booked amount alone.
	require.NoError(t, svc.db.Model(facial).Update("price", decimal.RequireFromString("99.00")).Error)
	reloaded, err := svc.Get(context.Background(), customer, appointment.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("60")))
}

func TestBookRejectsTakenSlotUntilCancelled(t *testing.T) {
	svc, _ := newAppointmentService(t)
	first := createUser(t, svc.db, models.RoleCustomer)
	second := createUser(t, svc.db, models.RoleCustomer)
	admin := createUser(t, svc.db, models.RoleAdmin)
	haircut := createService(t, svc.db, "Haircut", 30, "25.00")
	at := bookingDay.Add(11 * time.Hour)

	booked, err := svc.Book(context.Background(), first, BookingInput{ServiceID: haircut.ID, AppointmentDate: at})
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), second, BookingInput{ServiceID: haircut.ID, AppointmentDate: at})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Time slot not available", err.Error())

	_, err = svc.TransitionStatus(context.Background(), admin, booked.ID, models.StatusCancelled)
	require.NoError(t, err)

	rebooked, err := svc.Book(context.Background(), second, BookingInput{ServiceID: haircut.ID, AppointmentDate: at})
	require.NoError(t, err)
	assert.Equal(t, second.ID, rebooked.UserID)
}

func TestBookInactiveService(t *testing.T) {
	svc, _ := newAppointmentService(t)
	customer := createUser(t, svc.db, models.RoleCustomer)
	retired := createService(t, svc.db, "Retired", 30, "10.00")
	require.NoError(t, NewCatalogService(svc.db).Deactivate(context.Background(), retired.ID))

	_, err := svc.Book(context.Background(), customer, BookingInput{
		ServiceID:       retired.ID,
		AppointmentDate: bookingDay.Add(9 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Book(context.Background(), customer, BookingInput{
		ServiceID:       uuid.New(),
		AppointmentDate: bookingDay.Add(9 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookWithPromotionRedeemsOnce(t *testing.T) {
	svc, promotions := newAppointmentService(t)
	customer := createUser(t, svc.db, models.RoleCustomer)
	spa := createService(t, svc.db, "Spa Day", 60, "100.00")

	maxUses := 1
	_, err := promotions.Create(context.Background(), PromotionInput{
		Title:         "Spring",
		Description:   "Spring offer",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
		Code:          "spring20",
		StartDate:     bookingDay.AddDate(0, 0, -10),
		EndDate:       bookingDay.AddDate(0, 0, 10),
		MaxUses:       &maxUses,
	})
	require.NoError(t, err)

	appointment, err := svc.Book(context.Background(), customer, BookingInput{
		ServiceID:       spa.ID,
		AppointmentDate: bookingDay.Add(9 * time.Hour),
		PromoCode:       "Spring20",
	})
	require.NoError(t, err)
	assert.True(t, appointment.TotalAmount.Equal(decimal.NewFromInt(80)), "got %s", appointment.TotalAmount)
	require.NotNil(t, appointment.PromotionID)

	promo, err := promotions.Get(context.Background(), *appointment.PromotionID)
	require.NoError(t, err)
	assert.Equal(t, 1, promo.UsedCount)

	// Limit reached: the second booking fails and leaves no appointment behind.
	_, err = svc.Book(context.Background(), customer, BookingInput{
		ServiceID:       spa.ID,
		AppointmentDate: bookingDay.Add(10 * time.Hour),
		PromoCode:       "SPRING20",
	})
	assert.ErrorIs(t, err, ErrLimitReached)

	var count int64
	require.NoError(t, svc.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTransitionStatusAuthorization(t *testing.T) {
	svc, _ := newAppointmentService(t)
	owner := createUser(t, svc.db, models.RoleCustomer)
	stranger := createUser(t, svc.db, models.RoleCustomer)
	staff := createUser(t, svc.db, models.RoleStaff)
	admin := createUser(t, svc.db, models.RoleAdmin)
	massage := createService(t, svc.db, "Massage", 60, "80.00")
	appointment := createAppointment(t, svc.db, owner, massage, bookingDay.Add(9*time.Hour), models.StatusPending)

	_, err := svc.TransitionStatus(context.Background(), stranger, appointment.ID, models.StatusCancelled)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Not authorized to update this appointment", err.Error())

	_, err = svc.TransitionStatus(context.Background(), owner, appointment.ID, models.StatusConfirmed)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Users can only cancel appointments", err.Error())

	_, err = svc.TransitionStatus(context.Background(), staff, appointment.ID, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	confirmed, err := svc.TransitionStatus(context.Background(), admin, appointment.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	_, err = svc.TransitionStatus(context.Background(), admin, appointment.ID, models.StatusPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Cannot transition from confirmed to pending", err.Error())

	cancelled, err := svc.TransitionStatus(context.Background(), owner, appointment.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	_, err = svc.TransitionStatus(context.Background(), owner, appointment.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListAndGetVisibility(t *testing.T) {
	svc, _ := newAppointmentService(t)
	alice := createUser(t, svc.db, models.RoleCustomer)
	bob := createUser(t, svc.db, models.RoleCustomer)
	admin := createUser(t, svc.db, models.RoleAdmin)
	massage := createService(t, svc.db, "Massage", 60, "80.00")

	late := createAppointment(t, svc.db, alice, massage, bookingDay.Add(15*time.Hour), models.StatusPending)
	early := createAppointment(t, svc.db, alice, massage, bookingDay.Add(9*time.Hour), models.StatusConfirmed)
	other := createAppointment(t, svc.db, bob, massage, bookingDay.AddDate(0, 0, 1).Add(9*time.Hour), models.StatusPending)

	own, err := svc.List(context.Background(), alice, AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, early.ID, own[0].ID)
	assert.Equal(t, late.ID, own[1].ID)
	require.NotNil(t, own[0].User)
	assert.Equal(t, alice.Name, own[0].User.Name)

	all, err := svc.List(context.Background(), admin, AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending := models.StatusPending
	from := bookingDay.AddDate(0, 0, 1)
	filtered, err := svc.List(context.Background(), admin, AppointmentFilter{Status: &pending, From: &from})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].ID)

	_, err = svc.Get(context.Background(), bob, early.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(context.Background(), admin, early.ID)
	require.NoError(t, err)
	assert.Equal(t, early.ID, got.ID)

	_, err = svc.Get(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
