package services

import (
	"context"
	"testing"
	"time"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRequiresCompletedAppointment(t *testing.T) {
	db := newTestDB(t)
	s := NewReviewService(db)
	customer := createUser(t, db, models.RoleCustomer)
	massage := createService(t, db, "Massage", 60, "80.00")

	input := ReviewInput{ServiceID: massage.ID, Rating: 5, Comment: "Lovely"}

	_, err := s.Create(context.Background(), customer, input)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Can only review services you have experienced", err.Error())

	// A confirmed visit is not enough.
	createAppointment(t, db, customer, massage, bookingDay.Add(9*time.Hour), models.StatusConfirmed)
	_, err = s.Create(context.Background(), customer, input)
	assert.ErrorIs(t, err, ErrForbidden)

	createAppointment(t, db, customer, massage, bookingDay.Add(10*time.Hour), models.StatusCompleted)
	review, err := s.Create(context.Background(), customer, input)
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	require.NotNil(t, review.User)
	assert.Equal(t, customer.Name, review.User.Name)
	require.NotNil(t, review.Service)
	assert.Equal(t, "Massage", review.Service.Name)

	_, err = s.Create(context.Background(), customer, input)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "You have already reviewed this service", err.Error())
}

func TestCreateReviewValidatesRating(t *testing.T) {
	db := newTestDB(t)
	s := NewReviewService(db)
	customer := createUser(t, db, models.RoleCustomer)
	massage := createService(t, db, "Massage", 60, "80.00")
	createAppointment(t, db, customer, massage, bookingDay.Add(9*time.Hour), models.StatusCompleted)

	for _, rating := range []int{0, 6} {
		_, err := s.Create(context.Background(), customer, ReviewInput{ServiceID: massage.ID, Rating: rating, Comment: "x"})
		assert.ErrorIs(t, err, ErrValidation)
	}
	_, err := s.Create(context.Background(), customer, ReviewInput{ServiceID: massage.ID, Rating: 4, Comment: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAndDeleteReviewOwnership(t *testing.T) {
	db := newTestDB(t)
	s := NewReviewService(db)
	author := createUser(t, db, models.RoleCustomer)
	stranger := createUser(t, db, models.RoleCustomer)
	admin := createUser(t, db, models.RoleAdmin)
	facial := createService(t, db, "Facial", 45, "60.00")
	createAppointment(t, db, author, facial, bookingDay.Add(9*time.Hour), models.StatusCompleted)

	review, err := s.Create(context.Background(), author, ReviewInput{ServiceID: facial.ID, Rating: 3, Comment: "Fine"})
	require.NoError(t, err)

	rating := 5
	_, err = s.Update(context.Background(), stranger, review.ID, ReviewUpdate{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Update(context.Background(), admin, review.ID, ReviewUpdate{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden, "admins may delete but not rewrite reviews")

	comment := "Great after all"
	updated, err := s.Update(context.Background(), author, review.ID, ReviewUpdate{Rating: &rating, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, comment, updated.Comment)

	bad := 9
	_, err = s.Update(context.Background(), author, review.ID, ReviewUpdate{Rating: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	blank := "   "
	_, err = s.Update(context.Background(), author, review.ID, ReviewUpdate{Comment: &blank})
	assert.ErrorIs(t, err, ErrValidation)
	kept, err := s.load(db, review.ID)
	require.NoError(t, err)
	assert.Equal(t, comment, kept.Comment)

	assert.ErrorIs(t, s.Delete(context.Background(), stranger, review.ID), ErrForbidden)
	require.NoError(t, s.Delete(context.Background(), admin, review.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), author, review.ID), ErrNotFound)
}

func TestListReviewsAndSummary(t *testing.T) {
	db := newTestDB(t)
	s := NewReviewService(db)
	spa := createService(t, db, "Spa", 60, "90.00")
	haircut := createService(t, db, "Haircut", 30, "25.00")

	for i, rating := range []int{4, 5} {
		customer := createUser(t, db, models.RoleCustomer)
		createAppointment(t, db, customer, spa, bookingDay.Add(time.Duration(9+i)*time.Hour), models.StatusCompleted)
		_, err := s.Create(context.Background(), customer, ReviewInput{ServiceID: spa.ID, Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	forSpa, err := s.ListByService(context.Background(), spa.ID)
	require.NoError(t, err)
	assert.Len(t, forSpa, 2)

	forHaircut, err := s.ListByService(context.Background(), haircut.ID)
	require.NoError(t, err)
	assert.Empty(t, forHaircut)

	summary, err := s.Summary(context.Background(), spa.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	empty, err := s.Summary(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)
}
