package services

import (
	"context"
	"testing"

	"salonbook-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCreateAndUpdate(t *testing.T) {
	s := NewCatalogService(newTestDB(t))

	created, err := s.Create(context.Background(), ServiceInput{
		Name:        " Deep Tissue ",
		Description: "Firm pressure massage",
		Duration:    60,
		Price:       decimal.RequireFromString("85.50"),
		Category:    models.CategoryMassage,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deep Tissue", created.Name)
	assert.True(t, created.IsActive)

	_, err = s.Create(context.Background(), ServiceInput{Name: "Bad", Duration: 0, Price: decimal.Zero, Category: models.CategorySpa})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(context.Background(), ServiceInput{Name: "Bad", Duration: 30, Price: decimal.NewFromInt(-1), Category: models.CategorySpa})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(context.Background(), ServiceInput{Name: "Bad", Duration: 30, Price: decimal.Zero, Category: "nails"})
	assert.ErrorIs(t, err, ErrValidation)

	price := decimal.RequireFromString("90")
	inactive := false
	updated, err := s.Update(context.Background(), created.ID, ServiceUpdate{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.False(t, updated.IsActive)
	assert.Equal(t, models.ServiceInactive, updated.State)

	_, err = s.Update(context.Background(), uuid.New(), ServiceUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogListFilters(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogService(db)
	spa := createService(t, db, "Spa", 60, "90.00")
	retired := createService(t, db, "Retired", 30, "10.00")
	require.NoError(t, s.Deactivate(context.Background(), retired.ID))

	all, err := s.List(context.Background(), ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := s.List(context.Background(), ServiceFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, spa.ID, onlyActive[0].ID)

	haircut := models.CategoryHaircut
	none, err := s.List(context.Background(), ServiceFilter{Category: &haircut})
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := s.Get(context.Background(), retired.ID)
	require.NoError(t, err, "deactivated services stay readable")
	assert.False(t, got.IsActive)
}

func TestCatalogSearch(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogService(db)
	createService(t, db, "Hot Stone Massage", 60, "95.00")
	createService(t, db, "Express Facial", 30, "40.00")
	retired := createService(t, db, "Stone Pedicure", 45, "50.00")
	require.NoError(t, s.Deactivate(context.Background(), retired.ID))

	found, err := s.Search(context.Background(), "STONE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hot Stone Massage", found[0].Name)

	byDescription, err := s.Search(context.Background(), "facial treatment")
	require.NoError(t, err)
	assert.Len(t, byDescription, 1)

	// Every helper service is in the spa category.
	byCategory, err := s.Search(context.Background(), "spa")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	literal, err := s.Search(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, literal, "wildcards are matched literally")

	_, err = s.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogDeactivateUnknown(t *testing.T) {
	s := NewCatalogService(newTestDB(t))
	assert.ErrorIs(t, s.Deactivate(context.Background(), uuid.New()), ErrNotFound)
}
