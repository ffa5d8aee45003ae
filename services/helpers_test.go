package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// bookingDay is far enough ahead that promotions and appointments never
// collide with the wall clock.
var bookingDay = time.Date(2030, time.March, 14, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

var phoneSeq atomic.Int64

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	id := uuid.NewString()[:8]
	user := &models.User{
		Name:     "User " + id,
		Email:    id + "@example.com",
		Password: "secret123",
		Phone:    fmt.Sprintf("+1555%07d", phoneSeq.Add(1)),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createService(t *testing.T, db *gorm.DB, name string, duration int, price string) *models.Service {
	t.Helper()
	service := &models.Service{
		Name:        name,
		Description: name + " treatment",
		Duration:    duration,
		Price:       decimal.RequireFromString(price),
		Category:    models.CategorySpa,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func createAppointment(t *testing.T, db *gorm.DB, user *models.User, service *models.Service, at time.Time, status models.AppointmentStatus) *models.Appointment {
	t.Helper()
	appointment := &models.Appointment{
		UserID:          user.ID,
		ServiceID:       service.ID,
		AppointmentDate: at,
		TotalAmount:     service.Price,
		Status:          status,
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
