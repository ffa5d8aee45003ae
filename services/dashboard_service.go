package services

import (
	"context"
	"fmt"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardOverview struct {
	TodayAppointments map[models.AppointmentStatus]int64 `json:"todayAppointments"`
	UpcomingPending   int64                              `json:"upcomingPending"`
	MonthlyRevenue    decimal.Decimal                    `json:"monthlyRevenue"`
	ActiveServices    int64                              `json:"activeServices"`
	AverageRating     float64                            `json:"averageRating"`
	TotalReviews      int64                              `json:"totalReviews"`
}

type DashboardService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{db: db, loc: loc, now: time.Now}
}

func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	db := s.db.WithContext(ctx)
	now := s.now().In(s.loc)
	overview := &DashboardOverview{
		TodayAppointments: map[models.AppointmentStatus]int64{
			models.StatusPending:   0,
			models.StatusConfirmed: 0,
			models.StatusCompleted: 0,
			models.StatusCancelled: 0,
		},
	}

	var byStatus []struct {
		Status models.AppointmentStatus
		Count  int64
	}
	if err := db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Where("appointment_date BETWEEN ? AND ?", utils.BeginningOfDay(now), utils.EndOfDay(now)).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}
	for _, row := range byStatus {
		overview.TodayAppointments[row.Status] = row.Count
	}

	if err := db.Model(&models.Appointment{}).
		Where("status = ? AND appointment_date >= ?", models.StatusPending, now).
		Count(&overview.UpcomingPending).Error; err != nil {
		return nil, fmt.Errorf("count pending appointments: %w", err)
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var revenue struct {
		Total decimal.NullDecimal
	}
	if err := db.Model(&models.Appointment{}).
		Select("SUM(total_amount) AS total").
		Where("status = ? AND appointment_date >= ? AND appointment_date < ?",
			models.StatusCompleted, firstOfMonth, firstOfMonth.AddDate(0, 1, 0)).
		Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("sum monthly revenue: %w", err)
	}
	overview.MonthlyRevenue = revenue.Total.Decimal

	if err := db.Model(&models.Service{}).
		Where("state = ?", models.ServiceActive).
		Count(&overview.ActiveServices).Error; err != nil {
		return nil, fmt.Errorf("count active services: %w", err)
	}

	var ratings struct {
		Average float64
		Count   int64
	}
	if err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&ratings).Error; err != nil {
		return nil, fmt.Errorf("summarize ratings: %w", err)
	}
	overview.AverageRating = ratings.Average
	overview.TotalReviews = ratings.Count

	return overview, nil
}
