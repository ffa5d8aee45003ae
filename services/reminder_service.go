// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

const DefaultReminderMessage = "Hi [CustomerName], this is a reminder of your [ServiceName] appointment tomorrow at [Time]. Reply to this message if you need to reschedule."

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	Send(to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type ReminderRun struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type TemplateUpdate struct {
	Message  *string
	IsActive *bool
}

// ReminderService texts customers the day before a confirmed appointment.
type ReminderService struct {
	db     *gorm.DB
	sender SMSSender
	log    zerolog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewReminderService builds the service. A nil sender disables delivery while
// keeping the template endpoints usable.
func NewReminderService(db *gorm.DB, sender SMSSender, log zerolog.Logger, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{db: db, sender: sender, log: log, loc: loc, now: time.Now}
}

func (s *ReminderService) StartScheduler(spec string) (*cron.Cron, error) {
	if s.sender == nil {
		s.log.Warn().Msg("SMS credentials not configured, appointment reminders disabled")
		return nil, nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(spec, func() {
		run, err := s.SendUpcomingReminders(context.Background())
		if err != nil {
			s.log.Error().Err(err).Msg("appointment reminder run failed")
			return
		}
		s.log.Info().Int("sent", run.Sent).Int("failed", run.Failed).Msg("appointment reminders processed")
	}); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}

	c.Start()
	s.log.Info().Str("schedule", spec).Msg("reminder scheduler started")
	return c, nil
}

// EnsureDefaultTemplate seeds the reminder template on first start.
func (s *ReminderService) EnsureDefaultTemplate(ctx context.Context) error {
	template := models.ReminderTemplate{
		Type:     models.ReminderTypeAppointment,
		Message:  DefaultReminderMessage,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).
		Where("type = ?", models.ReminderTypeAppointment).
		FirstOrCreate(&template).Error; err != nil {
		return fmt.Errorf("seed reminder template: %w", err)
	}
	return nil
}

func (s *ReminderService) GetTemplate(ctx context.Context) (*models.ReminderTemplate, error) {
	var template models.ReminderTemplate
	if err := s.db.WithContext(ctx).
		Where("type = ?", models.ReminderTypeAppointment).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Reminder template not found")
		}
		return nil, fmt.Errorf("get reminder template: %w", err)
	}
	return &template, nil
}

func (s *ReminderService) UpdateTemplate(ctx context.Context, input TemplateUpdate) (*models.ReminderTemplate, error) {
	template, err := s.GetTemplate(ctx)
	if err != nil {
		return nil, err
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			return nil, validationError("message", "is required")
		}
		template.Message = message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := s.db.WithContext(ctx).Save(template).Error; err != nil {
		return nil, fmt.Errorf("update reminder template: %w", err)
	}
	return template, nil
}

func (s *ReminderService) ListLogs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []models.ReminderLog
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list reminder logs: %w", err)
	}
	return logs, nil
}

// SendUpcomingReminders texts every confirmed appointment on the next
// calendar day that has not been reminded successfully yet.
func (s *ReminderService) SendUpcomingReminders(ctx context.Context) (ReminderRun, error) {
	var run ReminderRun
	if s.sender == nil {
		return run, nil
	}

	template, err := s.GetTemplate(ctx)
	if err != nil {
		return run, err
	}
	if !template.IsActive {
		s.log.Info().Msg("appointment reminder template inactive, skipping run")
		return run, nil
	}

	tomorrow := utils.BeginningOfDay(s.now().In(s.loc)).AddDate(0, 0, 1)
	var appointments []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("status = ? AND appointment_date BETWEEN ? AND ?",
			models.StatusConfirmed, tomorrow, utils.EndOfDay(tomorrow)).
		Where("NOT EXISTS (SELECT 1 FROM reminder_logs WHERE reminder_logs.appointment_id = appointments.id AND reminder_logs.status = ?)",
			models.ReminderStatusSent).
		Order("appointment_date asc").
		Find(&appointments).Error; err != nil {
		return run, fmt.Errorf("load upcoming appointments: %w", err)
	}

	for _, appointment := range appointments {
		if s.remind(ctx, template, &appointment) {
			run.Sent++
		} else {
			run.Failed++
		}
	}
	return run, nil
}

func (s *ReminderService) remind(ctx context.Context, template *models.ReminderTemplate, appointment *models.Appointment) bool {
	message := RenderReminder(template.Message, appointment, s.loc)

	reminderLog := models.ReminderLog{
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
		TemplateID:    template.ID,
		Message:       message,
		Channel:       "sms",
		Status:        models.ReminderStatusSent,
	}

	var phone string
	if appointment.User != nil {
		phone = appointment.User.Phone
	}
	sid, err := s.sender.Send(phone, message)
	if err != nil {
		s.log.Error().Err(err).Str("appointment", appointment.ID.String()).Msg("failed to send reminder")
		reminderLog.Status = models.ReminderStatusFailed
		reminderLog.ErrorMessage = err.Error()
	} else {
		sentAt := s.now()
		reminderLog.SentAt = &sentAt
		reminderLog.ProviderID = sid
	}

	if err := s.db.WithContext(ctx).Create(&reminderLog).Error; err != nil {
		s.log.Error().Err(err).Str("appointment", appointment.ID.String()).Msg("failed to log reminder")
	}
	return reminderLog.Status == models.ReminderStatusSent
}

// RenderReminder fills the template placeholders for one appointment.
func RenderReminder(message string, appointment *models.Appointment, loc *time.Location) string {
	customer, service := "there", "upcoming"
	if appointment.User != nil {
		customer = appointment.User.Name
	}
	if appointment.Service != nil {
		service = appointment.Service.Name
	}
	at := appointment.AppointmentDate
	if loc != nil {
		at = at.In(loc)
	}
	return strings.NewReplacer(
		"[CustomerName]", customer,
		"[ServiceName]", service,
		"[Time]", at.Format("15:04"),
	).Replace(message)
}
