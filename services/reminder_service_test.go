package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"salonbook-backend/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor string
}

func (f *fakeSender) Send(to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && strings.Contains(body, f.failFor) {
		return "", errors.New("carrier rejected message")
	}
	f.sent = append(f.sent, to+": "+body)
	return "SM123", nil
}

func newReminderService(t *testing.T, sender SMSSender) *ReminderService {
	t.Helper()
	s := NewReminderService(newTestDB(t), sender, zerolog.Nop(), time.UTC)
	s.now = fixedClock(bookingDay.Add(-15 * time.Hour)) // the evening before bookingDay
	require.NoError(t, s.EnsureDefaultTemplate(context.Background()))
	return s
}

func TestRenderReminder(t *testing.T) {
	appointment := &models.Appointment{
		AppointmentDate: bookingDay.Add(14*time.Hour + 30*time.Minute),
		User:            &models.User{Name: "Sam"},
		Service:         &models.Service{Name: "Pedicure"},
	}
	got := RenderReminder("Hi [CustomerName], [ServiceName] at [Time]", appointment, time.UTC)
	assert.Equal(t, "Hi Sam, Pedicure at 14:30", got)
}

func TestSendUpcomingReminders(t *testing.T) {
	sender := &fakeSender{}
	s := newReminderService(t, sender)

	customer := createUser(t, s.db, models.RoleCustomer)
	massage := createService(t, s.db, "Massage", 60, "80.00")
	facial := createService(t, s.db, "Facial", 30, "40.00")

	createAppointment(t, s.db, customer, massage, bookingDay.Add(10*time.Hour), models.StatusConfirmed)
	createAppointment(t, s.db, customer, facial, bookingDay.Add(11*time.Hour), models.StatusPending)
	createAppointment(t, s.db, customer, facial, bookingDay.AddDate(0, 0, 1).Add(11*time.Hour), models.StatusConfirmed)

	run, err := s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{Sent: 1}, run)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Massage")
	assert.Contains(t, sender.sent[0], "10:00")

	// A second run does not text the same appointment twice.
	run, err = s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{}, run)

	logs, err := s.ListLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ReminderStatusSent, logs[0].Status)
	assert.Equal(t, "SM123", logs[0].ProviderID)
}

func TestSendUpcomingRemindersRecordsFailures(t *testing.T) {
	sender := &fakeSender{failFor: "Massage"}
	s := newReminderService(t, sender)

	customer := createUser(t, s.db, models.RoleCustomer)
	massage := createService(t, s.db, "Massage", 60, "80.00")
	createAppointment(t, s.db, customer, massage, bookingDay.Add(10*time.Hour), models.StatusConfirmed)

	run, err := s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{Failed: 1}, run)

	// Failed deliveries are retried on the next run.
	sender.failFor = ""
	run, err = s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{Sent: 1}, run)

	logs, err := s.ListLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestReminderTemplate(t *testing.T) {
	s := newReminderService(t, &fakeSender{})

	template, err := s.GetTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultReminderMessage, template.Message)
	assert.True(t, template.IsActive)

	// Seeding again keeps the existing template.
	require.NoError(t, s.EnsureDefaultTemplate(context.Background()))

	message := "See you tomorrow at [Time]"
	inactive := false
	updated, err := s.UpdateTemplate(context.Background(), TemplateUpdate{Message: &message, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, message, updated.Message)
	assert.False(t, updated.IsActive)

	blank := " "
	_, err = s.UpdateTemplate(context.Background(), TemplateUpdate{Message: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	customer := createUser(t, s.db, models.RoleCustomer)
	massage := createService(t, s.db, "Massage", 60, "80.00")
	createAppointment(t, s.db, customer, massage, bookingDay.Add(10*time.Hour), models.StatusConfirmed)

	run, err := s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{}, run, "inactive template disables reminders")
}

func TestSchedulerDisabledWithoutSender(t *testing.T) {
	s := NewReminderService(newTestDB(t), nil, zerolog.Nop(), time.UTC)

	c, err := s.StartScheduler("0 9 * * *")
	require.NoError(t, err)
	assert.Nil(t, c)

	run, err := s.SendUpcomingReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderRun{}, run)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewReminderService(newTestDB(t), &fakeSender{}, zerolog.Nop(), time.UTC)

	_, err := s.StartScheduler("not a cron spec")
	assert.Error(t, err)
}
