// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type UpdateReminderTemplateInput struct {
	Message  *string `json:"message" binding:"omitempty,min=1"`
	IsActive *bool   `json:"isActive"`
}

type ReminderController struct {
	reminders *services.ReminderService
	log       zerolog.Logger
}

func NewReminderController(reminders *services.ReminderService, log zerolog.Logger) *ReminderController {
	return &ReminderController{reminders: reminders, log: log}
}

func (rc *ReminderController) GetReminderTemplate(c *gin.Context) {
	template, err := rc.reminders.GetTemplate(c.Request.Context())
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	template, err := rc.reminders.UpdateTemplate(c.Request.Context(), services.TemplateUpdate{
		Message:  input.Message,
		IsActive: input.IsActive,
	})
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// GetReminderLogs returns the most recent delivery attempts, ?limit= caps the count.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := rc.reminders.ListLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// SendReminders runs the reminder job immediately instead of waiting for cron.
func (rc *ReminderController) SendReminders(c *gin.Context) {
	run, err := rc.reminders.SendUpcomingReminders(c.Request.Context())
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
