package controllers

import (
	"net/http"
	"time"

	"salonbook-backend/middleware"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookAppointmentInput struct {
	ServiceID       string     `json:"serviceId" binding:"required,uuid"`
	AppointmentDate *time.Time `json:"appointmentDate" binding:"required"`
	Notes           string     `json:"notes" binding:"max=1000"`
	PromoCode       string     `json:"promoCode"`
}

type UpdateStatusInput struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type AppointmentController struct {
	appointments *services.AppointmentService
	loc          *time.Location
	log          zerolog.Logger
}

func NewAppointmentController(appointments *services.AppointmentService, loc *time.Location, log zerolog.Logger) *AppointmentController {
	if loc == nil {
		loc = time.Local
	}
	return &AppointmentController{appointments: appointments, loc: loc, log: log}
}

// GetAvailableSlots answers ?serviceId=&date=YYYY-MM-DD with the free start times.
func (ac *AppointmentController) GetAvailableSlots(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("serviceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "serviceId is required")
		return
	}
	day, err := utils.ParseDay(c.Query("date"), ac.loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	slots, err := ac.appointments.AvailableSlots(c.Request.Context(), serviceID, day.In(ac.loc))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	var filter services.AppointmentFilter
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		if !status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	var ok bool
	if filter.From, ok = parseOptionalDay(c, "startDate", ac.loc, false); !ok {
		return
	}
	if filter.To, ok = parseOptionalDay(c, "endDate", ac.loc, true); !ok {
		return
	}

	list, err := ac.appointments.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	id, ok := pathID(c, "id", "Appointment not found")
	if !ok {
		return
	}
	appointment, err := ac.appointments.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input BookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	appointment, err := ac.appointments.Book(c.Request.Context(), middleware.CurrentUser(c), services.BookingInput{
		ServiceID:       uuid.MustParse(input.ServiceID),
		AppointmentDate: input.AppointmentDate.In(ac.loc),
		Notes:           input.Notes,
		PromoCode:       input.PromoCode,
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

func (ac *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := pathID(c, "id", "Appointment not found")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	appointment, err := ac.appointments.TransitionStatus(c.Request.Context(), middleware.CurrentUser(c), id, input.Status)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}
