package controllers

import (
	"net/http"

	"salonbook-backend/middleware"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type UpdateProfileInput struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ProfileController struct {
	users *services.UserService
	log   zerolog.Logger
}

func NewProfileController(users *services.UserService, log zerolog.Logger) *ProfileController {
	return &ProfileController{users: users, log: log}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	user, err := pc.users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), services.ProfileUpdate{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	})
	if err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (pc *ProfileController) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.users.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, pc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
