package controllers

import (
	"net/http"

	"salonbook-backend/middleware"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
}

type LoginInput struct {
	Identifier string `json:"identifier"` // email or phone
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

type AuthController struct {
	users        *services.UserService
	tokens       *utils.TokenManager
	secureCookie bool
	log          zerolog.Logger
}

func NewAuthController(users *services.UserService, tokens *utils.TokenManager, secureCookie bool, log zerolog.Logger) *AuthController {
	return &AuthController{users: users, tokens: tokens, secureCookie: secureCookie, log: log}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	user, err := ac.users.Register(c.Request.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	if !ac.issueToken(c, user) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithValidationError(c, http.StatusBadRequest, err)
		return
	}

	identifier := input.Identifier
	if identifier == "" {
		identifier = input.Email
	}
	if identifier == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Email or phone is required")
		return
	}

	user, err := ac.users.Authenticate(c.Request.Context(), identifier, input.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	if !ac.issueToken(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", ac.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// issueToken signs a session token and hands it out as an http-only cookie.
func (ac *AuthController) issueToken(c *gin.Context, user *models.User) bool {
	token, err := ac.tokens.GenerateToken(user.ID.String())
	if err != nil {
		ac.log.Error().Err(err).Str("user", user.ID.String()).Msg("failed to sign token")
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return false
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.TokenCookie,
		token,
		int(ac.tokens.Expiry().Seconds()),
		"/",
		"",
		ac.secureCookie,
		true,
	)
	return true
}
