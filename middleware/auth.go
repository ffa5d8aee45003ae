package middleware

import (
	"context"
	"net/http"
	"strings"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TokenCookie = "token"
	userKey     = "currentUser"
)

// TokenParser resolves a signed token to the user id it was issued for.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// UserLoader looks up the account behind a token.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticate accepts the token from the "token" cookie or an
// Authorization: Bearer header and stores the resolved user on the context.
func Authenticate(tokens TokenParser, users UserLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "Please authenticate")
			return
		}

		userID, err := tokens.ParseToken(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Please authenticate")
			return
		}
		id, err := uuid.Parse(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Please authenticate")
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			if services.KindOf(err) != services.KindNotFound {
				log.Error().Err(err).Str("user", userID).Msg("failed to load authenticated user")
			}
			utils.RespondWithError(c, http.StatusUnauthorized, "Please authenticate")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// Require lets the request through only when check accepts the current user.
func Require(check func(*models.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Please authenticate")
			return
		}
		if !check(user) {
			utils.RespondWithError(c, http.StatusForbidden, message)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return Require(services.IsAdmin, "Admin access required")
}

func RequireStaff() gin.HandlerFunc {
	return Require(services.IsStaffOrAdmin, "Staff access required")
}

// CurrentUser returns the authenticated user, or nil outside the gate.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
