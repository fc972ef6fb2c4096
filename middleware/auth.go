package middleware

import (
	"errors"
	"meetings_app_go/db"
	"meetings_app_go/models"
	"meetings_app_go/services"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"

	bearerPrefix = "Bearer "
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// RequireAuth is middleware that requires a valid bearer token
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return unauthorized(c, "Authentication credentials were not provided.")
			}

			session, err := services.ValidateSession(db.DB, GetConfig(c).SessionSecret, token)
			if err != nil {
				if !errors.Is(err, services.ErrSessionNotFound) && !errors.Is(err, services.ErrSessionExpired) {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate session")
				}
				return unauthorized(c, "Invalid token.")
			}

			if !session.User.IsActive {
				return unauthorized(c, "User inactive or deleted.")
			}

			c.Set(ContextKeyUser, &session.User)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, message)
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentSession retrieves the current session from context
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
