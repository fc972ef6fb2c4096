package handlers

import (
	"errors"
	"log"
	"meetings_app_go/db"
	"meetings_app_go/middleware"
	"meetings_app_go/models"
	"meetings_app_go/services"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned by RegisterHandler
type RegisterResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// LoginResponse is returned by LoginHandler
type LoginResponse struct {
	Access string `json:"access"`
}

// RegisterHandler creates an account and signs it in
func RegisterHandler(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := services.RegisterUser(db.DB, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "Username and password required")
		case errors.Is(err, services.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		var policyErr *services.PasswordPolicyError
		if errors.As(err, &policyErr) {
			return echo.NewHTTPError(http.StatusBadRequest, "Password rejected: "+policyErr.Reason)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user").SetInternal(err)
	}

	cfg := middleware.GetConfig(c)
	_, token, err := services.CreateSession(db.DB, cfg.SessionSecret, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session").SetInternal(err)
	}

	auditCtx := services.AuditContextForUser(user, c.RealIP(), c.Request().UserAgent())
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionRegister, "User", user.ID, user.Username, "Account registered", nil, nil)

	if user.Email != "" {
		services.SendEmailAsync(cfg, services.BuildWelcomeEmail(user.Email, user.Username, cfg.AppURL))
	}

	return c.JSON(http.StatusCreated, RegisterResponse{User: user, Token: token})
}

// LoginHandler exchanges a username and password for a bearer token
func LoginHandler(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := services.Authenticate(db.DB, req.Username, req.Password, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, "Username and password required")
		case errors.Is(err, services.ErrAccountLocked):
			services.LogSecurityEvent("LOGIN_LOCKED", req.Username, "login attempt while locked from "+c.RealIP())
			return echo.NewHTTPError(http.StatusTooManyRequests, "Account is locked. Try again later.")
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountInactive):
			services.LogSecurityEvent("LOGIN_FAILED", req.Username, "from "+c.RealIP())
			services.Monitor.TrackFailedLogin(c.RealIP(), req.Username, time.Now())
			return echo.NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed").SetInternal(err)
	}

	cfg := middleware.GetConfig(c)
	_, token, err := services.CreateSession(db.DB, cfg.SessionSecret, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session").SetInternal(err)
	}

	auditCtx := services.AuditContextForUser(user, c.RealIP(), c.Request().UserAgent())
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionLogin, "User", user.ID, user.Username, "User logged in", nil, nil)

	return c.JSON(http.StatusOK, LoginResponse{Access: token})
}

// LogoutHandler revokes the bearer token used for the request
func LogoutHandler(c echo.Context) error {
	cfg := middleware.GetConfig(c)
	if err := services.DeleteSession(db.DB, cfg.SessionSecret, middleware.BearerToken(c)); err != nil {
		log.Printf("[WARNING] Failed to delete session: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to log out")
	}

	if user := middleware.GetCurrentUser(c); user != nil {
		services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), models.AuditActionLogout, "User", user.ID, user.Username, "User logged out", nil, nil)
	}

	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated user
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return c.JSON(http.StatusOK, user)
}
