package middleware

import (
	"meetings_app_go/config"
	"meetings_app_go/services/datetime"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyConfig is the context key for the application config
	ContextKeyConfig = "config"
	// ContextKeyCanonicalizer is the context key for the date/time canonicalizer
	ContextKeyCanonicalizer = "canonicalizer"
)

// WithConfig makes cfg and a canonicalizer for its time zone available to
// handlers through the request context
func WithConfig(cfg *config.Config, canon *datetime.Canonicalizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyConfig, cfg)
			c.Set(ContextKeyCanonicalizer, canon)
			return next(c)
		}
	}
}

// GetConfig returns the config stored by WithConfig, or an empty one
func GetConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get(ContextKeyConfig).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// GetCanonicalizer returns the canonicalizer stored by WithConfig. Without
// one it falls back to the config's time zone.
func GetCanonicalizer(c echo.Context) *datetime.Canonicalizer {
	if canon, ok := c.Get(ContextKeyCanonicalizer).(*datetime.Canonicalizer); ok && canon != nil {
		return canon
	}
	return datetime.New(GetConfig(c).Location())
}
