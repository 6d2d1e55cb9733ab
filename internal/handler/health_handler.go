package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"learnjournal/internal/cache"
)

var errUnhealthy = errors.New("database unreachable")

// HealthHandler reports liveness of the process and its database.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB, cache *cache.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check answers "ok" while the database responds. Redis is optional, so an
// unreachable cache is only logged.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		slog.ErrorContext(ctx, "health check failed", "error", err)
		return c.String(http.StatusServiceUnavailable, errUnhealthy.Error())
	}
	if err := h.cache.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "redis unreachable", "error", err)
	}
	return c.String(http.StatusOK, "ok")
}
