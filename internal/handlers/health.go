package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/folio-api/internal/database"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/response"
	"gorm.io/gorm"
)

const readinessTimeout = 5 * time.Second

type HealthHandler struct {
	db        *gorm.DB
	log       zerolog.Logger
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		log:       log,
		startedAt: time.Now(),
	}
}

// Liveness never touches the database
func (h *HealthHandler) Liveness(c *gin.Context) {
	response.OK(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Readiness runs a SELECT 1 round trip
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Warn().Err(err).Msg("Readiness check failed")
		apierrors.ServiceUnavailable(c, "Database unavailable")
		return
	}

	response.OK(c, gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
