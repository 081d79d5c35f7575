package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/response"
	"github.com/yukikurage/folio-api/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats returns the stored key/value pairs
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, stats)
}

// SetStat upserts a single value
func (h *StatsHandler) SetStat(c *gin.Context) {
	type SetStatRequest struct {
		Value string `json:"value" binding:"max=1000"`
	}

	var req SetStatRequest
	if !bindJSON(c, &req) {
		return
	}

	stat, err := h.statsService.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		if errors.Is(err, services.ErrStatKeyEmpty) {
			apierrors.BadRequest(c, "Stat key is required")
			return
		}
		_ = c.Error(err)
		return
	}

	response.OKWithMessage(c, stat, "Stat updated successfully")
}
