package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"staffing_bridge/internal/service"
	"staffing_bridge/pkg/logger"
)

type StatsHandler struct {
	statsService service.StatsService
	log          logger.Logger
}

func NewStatsHandler(statsService service.StatsService, log logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		log:          log,
	}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to load stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "try_again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}
