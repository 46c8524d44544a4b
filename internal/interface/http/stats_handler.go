package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/stray2stay/api/internal/application"
	repo "github.com/stray2stay/api/internal/domain/repository"
	"github.com/stray2stay/api/pkg/response"
)

type StatsHandler struct {
	Svc    *app.StatsService
	Logger *logrus.Logger
}

func NewStatsHandler(svc *app.StatsService, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{Svc: svc, Logger: logger}
}

func (h *StatsHandler) Platform(c *gin.Context) {
	stats, err := h.Svc.Platform(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "platform statistics", nil)
}

func (h *StatsHandler) MapView(c *gin.Context) {
	f := repo.MapFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	pins, err := h.Svc.MapView(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"animals": pins, "count": len(pins)}, "map data", nil)
}
