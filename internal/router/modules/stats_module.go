package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stray2stay/api/internal/container"
	handlers "github.com/stray2stay/api/internal/interface/http"
	"github.com/stray2stay/api/internal/interface/middleware"
)

// StatsModule serves the public impact numbers and the map projection.

type StatsModule struct {
	Handler *handlers.StatsHandler
}

func NewStatsModule(h *handlers.StatsHandler) *StatsModule {
	return &StatsModule{Handler: h}
}

func (m *StatsModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/stats", rl, m.Handler.Platform)
	rg.GET("/stats/map", rl, m.Handler.MapView)
}
