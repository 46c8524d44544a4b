package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stray2stay/api/internal/container"
	handlers "github.com/stray2stay/api/internal/interface/http"
	"github.com/stray2stay/api/internal/interface/middleware"
	"github.com/stray2stay/api/pkg/helpers"
)

// AnimalModule exposes the listing catalog. Reads are public with optional
// auth context; mutations require a session and per-user rate limits.

type AnimalModule struct {
	Handler *handlers.AnimalHandler
	JWT     *helpers.JWTManager
}

func NewAnimalModule(h *handlers.AnimalHandler, jwt *helpers.JWTManager) *AnimalModule {
	return &AnimalModule{Handler: h, JWT: jwt}
}

func (m *AnimalModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	public := rg.Group("/animals")
	public.Use(middleware.OptionalAuth(container.GetRedis(), m.JWT))
	{
		public.GET("", readLimiter, m.Handler.List)
		public.GET("/search", readLimiter, m.Handler.Search)
		public.GET("/:id", readLimiter, m.Handler.Get)
	}

	auth := rg.Group("/animals")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/interest", m.Handler.ExpressInterest)
		auth.PATCH("/:id/adopt", m.Handler.MarkAdopted)
	}
}
