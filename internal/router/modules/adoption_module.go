package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stray2stay/api/internal/container"
	handlers "github.com/stray2stay/api/internal/interface/http"
	"github.com/stray2stay/api/internal/interface/middleware"
	"github.com/stray2stay/api/pkg/helpers"
)

// AdoptionModule covers the request workflow. Every route requires a
// session: requests name the caller as adopter, status changes are
// poster-only and enforced in the service layer.

type AdoptionModule struct {
	Handler *handlers.AdoptionHandler
	JWT     *helpers.JWTManager
}

func NewAdoptionModule(h *handlers.AdoptionHandler, jwt *helpers.JWTManager) *AdoptionModule {
	return &AdoptionModule{Handler: h, JWT: jwt}
}

func (m *AdoptionModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/adoptions")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/user", m.Handler.ListForUser)
		auth.PATCH("/:id/status", m.Handler.UpdateStatus)
	}
}
