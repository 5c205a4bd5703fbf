package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/item-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/item-tracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Items  *handler.ItemHandler
	Health *handler.HealthHandler
}

func NewRouter(logger *slog.Logger, h Handlers, authn middleware.Authenticator, users middleware.UserFinder) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/health", h.Health.Liveness)
	r.GET("/health/ready", h.Health.Readiness)

	auth := r.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Protected item routes
	items := r.Group("/items", middleware.Auth(authn), middleware.RequireUser(users, logger))
	items.GET("", h.Items.List)
	items.POST("", h.Items.Create)
	items.GET("/:id", h.Items.GetByID)
	items.PUT("/:id", h.Items.Update)
	items.DELETE("/:id", h.Items.Delete)

	return r
}
