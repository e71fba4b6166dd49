package app

import (
	"net/http"

	"github.com/carelinkhq/carechat-core/internal/middleware"
	"github.com/carelinkhq/carechat-core/internal/modules/brief"
	"github.com/carelinkhq/carechat-core/internal/modules/conversation"
	"github.com/carelinkhq/carechat-core/internal/modules/profile"
	"github.com/carelinkhq/carechat-core/internal/modules/stats"
	pkgredis "github.com/carelinkhq/carechat-core/internal/pkg/redis"
	"github.com/carelinkhq/carechat-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	if rc != nil {
		r.Use(middleware.RateLimit(rc.Raw()))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.AppAuth(db))

	brief.NewHandler(brief.NewService(db)).RegisterRoutes(api)
	profile.NewHandler(profile.NewService(db)).RegisterRoutes(api)
	stats.NewHandler(stats.NewService(db)).RegisterRoutes(api)
	conversation.NewHandler(conversation.NewService(db)).RegisterRoutes(api)
}
