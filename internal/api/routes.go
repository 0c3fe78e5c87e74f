package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/handlers"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/middleware"
	"github.com/jroosing/dnsfilter-dashboard/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jroosing/dnsfilter-dashboard/internal/api/docs" // swagger docs
)

const apiPrefix = "/api"

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Swagger UI at /swagger/*
	if cfg.API.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(apiPrefix)

	api.GET("/stats", h.Stats)
	api.GET("/top-blocked", h.TopBlocked)
	api.GET("/logs/blocked", h.BlockedLogs)
	api.GET("/logs/allowed", h.AllowedLogs)
	api.GET("/domains", h.Domains)

	api.GET("/health", h.Health)

	r.NoRoute(middleware.NotFound())
}
