package http

import (
	"log"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(log.Writer()))
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware(cfg.Production))

	localizer := newLocalizer(cfg.Localizer)

	health := NewHealthController(cfg.Database, cfg.StatsCache, cfg.Version)
	accounts := NewAccountsController(cfg.Accounts, cfg.Validator, cfg.AuditService, localizer)
	importer := NewImportController(cfg.Importer, cfg.AuditService, localizer)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/accounts", accounts.List)
		api.POST("/accounts", accounts.Create)
		api.GET("/accounts/stats", accounts.Stats)
		api.POST("/accounts/import", RateLimitMiddleware(cfg.ImportRateLimit, localizer), importer.Import)
		api.PATCH("/accounts/:id/status", accounts.SetStatus)
		api.DELETE("/accounts/:id", accounts.Delete)

		if cfg.AuditService != nil {
			auditController := NewAuditController(cfg.AuditService, localizer)
			api.GET("/audit", auditController.GetAuditEvents)
		}
	}

	return router
}
