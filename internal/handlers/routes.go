package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/riskdesk/riskdesk/internal/config"
	"github.com/riskdesk/riskdesk/internal/ipqs"
)

// SetupRouter builds the HTTP router with all routes and middleware.
func SetupRouter(cfg *config.Config, logger *zap.Logger, client *ipqs.Client, registry *prometheus.Registry) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	handler := NewHandler(cfg, logger, client)

	router.GET("/health", handler.Health)
	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		check := v1.Group("/check")
		{
			check.GET("/ip/:ip", handler.CheckIP)
			check.GET("/email/:email", handler.CheckEmail)
			check.GET("/phone/:phone", handler.CheckPhone)
			check.POST("/url", handler.CheckURL)
		}

		v1.POST("/leaks", handler.CheckLeaks)

		malware := v1.Group("/malware")
		{
			malware.GET("/hash/:hash", handler.LookupMalwareHash)
			malware.POST("/scan", handler.ScanRemoteFile)
		}

		v1.POST("/transaction", handler.ValidateTransaction)
		v1.POST("/report", handler.ReportFraud)

		v1.GET("/credits", handler.GetCredits)
		v1.GET("/requests", handler.GetRequestList)
		v1.GET("/countries", handler.GetCountries)

		lists := v1.Group("/lists")
		{
			lists.GET("/:list", handler.GetListEntries)
			lists.POST("/:list", handler.CreateListEntry)
			lists.DELETE("/:list", handler.DeleteListEntry)
		}

		v1.DELETE("/cache", handler.ClearCache)
		v1.PUT("/settings/scoring", handler.UpdateScoringSettings)
	}

	return router
}
