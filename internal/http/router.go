package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestLogger(log.Named("http")))
	router.Use(gin.Recovery())
	router.Use(SecurityHeaders())

	health := NewHealthController(cfg.Database, cfg.Scheduler, cfg.Version)
	preferencesController := NewPreferencesController(cfg.Preferences, cfg.Scheduler)
	languageController := NewLanguageController(cfg.Languages)
	siteURLController := NewSiteURLController(cfg.Normalizer)
	connectionController := NewConnectionController(cfg.Preferences, cfg.NewConnectionTester)
	pollController := NewPollController(cfg.Preferences, cfg.Scheduler)
	tasksController := NewTasksController(cfg.Tasks)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Preferences
	api.GET("/preferences", preferencesController.GetPreferences)
	api.PUT("/preferences", preferencesController.UpdatePreferences)
	api.DELETE("/preferences/:key", preferencesController.ResetPreference)

	// Language
	api.GET("/language", languageController.GetLanguage)
	api.PUT("/language", languageController.SetLanguage)

	// Store connection
	api.POST("/site-url/normalize", siteURLController.Normalize)
	api.POST("/connection/test", connectionController.TestConnection)

	// Order polling
	api.POST("/poll", pollController.PollNow)
	api.GET("/poll/status", pollController.GetStatus)

	// Background tasks
	api.GET("/tasks/:id", tasksController.GetTaskStatus)

	return router
}
