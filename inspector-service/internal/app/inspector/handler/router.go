package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
	"eduhub/pkg/visitlog"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	inspectorHandler *InspectorHandler,
	visitPublisher visitlog.Publisher,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("inspector-service"))

	// Журнал посещений: одно событие на каждый входящий запрос
	router.Use(visitlog.GinVisitMiddleware(visitPublisher))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "inspector-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Все endpoints инспекции публичные
	router.GET("/headers", inspectorHandler.Headers)
	router.GET("/url", inspectorHandler.URLParams)
	router.GET("/form", inspectorHandler.FormParams)
	router.POST("/form", inspectorHandler.FormParams)
	router.GET("/cookies", inspectorHandler.Cookies)
	router.POST("/phone", inspectorHandler.Phone)
	router.GET("/counter", inspectorHandler.Counter)

	return router
}
