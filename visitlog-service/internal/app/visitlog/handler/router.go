package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	visitLogHandler *VisitLogHandler,
	authMiddleware *AuthMiddleware,
	visitRecorder DirectVisitRecorder,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("visitlog-service"))

	// Собственные запросы сервиса пишутся в журнал напрямую, без Kafka
	router.Use(DirectVisitMiddleware(visitRecorder))

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
			"service": "visitlog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Журнал доступен любому аутентифицированному пользователю
	// (не администратор видит только свои записи), отчёты - только администратору
	visitLogs := router.Group("/visit_logs")
	visitLogs.Use(authMiddleware.Authenticate())
	{
		visitLogs.GET("", visitLogHandler.ListVisitLogs)

		adminOnly := visitLogs.Group("")
		adminOnly.Use(authMiddleware.RequireRole(access.RoleAdmin))
		{
			adminOnly.GET("/pages_report", visitLogHandler.PagesReport)
			adminOnly.GET("/pages_report/export", visitLogHandler.PagesReportCSV)
			adminOnly.GET("/users_report", visitLogHandler.UsersReport)
			adminOnly.GET("/users_report/export", visitLogHandler.UsersReportCSV)
		}
	}

	return router
}
