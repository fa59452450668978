package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduhub/pkg/access"
	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
	"eduhub/pkg/visitlog"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	authMiddleware *AuthMiddleware,
	visitPublisher visitlog.Publisher,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("auth-service"))

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

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "auth-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Публичные эндпоинты (без аутентификации)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Защищенные эндпоинты (требуют аутентификации)
		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", authHandler.GetMe)
			protected.POST("/change-password", authHandler.ChangePassword)
			protected.POST("/logout", authHandler.Logout)
		}
	}

	// Управление учётными записями: список только для администратора,
	// остальные операции с проверкой самопринадлежности в обработчиках
	users := router.Group("/users")
	users.Use(authMiddleware.Authenticate())
	{
		users.GET("", authMiddleware.RequireRole(access.RoleAdmin), userHandler.ListUsers)
		users.GET("/:user_id", userHandler.GetUser)
		users.PUT("/:user_id", userHandler.UpdateUser)
		users.DELETE("/:user_id", userHandler.DeleteUser)
	}

	return router
}
