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
	courseHandler *CourseHandler,
	reviewHandler *ReviewHandler,
	authMiddleware *AuthMiddleware,
	visitPublisher visitlog.Publisher,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("courses-service"))

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
			"service": "courses-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Категории: чтение публичное, изменения только администратору
	categories := router.Group("/categories")
	{
		categories.GET("", courseHandler.GetAllCategories)

		adminOnly := categories.Group("")
		adminOnly.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(access.RoleAdmin))
		{
			adminOnly.POST("", courseHandler.CreateCategory)
			adminOnly.PUT("/:category_id", courseHandler.UpdateCategory)
			adminOnly.DELETE("/:category_id", courseHandler.DeleteCategory)
		}
	}

	// Курсы: просмотр публичный (с опциональной идентичностью,
	// чтобы показать собственный отзыв), запись аутентифицированным
	courses := router.Group("/courses")
	{
		courses.GET("", courseHandler.ListCourses)
		courses.GET("/:course_id", authMiddleware.OptionalAuthenticate(), courseHandler.GetCourse)
		courses.GET("/:course_id/reviews", reviewHandler.ListReviews)

		protected := courses.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", courseHandler.CreateCourse)
			protected.PUT("/:course_id", courseHandler.UpdateCourse)
			protected.DELETE("/:course_id", authMiddleware.RequireRole(access.RoleAdmin), courseHandler.DeleteCourse)

			protected.POST("/:course_id/reviews", reviewHandler.SubmitReview)
			protected.GET("/:course_id/reviews/my", reviewHandler.GetMyReview)
		}
	}

	return router
}
