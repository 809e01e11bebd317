package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bazaar/pkg/logger"
	"bazaar/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Packages Service с использованием Gin
func SetupRoutes(packageHandler *PackageHandler) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("packages-service"))

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
			"service": "packages-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Packages endpoints
	packages := router.Group("/packages")
	{
		packages.POST("", packageHandler.CreatePackage)        // Создать пакет
		packages.GET("", packageHandler.ListPackages)          // Список пакетов постранично
		packages.GET("/:id", packageHandler.GetPackage)        // Получить пакет по ID
		packages.PUT("/:id", packageHandler.UpdatePackage)     // Полностью заменить пакет
		packages.DELETE("/:id", packageHandler.DeletePackage)  // Удалить пакет
	}

	return router
}
