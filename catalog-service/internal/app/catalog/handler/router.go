package handler

import (
	"net/http"

	"packagecatalog/pkg/logger"
	"packagecatalog/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BasePath - префикс всех маршрутов API пакетов
const BasePath = "/packages-api"

// SetupRoutes настраивает все маршруты Catalog Service с использованием Gin
// Чтение открыто, изменение пакетов требует роль manager или admin, если задан JWT секрет
func SetupRoutes(
	packageHandler *PackageHandler,
	healthHandler *HealthHandler,
	authMiddleware *AuthMiddleware,
	allowOrigins []string,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(CustomRecovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("catalog"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/health/liveness", healthHandler.Liveness)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var writeGuard []gin.HandlerFunc
	if authMiddleware != nil && authMiddleware.Enabled() {
		writeGuard = []gin.HandlerFunc{
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("manager", "admin"),
		}
	}

	api := router.Group(BasePath)
	{
		api.GET("/currency", packageHandler.GetCurrencies)
		api.GET("/convert", packageHandler.Convert)

		api.GET("/package", packageHandler.GetPackages)
		api.GET("/package/:id", packageHandler.GetPackage)

		api.POST("/package", append(writeGuard, packageHandler.CreatePackage)...)
		api.PUT("/package/:id", append(writeGuard, packageHandler.UpdatePackage)...)
		api.DELETE("/package/:id", append(writeGuard, packageHandler.DeletePackage)...)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}
