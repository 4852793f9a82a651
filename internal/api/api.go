package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ordersight/backend-go/internal/api/handlers"
	"github.com/ordersight/backend-go/internal/api/middleware"
	"github.com/ordersight/backend-go/internal/service"
)

type Services struct {
	ImportService *service.ImportService
	ReportService *service.ReportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ImportService != nil {
			importHandler := handlers.NewImportHandler(services.ImportService)
			ordersGroup := apiGroup.Group("/orders")
			{
				ordersGroup.POST("/upload", importHandler.Upload)
				ordersGroup.DELETE("", importHandler.ClearOrders)
			}
			apiGroup.GET("/imports", importHandler.ListImports)
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			apiGroup.GET("/orders", reportHandler.ListOrders)

			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/summary", reportHandler.GetSummary)
				analyticsGroup.GET("/pincodes", reportHandler.GetPincodes)
				analyticsGroup.GET("/pincodes/classified", reportHandler.GetClassifiedPincodes)
				analyticsGroup.GET("/products", reportHandler.GetProducts)
				analyticsGroup.GET("/partners", reportHandler.GetPartners)
				analyticsGroup.GET("/trend", reportHandler.GetTrend)
				analyticsGroup.GET("/ndr", reportHandler.GetNDROrders)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
