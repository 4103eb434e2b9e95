// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sellerops/profitkpi/internal/api/handlers"
	"github.com/sellerops/profitkpi/internal/api/middleware"
	"github.com/sellerops/profitkpi/internal/service"
)

type Services struct {
	ProfitService *service.ProfitService
	KPIService    *service.KPIService
	LabelService  *service.LabelService
	ExportService *service.ExportService
}

func NewRouter(services *Services, uploadDir string, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
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
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ProfitService != nil {
			reportHandler := handlers.NewReportHandler(services.ProfitService, services.ExportService, uploadDir)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.POST("/profit", reportHandler.Aggregate)
				reportGroup.POST("/profit/export", reportHandler.ExportSummary)
				reportGroup.GET("/archive", reportHandler.ListArchive)
				reportGroup.GET("/archive/:name", reportHandler.DownloadArchive)
			}
		}

		if services.KPIService != nil {
			kpiHandler := handlers.NewKPIHandler(services.KPIService, services.ExportService, uploadDir)
			kpiGroup := apiGroup.Group("/kpi")
			{
				kpiGroup.POST("/report", kpiHandler.Report)
				kpiGroup.POST("/report/export", kpiHandler.ExportReport)
				kpiGroup.POST("/targets", kpiHandler.UploadTargets)
			}
		}

		if services.LabelService != nil {
			labelHandler := handlers.NewLabelHandler(services.LabelService, uploadDir)
			labelGroup := apiGroup.Group("/labels")
			{
				labelGroup.POST("/buying", labelHandler.BuyingLabel)
				labelGroup.POST("/scan", labelHandler.ScanLabel)
				labelGroup.POST("/tracking", labelHandler.Tracking)
				labelGroup.POST("/service-staff", labelHandler.ServiceStaff)
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
