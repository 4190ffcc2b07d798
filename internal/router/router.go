package router

import (
	"github.com/gin-gonic/gin"

	"medscan/internal/config"
	"medscan/internal/handler"
	"medscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	recordH *handler.RecordHandler,
	analysisH *handler.AnalysisHandler,
	prescriptionH *handler.PrescriptionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Health record routes
	records := v1.Group("/records")
	records.POST("", recordH.Create)
	records.GET("", recordH.List)
	records.GET("/:id", recordH.GetByID)
	records.POST("/:id/analyses", analysisH.AnalyzeRecord)
	records.GET("/:id/analyses", analysisH.ListByRecord)

	// Report analysis routes
	analyses := v1.Group("/analyses")
	analyses.POST("", analysisH.Analyze)
	analyses.GET("/:id", analysisH.GetByID)
	analyses.GET("/:id/export", analysisH.ExportCSV)

	// Prescription analysis routes
	prescriptions := v1.Group("/prescriptions")
	prescriptions.POST("/analyze", prescriptionH.Analyze)

	return r
}
