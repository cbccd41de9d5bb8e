package api

import (
	"brandpulse-backend/internal/feedback/delivery"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/internal/feedback/usecase"
	"brandpulse-backend/internal/ingest"
	"brandpulse-backend/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	chatHandler        *delivery.ChatHandler
	uploadHandler      *delivery.UploadHandler
	summaryHandler     *delivery.SummaryHandler
	ingestHandler      *delivery.IngestHandler
	maintenanceHandler *delivery.MaintenanceHandler
	config             *config.Config
}

func NewHandler(
	cfg *config.Config,
	chatUsecase *usecase.ChatUsecase,
	uploadUsecase *usecase.UploadUsecase,
	summaryUsecase *usecase.SummaryUsecase,
	reviewRepo repository.ReviewRepository,
	placesJob *ingest.PlacesJob,
	newsJob *ingest.NewsJob,
	linkedInJob *ingest.LinkedInJob,
	insightJob *ingest.InsightJob,
) *Handler {
	return &Handler{
		chatHandler:        delivery.NewChatHandler(chatUsecase),
		uploadHandler:      delivery.NewUploadHandler(uploadUsecase),
		summaryHandler:     delivery.NewSummaryHandler(summaryUsecase, cfg.SummaryBudget),
		ingestHandler:      delivery.NewIngestHandler(placesJob, newsJob, linkedInJob, insightJob),
		maintenanceHandler: delivery.NewMaintenanceHandler(reviewRepo),
		config:             cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS with OPTIONS preflight for the browser dashboard
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	SetupRoutes(r, h.chatHandler, h.uploadHandler, h.summaryHandler, h.ingestHandler, h.maintenanceHandler)

	return r.Run(addr)
}
