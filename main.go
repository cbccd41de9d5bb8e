package main

import (
	"context"
	"fmt"

	api "brandpulse-backend/cmd/api"
	"brandpulse-backend/internal/feedback/domain"
	"brandpulse-backend/internal/feedback/repository"
	"brandpulse-backend/internal/feedback/usecase"
	"brandpulse-backend/internal/ingest"
	"brandpulse-backend/pkg/ai"
	"brandpulse-backend/pkg/config"
	"brandpulse-backend/pkg/database"
	"brandpulse-backend/pkg/gnews"
	"brandpulse-backend/pkg/logger"
	"brandpulse-backend/pkg/perplexity"
	"brandpulse-backend/pkg/places"
	"brandpulse-backend/pkg/tavily"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&domain.Review{},
		&domain.Article{},
		&domain.FeedbackItem{},
		&domain.BrandSummary{},
		&domain.SearchInsight{},
	); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	// Initialize repositories (dependency injection)
	feedbackRepo := repository.NewFeedbackRepository(db)
	reviewRepo := repository.NewReviewRepository(db, feedbackRepo, log)
	articleRepo := repository.NewArticleRepository(db, feedbackRepo, log)
	summaryRepo := repository.NewSummaryRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	// Language model. Missing credentials degrade generation instead of
	// blocking startup: summaries report errors and chat answers with its
	// canned shortfall text.
	model, err := ai.NewGenerator(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
	}, log)
	if err != nil {
		log.Warn("language model unavailable", "error", err)
		model = ai.GenerateFunc(func(context.Context, string) (string, error) {
			return "", fmt.Errorf("no language-model credentials configured")
		})
	}

	// Initialize use cases (dependency injection)
	chatUsecase := usecase.NewChatUsecase(feedbackRepo, summaryRepo, insightRepo, reviewRepo, model, log, cfg.ChatMaxWords)
	uploadUsecase := usecase.NewUploadUsecase(reviewRepo, log)
	summaryUsecase := usecase.NewSummaryUsecase(feedbackRepo, summaryRepo, model, log)

	// Ingestion jobs come up only when their credentials exist; the HTTP
	// layer reports unconfigured sources as unavailable.
	var placesJob *ingest.PlacesJob
	if cfg.PlacesAPIKey != "" {
		placesJob, err = ingest.NewPlacesJob(places.NewClient(cfg.PlacesAPIKey), reviewRepo, log)
		if err != nil {
			log.Fatal("places job setup failed", "error", err)
		}
	} else {
		log.Warn("PLACES_API_KEY not set, review ingestion disabled")
	}

	brandQueries := []string{cfg.BrandName, cfg.BrandName + " reviews", cfg.BrandName + " dentist"}

	var newsJob *ingest.NewsJob
	if cfg.GNewsAPIKey != "" {
		newsJob, err = ingest.NewNewsJob(gnews.NewClient(cfg.GNewsAPIKey), articleRepo, brandQueries, log)
		if err != nil {
			log.Fatal("news job setup failed", "error", err)
		}
	} else {
		log.Warn("GNEWS_API_KEY not set, article ingestion disabled")
	}

	var tavilyClient ingest.WebSearcher
	if cfg.TavilyAPIKey != "" {
		tavilyClient = tavily.NewClient(cfg.TavilyAPIKey)
	}
	var perplexityClient ingest.AnswerClient
	if cfg.PerplexityAPIKey != "" {
		perplexityClient = perplexity.NewClient(cfg.PerplexityAPIKey)
	}

	var linkedInJob *ingest.LinkedInJob
	if tavilyClient != nil {
		linkedInJob, err = ingest.NewLinkedInJob(tavilyClient, articleRepo, brandQueries, log)
		if err != nil {
			log.Fatal("linkedin job setup failed", "error", err)
		}
	} else {
		log.Warn("TAVILY_API_KEY not set, linkedin ingestion disabled")
	}

	var insightJob *ingest.InsightJob
	if tavilyClient != nil || perplexityClient != nil {
		insightQuery := fmt.Sprintf("What are people saying about %s online recently? Reviews, news and social mentions.", cfg.BrandName)
		insightJob, err = ingest.NewInsightJob(tavilyClient, perplexityClient, insightRepo, insightQuery, "brand", log)
		if err != nil {
			log.Fatal("insight job setup failed", "error", err)
		}
	} else {
		log.Warn("no search provider keys set, web insights disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, chatUsecase, uploadUsecase, summaryUsecase, reviewRepo, placesJob, newsJob, linkedInJob, insightJob)

	// Start server
	log.Info("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}
