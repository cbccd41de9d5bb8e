package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogMode     string
	BrandName   string

	// Language model
	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	// External search / data collaborators. Each is optional; a missing key
	// degrades the matching feature to a placeholder instead of failing.
	PlacesAPIKey     string
	GNewsAPIKey      string
	TavilyAPIKey     string
	PerplexityAPIKey string

	// Batch summary generation
	SummaryBudget time.Duration
	ChatMaxWords  int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	summaryBudget := 50 * time.Second
	if raw := os.Getenv("SUMMARY_BUDGET"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			summaryBudget = parsed
		}
	}

	maxWords := 400
	if raw := os.Getenv("CHAT_MAX_WORDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxWords = parsed
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=brandpulse port=5432 sslmode=disable"),
		LogMode:     getEnv("LOG_MODE", "dev"),
		BrandName:   getEnv("BRAND_NAME", "Smile Dental Clinics"),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		PlacesAPIKey:     getEnv("PLACES_API_KEY", ""),
		GNewsAPIKey:      getEnv("GNEWS_API_KEY", ""),
		TavilyAPIKey:     getEnv("TAVILY_API_KEY", ""),
		PerplexityAPIKey: getEnv("PERPLEXITY_API_KEY", ""),

		SummaryBudget: summaryBudget,
		ChatMaxWords:  maxWords,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
