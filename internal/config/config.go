package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Logging
	LogLevel  string
	LogFormat string

	// Gemini
	GeminiAPIKey string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// DeepSeek
	DeepSeekAPIKey string
	DeepSeekAPIURL string

	// OpenRouter
	OpenRouterAPIKey  string
	OpenRouterAPIURL  string
	OpenRouterReferer string
	OpenRouterTitle   string

	// Chat
	MockLatency         time.Duration
	UpstreamTimeout     time.Duration
	EnforceModelCatalog bool
	ChatRateLimit       int

	// Honor X-Forwarded-For / X-Real-IP. Only enable behind a proxy that sets them.
	TrustProxyHeaders bool
}

const (
	DefaultDeepSeekAPIURL   = "https://api.deepseek.com/chat/completions"
	DefaultOpenRouterAPIURL = "https://openrouter.ai/api/v1/chat/completions"
)

// Load reads the process environment (and .env, if present) once. Provider
// keys are optional: a missing key only disables that provider's real calls.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "6091"),
		Env:         getEnvOrDefault("ENV", "development"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "*"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),

		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", ""),

		DeepSeekAPIKey: strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		DeepSeekAPIURL: getEnvOrDefault("DEEPSEEK_API_URL", DefaultDeepSeekAPIURL),

		OpenRouterAPIKey:  strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterAPIURL:  getEnvOrDefault("OPENROUTER_API_URL", DefaultOpenRouterAPIURL),
		OpenRouterReferer: getEnvOrDefault("OPENROUTER_REFERER", "http://localhost:6091"),
		OpenRouterTitle:   getEnvOrDefault("OPENROUTER_TITLE", "Sitechat"),

		MockLatency:         time.Duration(getEnvAsIntOrDefault("MOCK_LATENCY_MS", 500)) * time.Millisecond,
		UpstreamTimeout:     time.Duration(getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 0)) * time.Second,
		EnforceModelCatalog: getEnvAsBoolOrDefault("ENFORCE_MODEL_CATALOG", false),
		ChatRateLimit:       getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MINUTE", 0),

		TrustProxyHeaders: getEnvAsBoolOrDefault("TRUST_PROXY_HEADERS", false),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
