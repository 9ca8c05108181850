package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"

	RendererNative   = "native"
	RendererChromedp = "chromedp"
)

type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	Analysis   AnalysisConfig
	Report     ReportConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	MaxRequestSize int64
}

// CompletionConfig carries the fixed sampling parameters and provider
// credentials. Credentials are not validated here; a missing key only shows
// up when the first completion call is attempted.
type CompletionConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	APIVersion  string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Timeout     time.Duration
	MaxAttempts int
}

type AnalysisConfig struct {
	DefaultMaxResumes int
	MaxResumesLimit   int
	ResumeCharLimit   int
	MaxFileSize       int64
}

type ReportConfig struct {
	Renderer   string
	Filename   string
	ChromePath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found. Using environment and defaults.")
	}

	provider := strings.ToLower(getEnv("COMPLETION_PROVIDER", ProviderGemini))

	completion := CompletionConfig{
		Provider:    provider,
		APIKey:      getEnv("COMPLETION_API_KEY", getEnv("GEMINI_API_KEY", "")),
		BaseURL:     getEnv("COMPLETION_BASE_URL", ""),
		Model:       getEnv("COMPLETION_MODEL", "gemini-2.5-flash"),
		APIVersion:  getEnv("COMPLETION_API_VERSION", ""),
		Temperature: getEnvAsFloat32("COMPLETION_TEMPERATURE", 0.3),
		TopP:        getEnvAsFloat32("COMPLETION_TOP_P", 0.95),
		MaxTokens:   getEnvAsInt("COMPLETION_MAX_TOKENS", 16000),
		Timeout:     getEnvAsDuration("COMPLETION_TIMEOUT", "120s"),
		MaxAttempts: getEnvAsInt("COMPLETION_MAX_ATTEMPTS", 1),
	}

	if provider == ProviderAzure {
		completion.APIKey = getEnv("AZURE_OPENAI_API_KEY", completion.APIKey)
		completion.BaseURL = getEnv("AZURE_OPENAI_API_BASE", completion.BaseURL)
		completion.Model = getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", getEnv("COMPLETION_MODEL", ""))
		completion.APIVersion = getEnv("AZURE_OPENAI_API_VERSION", getEnv("COMPLETION_API_VERSION", "2024-06-01"))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            getEnv("ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			MaxRequestSize: getEnvAsInt64("MAX_REQUEST_SIZE", 104857600),
		},
		Completion: completion,
		Analysis: AnalysisConfig{
			DefaultMaxResumes: getEnvAsInt("MAX_RESUMES", 10),
			MaxResumesLimit:   getEnvAsInt("MAX_RESUMES_LIMIT", 100),
			ResumeCharLimit:   getEnvAsInt("RESUME_CHAR_LIMIT", 3000),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Report: ReportConfig{
			Renderer:   strings.ToLower(getEnv("REPORT_RENDERER", RendererNative)),
			Filename:   getEnv("REPORT_FILENAME", "ranked_resume_summary.pdf"),
			ChromePath: getEnv("CHROME_PATH", ""),
		},
	}

	if cfg.Analysis.MaxResumesLimit < 1 {
		cfg.Analysis.MaxResumesLimit = 1
	}
	if cfg.Analysis.DefaultMaxResumes < 1 || cfg.Analysis.DefaultMaxResumes > cfg.Analysis.MaxResumesLimit {
		cfg.Analysis.DefaultMaxResumes = cfg.Analysis.MaxResumesLimit
	}
	if cfg.Completion.MaxAttempts < 1 {
		cfg.Completion.MaxAttempts = 1
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
