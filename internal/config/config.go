package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Ai           AIConfig
	Verification VerificationConfig
	Tracing      TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogPath       string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider string // "ollama" or "openai"
	BaseURL     string
	APIKey      string
	LLMModel    string // fallback for every role
	// Per role models
	AnalystModel string
	CriticModel  string
	ArbiterModel string
	VisionModel  string
}

type VerificationConfig struct {
	CacheBackend        string // "redis" or "memory"
	CacheTTL            time.Duration
	CacheScope          string // "submitter" or "global"
	SingleFlight        bool
	ParallelEvaluators  bool
	EvaluatorTimeout    time.Duration
	FairnessMin         float64
	FairnessMax         float64
	FairnessUplift      float64
	FairnessCap         float64
	DeterministicFactor bool
	MaxContentChars     int
	AntiwordPath        string
	// Subject suffix for the in-process completion topic
	CompletionTopic string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	llmModel := getEnv("LLM_MODEL", "llama3.1:8b")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogPath:       getEnv("AUDIT_LOG_PATH", "logs/verification_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:  getEnv("LLM_PROVIDER", "ollama"),
			BaseURL:      getEnv("LLM_BASE_URL", "http://localhost:11434"),
			APIKey:       getEnv("LLM_API_KEY", ""),
			LLMModel:     llmModel,
			AnalystModel: getEnv("ANALYST_MODEL", llmModel),
			CriticModel:  getEnv("CRITIC_MODEL", llmModel),
			ArbiterModel: getEnv("ARBITER_MODEL", llmModel),
			VisionModel:  getEnv("VISION_MODEL", llmModel),
		},
		Verification: VerificationConfig{
			CacheBackend:        strings.ToLower(getEnv("VERIFY_CACHE_BACKEND", "redis")),
			CacheTTL:            getEnvAsDuration("VERIFY_CACHE_TTL", 24*time.Hour),
			CacheScope:          strings.ToLower(getEnv("VERIFY_CACHE_SCOPE", "submitter")),
			SingleFlight:        getEnvAsBool("VERIFY_SINGLE_FLIGHT", true),
			ParallelEvaluators:  getEnvAsBool("VERIFY_PARALLEL_EVALUATORS", true),
			EvaluatorTimeout:    getEnvAsDuration("VERIFY_EVALUATOR_TIMEOUT", 90*time.Second),
			FairnessMin:         getEnvAsFloat("VERIFY_FAIRNESS_MIN", 0.95),
			FairnessMax:         getEnvAsFloat("VERIFY_FAIRNESS_MAX", 1.05),
			FairnessUplift:      getEnvAsFloat("VERIFY_FAIRNESS_UPLIFT", 1.30),
			FairnessCap:         getEnvAsFloat("VERIFY_FAIRNESS_CAP", 100),
			DeterministicFactor: getEnvAsBool("VERIFY_DETERMINISTIC_FAIRNESS", false),
			MaxContentChars:     getEnvAsInt("VERIFY_MAX_CONTENT_CHARS", 60000),
			AntiwordPath:        getEnv("ANTIWORD_PATH", "antiword"),
			CompletionTopic:     getEnv("VERIFY_COMPLETION_TOPIC", "VERIFICATION_COMPLETED"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("24h") or plain seconds ("86400")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
