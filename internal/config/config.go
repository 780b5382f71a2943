package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	History  HistoryConfig
	Usage    UsageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	ContactInbox       string
}

type DatabaseConfig struct {
	Driver        string // "postgres" or "sqlite"
	Connection    string
	MongoURI      string
	MongoDatabase string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider        string // "ollama", "gemini", "openai", "huggingface"
	LLMModel           string
	LLMBaseURL         string
	LLMTimeout         time.Duration
	SchemaVariant      string // "rich" or "minimal"
	SuggestionCacheTTL time.Duration
}

type HistoryConfig struct {
	Backend string // "sql" or "mongo"
	Async   bool
	Topic   string
}

type UsageConfig struct {
	DailyLimit int // 0 disables the limiter
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:9002"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", "default_secret"),
			ContactInbox:       getEnv("CONTACT_INBOX", ""),
		},
		Database: DatabaseConfig{
			Driver:        getEnv("DB_DRIVER", "postgres"),
			Connection:    getEnv("DB_CONNECTION_STRING", ""),
			MongoURI:      getEnv("MONGO_URI", ""),
			MongoDatabase: getEnv("MONGO_DATABASE", "intituas"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Intituas AI"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.0-flash"),
			LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
			LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			SchemaVariant:      getEnv("AI_SCHEMA_VARIANT", "rich"),
			SuggestionCacheTTL: getEnvAsDuration("SUGGESTION_CACHE_TTL", 5*time.Minute),
		},
		History: HistoryConfig{
			Backend: getEnv("HISTORY_BACKEND", "sql"),
			Async:   getEnvAsBool("HISTORY_ASYNC", false),
			Topic:   getEnv("HISTORY_TOPIC", "RECORD_SEARCH_HISTORY"),
		},
		Usage: UsageConfig{
			DailyLimit: getEnvAsInt("AI_DAILY_LIMIT", 0),
		},
	}
}

// APIKeyFor returns the credential matching the configured LLM provider.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "gemini":
		return c.Keys.GoogleGemini
	case "openai":
		return c.Keys.OpenAI
	case "huggingface":
		return c.Keys.HuggingFace
	default:
		return ""
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
