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
	Keys     APIKeys
	Ai       AIConfig
	Upload   UploadConfig
	Push     PushConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	Model             string // e.g. "gemini-2.5-flash"
	KnowledgeBaseName string // display name of the shared file search store
	UseKnowledgeBase  bool   // when false every user defaults to personal mode
	GenerateTimeout   time.Duration
}

type UploadConfig struct {
	PollInterval time.Duration
	MaxWait      time.Duration
	Dir          string
}

// PushConfig points at the transport's push endpoint, used for replies that
// cannot ride the synchronous webhook response (async upload outcomes).
type PushConfig struct {
	Endpoint    string
	AccessToken string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_API_KEY", ""),
		},
		Ai: AIConfig{
			Model:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			KnowledgeBaseName: getEnv("KNOWLEDGE_BASE_STORE_NAME", "chatbot_knowledge_base"),
			UseKnowledgeBase:  getEnvAsBool("USE_KNOWLEDGE_BASE", true),
			GenerateTimeout:   getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
		},
		Upload: UploadConfig{
			PollInterval: getEnvAsDuration("UPLOAD_POLL_INTERVAL", 2*time.Second),
			MaxWait:      getEnvAsDuration("UPLOAD_MAX_WAIT", 60*time.Second),
			Dir:          getEnv("UPLOAD_DIR", "uploads"),
		},
		Push: PushConfig{
			Endpoint:    getEnv("PUSH_ENDPOINT", ""),
			AccessToken: getEnv("PUSH_ACCESS_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
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
