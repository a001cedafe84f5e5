package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Instagram Instagram
	Inference Inference
	Telegram  Telegram
	Storage   Storage
	Prompt    Prompt
}

// Instagram holds account credentials and run targets.
type Instagram struct {
	Username string `env:"INSTAGRAM_USER"`
	Password string `env:"INSTAGRAM_PASSWORD"`
	// PostURL selects single-post mode; Accounts selects multi-account mode.
	PostURL         string   `env:"INSTAGRAM_POST_URL"`
	Accounts        []string `env:"INSTAGRAM_ACCOUNTS"`
	SessionFile     string   `env:"INSTAGRAM_SESSION_FILE" env-default:"instagram_session.json"`
	CommentPageSize int      `env:"INSTAGRAM_COMMENT_PAGE_SIZE" env-default:"10"`
	ScanLimit       int      `env:"INSTAGRAM_SCAN_LIMIT" env-default:"20"`
	BaseURL         string   `env:"INSTAGRAM_BASE_URL" env-default:"https://i.instagram.com/api/v1"`
	UseMocks        bool     `env:"USE_MOCKS" env-default:"false"`
}

// Inference holds the hosted model credentials.
type Inference struct {
	APIKey       string `env:"GEMINI_API_KEY"`
	KeyFile      string `env:"GEMINI_API_KEY_FILE"`
	AnalyzeImage bool   `env:"INFERENCE_ANALYZE_IMAGE" env-default:"true"`
}

// Telegram enables the remote approval channel when both fields are set.
type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `env:"TELEGRAM_CHAT_ID"`
}

// Storage selects the activity log backend.
type Storage struct {
	DatabaseURL  string `env:"DATABASE_URL"`
	ActivityPath string `env:"ACTIVITY_LOG_PATH" env-default:"data/activity.json"`
}

// Prompt points at the reply prompt template.
type Prompt struct {
	File string `env:"PROMPT_FILE" env-default:"prompt.json"`
}

// MustLoad loads configuration from environment and exits on error.
func MustLoad() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
