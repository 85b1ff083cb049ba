package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Env     string `yaml:"env"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TimeoutSec   int    `yaml:"timeout_sec"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	// Dispatcher selects how approval events reach the fan-out engine:
	// "inline" runs fan-out in the request goroutine, "kafka" publishes
	// the event for the email worker.
	Dispatcher struct {
		Mode    string   `yaml:"mode"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"dispatcher"`

	Social struct {
		XAPIKey             string `yaml:"x_api_key"`
		FacebookPageID      string `yaml:"facebook_page_id"`
		FacebookAccessToken string `yaml:"facebook_access_token"`
		TimeoutSec          int    `yaml:"timeout_sec"`
	} `yaml:"social"`

	Tracking struct {
		PixelRateLimit     int `yaml:"pixel_rate_limit"`     // per IP per token per minute
		MarkReadRateLimit  int `yaml:"mark_read_rate_limit"` // per IP per minute
		PixelCacheSeconds  int `yaml:"pixel_cache_seconds"`
		NegativeCacheHours int `yaml:"negative_cache_hours"`
	} `yaml:"tracking"`

	Retention struct {
		NotificationDays int `yaml:"notification_days"`
		IntervalHours    int `yaml:"interval_hours"`
	} `yaml:"retention"`

	FirstEditorEmail    string `yaml:"first_editor_email"`
	FirstEditorPassword string `yaml:"first_editor_password"`
}

var AppConfig *Config

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_URL is set (the test mode used by CI).
func LoadConfig() {
	var cfg Config

	// .env is optional; real environments provide env vars directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.BaseURL = os.Getenv("BASE_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "news@newsroom.test"
	cfg.Email.FromName = "Newsroom"

	cfg.Dispatcher.Mode = "inline"

	cfg.FirstEditorEmail = os.Getenv("FIRST_EDITOR_EMAIL")
	cfg.FirstEditorPassword = os.Getenv("FIRST_EDITOR_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://127.0.0.1:8000"
	}
	if cfg.Email.TimeoutSec <= 0 {
		cfg.Email.TimeoutSec = 5
	}
	if cfg.Social.TimeoutSec <= 0 {
		cfg.Social.TimeoutSec = 5
	}
	if cfg.Dispatcher.Mode == "" {
		cfg.Dispatcher.Mode = "inline"
	}
	if cfg.Dispatcher.Topic == "" {
		cfg.Dispatcher.Topic = "article.approved"
	}
	if cfg.Tracking.PixelRateLimit <= 0 {
		cfg.Tracking.PixelRateLimit = 10
	}
	if cfg.Tracking.MarkReadRateLimit <= 0 {
		cfg.Tracking.MarkReadRateLimit = 20
	}
	if cfg.Tracking.PixelCacheSeconds <= 0 {
		cfg.Tracking.PixelCacheSeconds = 86400
	}
	if cfg.Tracking.NegativeCacheHours <= 0 {
		cfg.Tracking.NegativeCacheHours = 1
	}
	if cfg.Retention.NotificationDays <= 0 {
		cfg.Retention.NotificationDays = 90
	}
	if cfg.Retention.IntervalHours <= 0 {
		cfg.Retention.IntervalHours = 24
	}
}
