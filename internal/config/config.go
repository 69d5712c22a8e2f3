package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration. Values come from an
// optional YAML file and are overridden by environment variables.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Minio struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		UseSSL    bool   `yaml:"use_ssl"`
		Bucket    string `yaml:"bucket"`
	} `yaml:"minio"`

	JWT struct {
		Secret     string        `yaml:"secret"`
		AccessTTL  time.Duration `yaml:"access_ttl"`
		RefreshTTL time.Duration `yaml:"refresh_ttl"`
		Issuer     string        `yaml:"issuer"`
	} `yaml:"jwt"`

	Webhook struct {
		StripeSecret string `yaml:"stripe_secret"`
	} `yaml:"webhook"`

	SMS struct {
		Provider  string `yaml:"provider"` // "twilio", "africastalking" or empty
		AccountID string `yaml:"account_id"`
		APIKey    string `yaml:"api_key"`
		Sender    string `yaml:"sender"`
	} `yaml:"sms"`

	Copilot struct {
		APIURL string `yaml:"api_url"`
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"copilot"`

	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

// Load reads configuration from configPath (if it exists) and applies
// environment variable overrides on top.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			raw, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	loadFromEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Server.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Minio.Endpoint = "localhost:9000"
	cfg.Minio.AccessKey = "minioadmin"
	cfg.Minio.SecretKey = "minioadmin"
	cfg.Minio.Bucket = "scholaris-documents"
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	cfg.JWT.Issuer = "scholaris-auth"
	cfg.Logging.Level = "info"
}

func loadFromEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setString(&cfg.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Minio.SecretKey, "MINIO_SECRET_KEY")
	setBool(&cfg.Minio.UseSSL, "MINIO_USE_SSL")
	setString(&cfg.Minio.Bucket, "MINIO_BUCKET")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setDuration(&cfg.JWT.AccessTTL, "JWT_ACCESS_TTL")
	setDuration(&cfg.JWT.RefreshTTL, "JWT_REFRESH_TTL")
	setString(&cfg.Webhook.StripeSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.SMS.Provider, "SMS_PROVIDER")
	setString(&cfg.SMS.AccountID, "SMS_ACCOUNT_ID")
	setString(&cfg.SMS.APIKey, "SMS_API_KEY")
	setString(&cfg.SMS.Sender, "SMS_SENDER")
	setString(&cfg.Copilot.APIURL, "COPILOT_API_URL")
	setString(&cfg.Copilot.APIKey, "COPILOT_API_KEY")
	setString(&cfg.Copilot.Model, "COPILOT_MODEL")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setBool(&cfg.Logging.Pretty, "LOG_PRETTY")
}

func validate(cfg *Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
