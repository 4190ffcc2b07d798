package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	AI       AIConfig
	Search   SearchConfig
	Medicine MedicineConfig
	Log      LogConfig
	CORS     CORSConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for document and report archival.
// An empty bucket disables archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// AIConfig holds settings for the AI completion provider.
type AIConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	VisionModel string `mapstructure:"vision_model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// SearchConfig holds settings for the external medicine search service.
type SearchConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Endpoint    string  `mapstructure:"endpoint"`
	RateLimit   float64 `mapstructure:"rate_limit"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// MedicineConfig holds concurrency settings for medicine lookups.
type MedicineConfig struct {
	MaxWorkers        int `mapstructure:"max_workers"`
	LookupTimeoutSecs int `mapstructure:"lookup_timeout_secs"`
	WaitTimeoutSecs   int `mapstructure:"wait_timeout_secs"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds report delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the MEDSCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "medscan")
	v.SetDefault("db.password", "medscan_secret")
	v.SetDefault("db.name", "medscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// AI defaults
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-2.5-pro")
	v.SetDefault("ai.vision_model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout_secs", 120)

	// Search defaults
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.endpoint", "https://api.firecrawl.dev")
	v.SetDefault("search.rate_limit", 2.0)
	v.SetDefault("search.timeout_secs", 10)

	// Medicine lookup defaults
	v.SetDefault("medicine.max_workers", 5)
	v.SetDefault("medicine.lookup_timeout_secs", 10)
	v.SetDefault("medicine.wait_timeout_secs", 30)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@medscan.local")
	v.SetDefault("email.from_name", "MedScan")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "MEDSCAN_SERVER_PORT",
		"server.read_timeout":          "MEDSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "MEDSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "MEDSCAN_SERVER_ENVIRONMENT",
		"db.host":                      "MEDSCAN_DB_HOST",
		"db.port":                      "MEDSCAN_DB_PORT",
		"db.user":                      "MEDSCAN_DB_USER",
		"db.password":                  "MEDSCAN_DB_PASSWORD",
		"db.name":                      "MEDSCAN_DB_NAME",
		"db.sslmode":                   "MEDSCAN_DB_SSLMODE",
		"db.max_open":                  "MEDSCAN_DB_MAX_OPEN",
		"db.max_idle":                  "MEDSCAN_DB_MAX_IDLE",
		"s3.region":                    "MEDSCAN_S3_REGION",
		"s3.bucket":                    "MEDSCAN_S3_BUCKET",
		"s3.endpoint":                  "MEDSCAN_S3_ENDPOINT",
		"s3.access_key":                "MEDSCAN_S3_ACCESS_KEY",
		"s3.secret_key":                "MEDSCAN_S3_SECRET_KEY",
		"s3.max_file_size_mb":          "MEDSCAN_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":            "MEDSCAN_S3_PRESIGN_EXPIRY",
		"ai.api_key":                   "MEDSCAN_AI_API_KEY",
		"ai.model":                     "MEDSCAN_AI_MODEL",
		"ai.vision_model":              "MEDSCAN_AI_VISION_MODEL",
		"ai.timeout_secs":              "MEDSCAN_AI_TIMEOUT_SECS",
		"search.api_key":               "MEDSCAN_SEARCH_API_KEY",
		"search.endpoint":              "MEDSCAN_SEARCH_ENDPOINT",
		"search.rate_limit":            "MEDSCAN_SEARCH_RATE_LIMIT",
		"search.timeout_secs":          "MEDSCAN_SEARCH_TIMEOUT_SECS",
		"medicine.max_workers":         "MEDSCAN_MEDICINE_MAX_WORKERS",
		"medicine.lookup_timeout_secs": "MEDSCAN_MEDICINE_LOOKUP_TIMEOUT_SECS",
		"medicine.wait_timeout_secs":   "MEDSCAN_MEDICINE_WAIT_TIMEOUT_SECS",
		"log.level":                    "MEDSCAN_LOG_LEVEL",
		"log.format":                   "MEDSCAN_LOG_FORMAT",
		"cors.allowed_origins":         "MEDSCAN_CORS_ALLOWED_ORIGINS",
		"email.provider":               "MEDSCAN_EMAIL_PROVIDER",
		"email.region":                 "MEDSCAN_EMAIL_REGION",
		"email.from_address":           "MEDSCAN_EMAIL_FROM_ADDRESS",
		"email.from_name":              "MEDSCAN_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if MEDSCAN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MEDSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.AI = AIConfig{
		APIKey:      v.GetString("ai.api_key"),
		Model:       v.GetString("ai.model"),
		VisionModel: v.GetString("ai.vision_model"),
		TimeoutSecs: v.GetInt("ai.timeout_secs"),
	}
	cfg.Search = SearchConfig{
		APIKey:      v.GetString("search.api_key"),
		Endpoint:    v.GetString("search.endpoint"),
		RateLimit:   v.GetFloat64("search.rate_limit"),
		TimeoutSecs: v.GetInt("search.timeout_secs"),
	}
	cfg.Medicine = MedicineConfig{
		MaxWorkers:        v.GetInt("medicine.max_workers"),
		LookupTimeoutSecs: v.GetInt("medicine.lookup_timeout_secs"),
		WaitTimeoutSecs:   v.GetInt("medicine.wait_timeout_secs"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}
