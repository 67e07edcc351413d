package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Storage    StorageConfig
	Cleanup    CleanupConfig
	Admin      AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the time zone in which a "working day" is evaluated.
type AttendanceConfig struct {
	Timezone string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
	OSS      OSSConfig
}

type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
}

// CleanupConfig schedules the unused attachment sweep. An empty schedule disables it.
type CleanupConfig struct {
	Schedule string
	Timeout  time.Duration
	// MinAge protects fresh uploads that no check-out references yet.
	MinAge time.Duration
}

// AdminConfig seeds an administrator account at boot when Email is set.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_tracker"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	config.Attendance = AttendanceConfig{
		Timezone: getEnv("ATTENDANCE_TIMEZONE", "Local"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		OSS: OSSConfig{
			Endpoint:        getEnv("ALI_OSS_ENDPOINT", ""),
			AccessKeyID:     getEnv("ALI_OSS_ACCESS_KEY", ""),
			AccessKeySecret: getEnv("ALI_OSS_SECRET_KEY", ""),
			Bucket:          getEnv("ALI_OSS_BUCKET", ""),
			PublicBaseURL:   getEnv("ALI_OSS_PUBLIC_BASE", ""),
		},
	}

	cleanupTimeout, err := time.ParseDuration(getEnv("STORAGE_CLEANUP_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_CLEANUP_TIMEOUT: %w", err)
	}
	cleanupMinAge, err := time.ParseDuration(getEnv("STORAGE_CLEANUP_MIN_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORAGE_CLEANUP_MIN_AGE: %w", err)
	}
	config.Cleanup = CleanupConfig{
		Schedule: getEnv("STORAGE_CLEANUP_SCHEDULE", ""),
		Timeout:  cleanupTimeout,
		MinAge:   cleanupMinAge,
	}

	config.Admin = AdminConfig{
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("ATTENDANCE_TIMEZONE is invalid: %w", err)
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for local storage")
		}
	case "oss":
		if c.Storage.OSS.Endpoint == "" || c.Storage.OSS.AccessKeyID == "" ||
			c.Storage.OSS.AccessKeySecret == "" || c.Storage.OSS.Bucket == "" {
			return fmt.Errorf("ALI_OSS_ENDPOINT, ALI_OSS_ACCESS_KEY, ALI_OSS_SECRET_KEY and ALI_OSS_BUCKET are required for oss storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	if c.Cleanup.MinAge < 0 {
		return fmt.Errorf("STORAGE_CLEANUP_MIN_AGE must not be negative")
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
	}
	return nil
}

// Location returns the attendance time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
