package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"courier/internal/domain"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "courier.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultInvoiceCacheTTL = "24h"
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultAutoMigrate     = "true"

	defaultCompanyName    = "Express Parcel Solutions Pvt Ltd"
	defaultCompanyAddress = "No. 45, Brigade Road, MG Road"
	defaultCompanyCity    = "Bangalore, Karnataka 560001"
	defaultCompanyPhone   = "Phone: +91 80 4567 8900"
	defaultCompanyEmail   = "billing@expressparcel.in"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	AutoMigrate     bool
	JWTSecret       string
	JWTTTL          time.Duration
	RedisURL        string
	InvoiceCacheTTL time.Duration
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	Issuer          domain.Issuer
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.AutoMigrate = parseBoolEnv("AUTO_MIGRATE", defaultAutoMigrate)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.InvoiceCacheTTL, err = parseDurationEnv("INVOICE_CACHE_TTL", defaultInvoiceCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.Issuer = domain.Issuer{
		Name:    getEnv("COMPANY_NAME", defaultCompanyName),
		Address: getEnv("COMPANY_ADDRESS", defaultCompanyAddress),
		City:    getEnv("COMPANY_CITY", defaultCompanyCity),
		Phone:   getEnv("COMPANY_PHONE", defaultCompanyPhone),
		Email:   getEnv("COMPANY_EMAIL", defaultCompanyEmail),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.InvoiceCacheTTL <= 0 {
		return fmt.Errorf("INVOICE_CACHE_TTL must be > 0")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: text, json")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
