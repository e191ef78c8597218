package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// developmentSecret signs OTP session tokens when no secret is configured.
	// Only ever used outside production; Load refuses to start otherwise.
	developmentSecret = "development-secret"
)

type Application struct {
	Environment             string
	GracefulShutdownTimeout time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool
}

type OTP struct {
	Length     int
	TTL        time.Duration
	Secret     string
	CookieName string
}

type RateLimitRule struct {
	MaxRequests int
	Window      time.Duration
}

type RateLimit struct {
	Report  RateLimitRule
	Contact RateLimitRule
	OTP     RateLimitRule
}

type Email struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

type Web3Forms struct {
	AccessKey string
	Endpoint  string
	Timeout   time.Duration
}

type AdminAuth struct {
	JWTSecret      string
	ExpirationTime time.Duration
}

type Config struct {
	Application Application
	HTTPServer  HTTPServer
	Database    Database
	Redis       Redis
	Logger      Logger
	Swagger     Swagger
	OTP         OTP
	RateLimit   RateLimit
	Email       Email
	Web3Forms   Web3Forms
	AdminAuth   AdminAuth
}

// IsProduction reports whether the service runs with production gating.
func (c *Config) IsProduction() bool {
	return c.Application.Environment == EnvProduction
}

// Load reads configuration from environment variables with typed defaults.
// It fails when a production deployment is missing security-critical values.
func Load() (*Config, error) {
	cfg := &Config{
		Application: Application{
			Environment:             getEnvWithDefault("APP_ENV", EnvDevelopment),
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "fortivault"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "fortivault"),
			Name:     getEnvWithDefault("DATABASE_NAME", "fortivault"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Enabled:  getEnvBoolWithDefault("REDIS_RATE_LIMIT_ENABLED", false),
			Host:     getEnvWithDefault("REDIS_HOST", "redis"),
			Port:     parseIntWithDefault("REDIS_PORT", 6379),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Swagger: Swagger{
			Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
		},
		OTP: OTP{
			Length:     parseIntWithDefault("OTP_LENGTH", 6),
			TTL:        parseDurationWithDefault("OTP_TTL", 10*time.Minute),
			Secret:     os.Getenv("OTP_SESSION_SECRET"),
			CookieName: getEnvWithDefault("OTP_COOKIE_NAME", "fv_otp"),
		},
		RateLimit: RateLimit{
			Report: RateLimitRule{
				MaxRequests: parseIntWithDefault("RATE_LIMIT_REPORT_MAX_REQUESTS", 5),
				Window:      parseDurationWithDefault("RATE_LIMIT_REPORT_WINDOW", time.Hour),
			},
			Contact: RateLimitRule{
				MaxRequests: parseIntWithDefault("RATE_LIMIT_CONTACT_MAX_REQUESTS", 10),
				Window:      parseDurationWithDefault("RATE_LIMIT_CONTACT_WINDOW", time.Hour),
			},
			OTP: RateLimitRule{
				MaxRequests: parseIntWithDefault("RATE_LIMIT_OTP_MAX_REQUESTS", 5),
				Window:      parseDurationWithDefault("RATE_LIMIT_OTP_WINDOW", 10*time.Minute),
			},
		},
		Email: Email{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromAddress:  getEnvWithDefault("RESEND_FROM_EMAIL", "noreply@fortivault.com"),
			FromName:     getEnvWithDefault("RESEND_FROM_NAME", "Fortivault"),
		},
		Web3Forms: Web3Forms{
			AccessKey: os.Getenv("WEB3FORMS_API_KEY"),
			Endpoint:  getEnvWithDefault("WEB3FORMS_ENDPOINT", "https://api.web3forms.com/submit"),
			Timeout:   parseDurationWithDefault("WEB3FORMS_TIMEOUT", 10*time.Second),
		},
		AdminAuth: AdminAuth{
			JWTSecret:      os.Getenv("ADMIN_JWT_SECRET"),
			ExpirationTime: parseDurationWithDefault("ADMIN_JWT_EXPIRATION_TIME", 12*time.Hour),
		},
	}

	if err := cfg.applySecretDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applySecretDefaults fills development-only fallbacks for signing secrets and
// fails closed when production is missing them.
func (c *Config) applySecretDefaults() error {
	if c.IsProduction() {
		if c.OTP.Secret == "" {
			return fmt.Errorf("OTP_SESSION_SECRET must be set in production")
		}
		if c.AdminAuth.JWTSecret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET must be set in production")
		}
		if c.Web3Forms.AccessKey == "" {
			return fmt.Errorf("WEB3FORMS_API_KEY must be set in production")
		}
		return nil
	}

	if c.OTP.Secret == "" {
		c.OTP.Secret = developmentSecret
	}
	if c.AdminAuth.JWTSecret == "" {
		c.AdminAuth.JWTSecret = developmentSecret
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
