package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// Auth holds the external identity service connection. JWTSecret is the
	// HS256 secret the identity service signs access tokens with.
	AuthURL   string
	AuthKey   string
	JWTSecret string

	FrontendCallbackURL string
	BaseURL             string

	// ResolveTimeout bounds profile resolution in role-gated requests; a
	// stalled store must degrade to "unauthenticated", not hang the caller.
	ResolveTimeout time.Duration
	// PendingRoleTTL bounds how long a stashed OAuth role survives a redirect
	// that never comes back.
	PendingRoleTTL time.Duration

	Google OAuthConfig

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	resolveTimeout, err := time.ParseDuration(getEnv("IDENTITY_RESOLVE_TIMEOUT", "5s"))
	if err != nil {
		resolveTimeout = 5 * time.Second
	}

	pendingTTL, err := time.ParseDuration(getEnv("PENDING_ROLE_TTL", "10m"))
	if err != nil {
		pendingTTL = 10 * time.Minute
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),

		AuthURL:   getEnvOrPanic("AUTH_URL"),
		AuthKey:   getEnv("AUTH_ANON_KEY", ""),
		JWTSecret: getEnvOrPanic("AUTH_JWT_SECRET"),

		FrontendCallbackURL: getEnv("FRONTEND_CALLBACK_URL", "http://localhost:5173/auth/callback"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),

		ResolveTimeout: resolveTimeout,
		PendingRoleTTL: pendingTTL,

		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			To:       getEnv("CONTACT_INBOX", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
