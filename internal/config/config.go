package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "WRITECAST"
	defaultHTTPAddress    = "0.0.0.0:8080"
	defaultDatabasePath   = "writecast.db"
	defaultLogLevel       = "info"
	defaultCookieName     = "writecast_session"
	defaultTokenTTL       = 24 * time.Hour
	defaultFarcasterJWKS  = "https://auth.farcaster.xyz/.well-known/jwks.json"
	defaultBaseURL        = "https://writecast.example.com"
	defaultExpirySchedule = "@every 10m"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress     string
	DatabasePath    string
	RedisAddress    string
	LogLevel        string
	SigningSecret   string
	SessionCookie   string
	TokenTTL        time.Duration
	FarcasterDomain string
	FarcasterJWKS   string
	BaseURL         string
	ExpirySchedule  string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("redis.address", "")
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("auth.cookie_name", defaultCookieName)
	configViper.SetDefault("auth.token_ttl_minutes", int(defaultTokenTTL.Minutes()))
	configViper.SetDefault("farcaster.jwks_url", defaultFarcasterJWKS)
	configViper.SetDefault("app.base_url", defaultBaseURL)
	configViper.SetDefault("expiry.schedule", defaultExpirySchedule)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:     configViper.GetString("http.address"),
		DatabasePath:    configViper.GetString("database.path"),
		RedisAddress:    configViper.GetString("redis.address"),
		LogLevel:        configViper.GetString("log.level"),
		SigningSecret:   configViper.GetString("auth.signing_secret"),
		SessionCookie:   configViper.GetString("auth.cookie_name"),
		TokenTTL:        time.Duration(configViper.GetInt("auth.token_ttl_minutes")) * time.Minute,
		FarcasterDomain: configViper.GetString("farcaster.domain"),
		FarcasterJWKS:   configViper.GetString("farcaster.jwks_url"),
		BaseURL:         configViper.GetString("app.base_url"),
		ExpirySchedule:  configViper.GetString("expiry.schedule"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.FarcasterDomain) == "" {
		return fmt.Errorf("farcaster.domain is required")
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}
	return nil
}
