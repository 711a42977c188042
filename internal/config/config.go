// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional file, and environment.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDSN is the relational store connection string.
	DBDSN string `koanf:"db_dsn"`

	// AutoMigrate runs schema migration at startup.
	AutoMigrate bool `koanf:"auto_migrate"`

	// RedisAddr, RedisPassword and RedisDB configure the cache
	// backend. The backend is optional; an unreachable backend
	// degrades to cache misses.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds is the default cache entry lifetime.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RateLimitWindowSeconds and RateLimitMax bound requests per
	// identity.
	RateLimitWindowSeconds int   `koanf:"rate_limit_window_seconds"`
	RateLimitMax           int64 `koanf:"rate_limit_max"`

	// Scorer selects the scoring backend: heuristic or openai.
	Scorer string `koanf:"scorer"`

	// OpenAIAPIKey and OpenAIModel configure the remote scorer.
	OpenAIAPIKey string `koanf:"openai_api_key"`
	OpenAIModel  string `koanf:"openai_model"`

	// AMQPURL and NotifyExchange configure notification dispatch.
	// Dispatch is disabled when the URL is empty.
	AMQPURL        string `koanf:"amqp_url"`
	NotifyExchange string `koanf:"notify_exchange"`

	// EmailWebhookSecret enables signature verification on the email
	// provider webhook when set.
	EmailWebhookSecret string `koanf:"email_webhook_secret"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		DBDSN:                  "",
		AutoMigrate:            false,
		RedisAddr:              "localhost:6379",
		RedisDB:                0,
		CacheTTLSeconds:        3600,
		RateLimitWindowSeconds: 60,
		RateLimitMax:           100,
		Scorer:                 "heuristic",
		OpenAIModel:            "",
		NotifyExchange:         "hireflow.notifications",
	}
}
