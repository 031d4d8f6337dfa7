package config

import "time"

// Config is the root configuration for the BrainUs client, proxy server, and
// batch tooling. Values load from defaults first, then environment variables
// with the BRAINUS_ prefix (e.g. BRAINUS_API_KEY, BRAINUS_SERVER_PORT).
type Config struct {
	API       APIConfig       `koanf:"api"       validate:"required"`
	Retry     RetryConfig     `koanf:"retry"     validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Batch     BatchConfig     `koanf:"batch"`
	Runtime   RuntimeConfig   `koanf:"runtime"`
}

// APIConfig configures the outbound BrainUs API client.
type APIConfig struct {
	Key     SensitiveString `koanf:"key"      sensitive:"true"`
	BaseURL string          `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration   `koanf:"timeout"  validate:"gte=0"`
	// RequestsPerSecond caps the outbound call rate; zero disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int     `koanf:"burst"               validate:"gte=0"`
}

// RetryConfig holds the default retry policy applied by callers that do not
// supply their own.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts" validate:"gte=1"`
	BaseDelay       time.Duration `koanf:"base_delay"   validate:"gte=0"`
	Multiplier      float64       `koanf:"multiplier"   validate:"gte=1"`
	MaxDelay        time.Duration `koanf:"max_delay"    validate:"gte=0"`
	Jitter          bool          `koanf:"jitter"`
	RetryOnAPIError bool          `koanf:"retry_on_api_error"`
}

// ServerConfig configures the HTTP proxy server.
type ServerConfig struct {
	Host        string `koanf:"host" validate:"required"`
	Port        int    `koanf:"port" validate:"gte=1,lte=65535"`
	CORSEnabled bool   `koanf:"cors_enabled"`
}

// CacheConfig configures the proxy answer cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Size    int           `koanf:"size" validate:"gte=0"`
	TTL     time.Duration `koanf:"ttl"  validate:"gte=0"`
}

// RateLimitConfig configures the proxy-side rate limit middleware.
type RateLimitConfig struct {
	Limit    int64         `koanf:"limit"  validate:"gte=0"`
	Period   time.Duration `koanf:"period" validate:"gte=0"`
	Disabled bool          `koanf:"disabled"`
}

// BatchConfig configures the CSV batch driver.
type BatchConfig struct {
	Size        int     `koanf:"size"        validate:"gte=1"`
	Concurrency int     `koanf:"concurrency" validate:"gte=1"`
	QueryColumn string  `koanf:"query_column" validate:"required"`
	PacePerSec  float64 `koanf:"pace_per_sec" validate:"gte=0"`
}

// RuntimeConfig holds process-level settings.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON   bool   `koanf:"log_json"`
	LogSource bool   `koanf:"log_source"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://api.brainus.ai",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 0,
			Burst:             1,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   500 * time.Millisecond,
			Multiplier:  2.0,
			MaxDelay:    30 * time.Second,
			Jitter:      true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSEnabled: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1024,
			TTL:     time.Hour,
		},
		RateLimit: RateLimitConfig{
			Limit:  100,
			Period: time.Minute,
		},
		Batch: BatchConfig{
			Size:        10,
			Concurrency: 4,
			QueryColumn: "query",
			PacePerSec:  2,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}
