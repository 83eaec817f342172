package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Retry policy names accepted by RetryConfig.Policy.
const (
	PolicyNone        = "none"
	PolicySimple      = "simple"
	PolicyExponential = "exponential"
)

// Config represents the overall client configuration structure.
// It includes sections for HTTP transport settings, retry behavior,
// response caching, and logging preferences. The embedded koanf.Koanf
// instance allows for flexible access to additional custom keys not
// explicitly defined in the struct.
type Config struct {
	HTTP  HTTPConfig  `koanf:"http" json:"http" yaml:"http" toml:"http" mapstructure:"http"`
	Retry RetryConfig `koanf:"retry" json:"retry" yaml:"retry" toml:"retry" mapstructure:"retry"`
	Cache CacheConfig `koanf:"cache" json:"cache" yaml:"cache" toml:"cache" mapstructure:"cache"`
	Log   LogConfig   `koanf:"log" json:"log" yaml:"log" toml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for flexible access to custom keys
	k *koanf.Koanf `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// HTTPConfig holds transport-level settings.
type HTTPConfig struct {
	// BaseURL is prepended to relative request paths. Empty means requests
	// must carry absolute URLs.
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" toml:"baseurl" mapstructure:"baseurl" validate:"omitempty,url"`

	// Timeout bounds each dispatch attempt, body read included.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout" validate:"min=0"`

	// Headers are sent with every request unless overridden per request.
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers" toml:"headers" mapstructure:"headers"`

	// Auth supplies basic authentication credentials for every request.
	Auth AuthConfig `koanf:"auth" json:"auth" yaml:"auth" toml:"auth" mapstructure:"auth"`

	// Rate throttles outgoing attempts when RPS is positive.
	Rate RateConfig `koanf:"rate" json:"rate" yaml:"rate" toml:"rate" mapstructure:"rate"`

	// Coalesce makes concurrent identical GETs share one dispatch.
	Coalesce bool `koanf:"coalesce" json:"coalesce" yaml:"coalesce" toml:"coalesce" mapstructure:"coalesce"`

	// LogPayloads enables debug logging of request and response bodies.
	LogPayloads bool `koanf:"logpayloads" json:"logpayloads" yaml:"logpayloads" toml:"logpayloads" mapstructure:"logpayloads"`

	// MaxPayloadLogBytes caps logged payload size when LogPayloads is on.
	MaxPayloadLogBytes int `koanf:"maxpayloadbytes" json:"maxpayloadbytes" yaml:"maxpayloadbytes" toml:"maxpayloadbytes" mapstructure:"maxpayloadbytes" validate:"min=0"`
}

// AuthConfig holds basic authentication credentials.
type AuthConfig struct {
	Username string `koanf:"username" json:"username" yaml:"username" toml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" toml:"password" mapstructure:"password"`
}

// RateConfig holds rate limiting settings.
type RateConfig struct {
	RPS   float64 `koanf:"rps" json:"rps" yaml:"rps" toml:"rps" mapstructure:"rps" validate:"min=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" toml:"burst" mapstructure:"burst" validate:"min=0"`
}

// RetryConfig holds retry policy settings. Fields beyond Policy only apply
// to the policies that use them.
type RetryConfig struct {
	// Policy selects the retry strategy: none, simple, or exponential.
	Policy string `koanf:"policy" json:"policy" yaml:"policy" toml:"policy" mapstructure:"policy" validate:"oneof=none simple exponential"`

	// MaxRetries caps retries after the first attempt.
	MaxRetries int `koanf:"maxretries" json:"maxretries" yaml:"maxretries" toml:"maxretries" mapstructure:"maxretries" validate:"min=0"`

	// InitialDelay seeds the exponential backoff schedule.
	InitialDelay time.Duration `koanf:"initialdelay" json:"initialdelay" yaml:"initialdelay" toml:"initialdelay" mapstructure:"initialdelay" validate:"min=0"`

	// MaxDelay caps the exponential backoff schedule.
	MaxDelay time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" toml:"maxdelay" mapstructure:"maxdelay" validate:"min=0"`

	// Multiplier grows the delay between exponential attempts.
	Multiplier float64 `koanf:"multiplier" json:"multiplier" yaml:"multiplier" toml:"multiplier" mapstructure:"multiplier" validate:"omitempty,gte=1"`

	// RetryDelay is the constant wait used by the simple policy.
	RetryDelay time.Duration `koanf:"retrydelay" json:"retrydelay" yaml:"retrydelay" toml:"retrydelay" mapstructure:"retrydelay" validate:"min=0"`

	// RetryableStatuses overrides the exponential policy's retryable HTTP
	// status set. Empty keeps the built-in set.
	RetryableStatuses []int `koanf:"retryablestatuses" json:"retryablestatuses" yaml:"retryablestatuses" toml:"retryablestatuses" mapstructure:"retryablestatuses" validate:"dive,http_status"`
}

// CacheConfig holds response caching settings.
type CacheConfig struct {
	// Enabled turns on the in-memory response cache.
	Enabled bool `koanf:"enabled" json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`

	// TTL is the lifetime of cached entries.
	TTL time.Duration `koanf:"ttl" json:"ttl" yaml:"ttl" toml:"ttl" mapstructure:"ttl" validate:"min=0"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" toml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" toml:"pretty" mapstructure:"pretty"`
}
