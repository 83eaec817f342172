// Package pulsenet assembles a configured HTTP client from layered
// configuration sources. It maps the config schema onto the httpclient
// builder so applications can stand up a fully wired client in one call.
package pulsenet

import (
	"errors"
	"fmt"

	"github.com/cbarbera80/pulsenet/config"
	"github.com/cbarbera80/pulsenet/httpclient"
	"github.com/cbarbera80/pulsenet/logger"
	"github.com/cbarbera80/pulsenet/retry"
)

// New loads configuration from defaults, pulsenet.yaml, and PULSENET_
// environment variables, builds a logger from the log section, and returns
// a client wired from the result.
func New() (httpclient.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	return NewWithConfig(cfg, log)
}

// NewWithConfig builds a client from an already loaded configuration. A nil
// logger keeps the client silent.
func NewWithConfig(cfg *config.Config, log logger.Logger) (httpclient.Client, error) {
	b, err := Builder(cfg, log)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Builder returns a client builder preconfigured from cfg, leaving room for
// programmatic additions (metrics collectors, interceptors) before Build.
func Builder(cfg *config.Config, log logger.Logger) (*httpclient.Builder, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	b := httpclient.NewBuilder(log).
		WithBaseURL(cfg.HTTP.BaseURL).
		WithRetryPolicy(policyFromConfig(&cfg.Retry))

	if cfg.HTTP.Timeout > 0 {
		b = b.WithTimeout(cfg.HTTP.Timeout)
	}
	for key, value := range cfg.HTTP.Headers {
		b = b.WithDefaultHeader(key, value)
	}
	if cfg.HTTP.Auth.Username != "" {
		b = b.WithBasicAuth(cfg.HTTP.Auth.Username, cfg.HTTP.Auth.Password)
	}
	if cfg.HTTP.Rate.RPS > 0 {
		burst := cfg.HTTP.Rate.Burst
		if burst <= 0 {
			burst = 1
		}
		b = b.WithRateLimit(cfg.HTTP.Rate.RPS, burst)
	}
	if cfg.HTTP.Coalesce {
		b = b.WithRequestCoalescing()
	}
	if cfg.HTTP.LogPayloads {
		b = b.WithPayloadLogging(cfg.HTTP.MaxPayloadLogBytes)
	}
	if cfg.Cache.Enabled {
		b = b.WithMemoryCache(cfg.Cache.TTL)
	}

	return b, nil
}

// policyFromConfig maps the retry section onto a concrete policy.
func policyFromConfig(cfg *config.RetryConfig) retry.Policy {
	switch cfg.Policy {
	case config.PolicySimple:
		return &retry.Simple{
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}
	case config.PolicyExponential:
		return &retry.ExponentialBackoff{
			MaxRetries:        cfg.MaxRetries,
			InitialDelay:      cfg.InitialDelay,
			MaxDelay:          cfg.MaxDelay,
			Multiplier:        cfg.Multiplier,
			RetryableStatuses: statusSet(cfg.RetryableStatuses),
		}
	default:
		return retry.None{}
	}
}

func statusSet(statuses []int) map[int]bool {
	if len(statuses) == 0 {
		return nil
	}
	set := make(map[int]bool, len(statuses))
	for _, status := range statuses {
		set[status] = true
	}
	return set
}
