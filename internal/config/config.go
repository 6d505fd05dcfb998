package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"

	"ProductCatalog/pkg/kit"
)

const minJWTSecretLen = 32

var ErrWeakJWTSecret = errors.New("JWT_SECRET must be at least 32 chars")

type Config struct {
	Service         string        `env:"SERVICE_NAME" envDefault:"catalog"`
	Port            string        `env:"PORT" envDefault:"8082"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Store   StoreConfig
	Auth    AuthConfig
	Metrics MetricsConfig
}

type StoreConfig struct {
	Capacity int `env:"STORE_CAPACITY" envDefault:"0"`
}

type AuthConfig struct {
	JWTSecret        string `env:"JWT_SECRET"`
	WriteLimitPerMin int    `env:"WRITE_LIMIT_PER_MIN" envDefault:"30"`

	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	proxies        []netip.Prefix
}

func (a AuthConfig) Proxies() []netip.Prefix {
	return a.proxies
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Token   string `env:"METRICS_TOKEN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if s := cfg.Auth.JWTSecret; s != "" && len(s) < minJWTSecretLen {
		return nil, ErrWeakJWTSecret
	}

	proxies, err := kit.ParsePrefixes(cfg.Auth.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse TRUSTED_PROXIES: %w", err)
	}
	cfg.Auth.proxies = proxies
	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
