package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teemow/slotkeeper/internal/coaching"
	"github.com/teemow/slotkeeper/internal/logging"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SLOTKEEPER"

// Transports accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
)

// Configuration keys. They double as flag names and YAML keys.
const (
	KeyTransport        = "transport"
	KeyHTTPAddr         = "http-addr"
	KeyDisableStreaming = "disable-streaming"
	KeyDebug            = "debug"
	KeyLogFormat        = "log-format"
	KeyReadOnly         = "read-only"
	KeySeedFile         = "seed-file"
	KeyCoachingDays     = "coaching-days"
	KeyMetricsEnabled   = "metrics-enabled"
	KeyMetricsAddr      = "metrics-addr"
	KeyRateLimit        = "rate-limit"
	KeyRateLimitBurst   = "rate-limit-burst"
	KeyTrustProxy       = "trust-proxy"
)

// Config is the resolved serve configuration.
type Config struct {
	Transport        string  `mapstructure:"transport"`
	HTTPAddr         string  `mapstructure:"http-addr"`
	DisableStreaming bool    `mapstructure:"disable-streaming"`
	Debug            bool    `mapstructure:"debug"`
	LogFormat        string  `mapstructure:"log-format"`
	ReadOnly         bool    `mapstructure:"read-only"`
	SeedFile         string  `mapstructure:"seed-file"`
	CoachingDays     int     `mapstructure:"coaching-days"`
	MetricsEnabled   bool    `mapstructure:"metrics-enabled"`
	MetricsAddr      string  `mapstructure:"metrics-addr"`
	RateLimit        float64 `mapstructure:"rate-limit"`
	RateLimitBurst   int     `mapstructure:"rate-limit-burst"`
	TrustProxy       bool    `mapstructure:"trust-proxy"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Transport:      TransportStdio,
		HTTPAddr:       ":8080",
		LogFormat:      logging.FormatText,
		CoachingDays:   coaching.DefaultDays,
		MetricsEnabled: true,
		MetricsAddr:    ":9090",
		RateLimitBurst: 20,
	}
}

// Load resolves the configuration. flags may be nil; only flags that were
// set explicitly override the other sources. An empty configFile skips the
// file layer.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyTransport, d.Transport)
	v.SetDefault(KeyHTTPAddr, d.HTTPAddr)
	v.SetDefault(KeyDisableStreaming, d.DisableStreaming)
	v.SetDefault(KeyDebug, d.Debug)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyReadOnly, d.ReadOnly)
	v.SetDefault(KeySeedFile, d.SeedFile)
	v.SetDefault(KeyCoachingDays, d.CoachingDays)
	v.SetDefault(KeyMetricsEnabled, d.MetricsEnabled)
	v.SetDefault(KeyMetricsAddr, d.MetricsAddr)
	v.SetDefault(KeyRateLimit, d.RateLimit)
	v.SetDefault(KeyRateLimitBurst, d.RateLimitBurst)
	v.SetDefault(KeyTrustProxy, d.TrustProxy)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for unsupported values.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP, TransportSSE:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, TransportStdio, TransportStreamableHTTP, TransportSSE)
	}

	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q (supported: %s, %s)", c.LogFormat, logging.FormatText, logging.FormatJSON)
	}

	if c.CoachingDays <= 0 {
		return fmt.Errorf("coaching days must be positive, got %d", c.CoachingDays)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %g", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive when rate limiting is enabled, got %d", c.RateLimitBurst)
	}
	return nil
}

// UsesHTTP reports whether the transport serves over HTTP.
func (c Config) UsesHTTP() bool {
	return c.Transport != TransportStdio
}
