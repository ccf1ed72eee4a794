package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	Env      string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"APP_PORT"`
	Debug    bool   `mapstructure:"DEBUG"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Bearer key for /api/admin; admin routes refuse every request while it is empty.
	APIKey string `mapstructure:"API_KEY"`

	// Pricing
	TaxRate          float64 `mapstructure:"TAX_RATE"`
	ShippingFlatRate float64 `mapstructure:"SHIPPING_FLAT_RATE"`
	PromoPolicy      string  `mapstructure:"PROMO_POLICY"`

	// Simulated backend latency multiplier; 0 disables delays.
	FakeLatencyScale float64 `mapstructure:"FAKE_LATENCY_SCALE"`

	SessionMaxIdle       time.Duration `mapstructure:"SESSION_MAX_IDLE"`
	SessionPruneSchedule string        `mapstructure:"CRON_SESSION_PRUNE"`
	// Empty disables the scheduled reindex.
	CatalogReindexSchedule string `mapstructure:"CRON_CATALOG_REINDEX"`
}

var defaults = map[string]interface{}{
	"APP_NAME":             "grocery.GO",
	"APP_ENV":              "production",
	"APP_PORT":             "8080",
	"DEBUG":                "false",
	"LOG_LEVEL":            "info",
	"DB_DRIVER":            "sqlite",
	"DB_DSN":               "file::memory:?cache=shared",
	"TAX_RATE":             "0.10",
	"SHIPPING_FLAT_RATE":   "0",
	"PROMO_POLICY":         "recompute",
	"FAKE_LATENCY_SCALE":   "1",
	"SESSION_MAX_IDLE":     "2h",
	"CRON_SESSION_PRUNE":   "@every 10m",
	"CRON_CATALOG_REINDEX": "",
}

// LoadAppConfig initializes the global AppConfig variable from the process environment.
func LoadAppConfig() {
	once.Do(func() {
		cfg, err := FromEnv(environ())
		if err != nil {
			panic("config: " + err.Error())
		}
		AppConfig = cfg
	})
}

// Default returns the configuration with no environment overrides.
func Default() *Config {
	cfg, err := FromEnv(nil)
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}

// FromEnv decodes a key/value environment over the defaults. Unknown keys are ignored.
func FromEnv(env map[string]string) (*Config, error) {
	input := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		input[k] = v
	}
	for k, v := range env {
		if _, known := defaults[k]; known || isOptionalKey(k) {
			input[k] = v
		}
	}

	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PromoPolicy {
	case "recompute", "stale":
	default:
		return fmt.Errorf("PROMO_POLICY must be recompute or stale, got %q", c.PromoPolicy)
	}
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", c.DBDriver)
	}
	if c.TaxRate < 0 || c.ShippingFlatRate < 0 || c.FakeLatencyScale < 0 {
		return fmt.Errorf("TAX_RATE, SHIPPING_FLAT_RATE and FAKE_LATENCY_SCALE must not be negative")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func isOptionalKey(k string) bool {
	switch k {
	case "REDIS_ADDR", "REDIS_PASSWORD", "ELASTICSEARCH_URL", "API_KEY":
		return true
	}
	return false
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
