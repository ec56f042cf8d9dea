package xclient

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/anatolykoptev/go-xclient/store"
)

// ClientConfig holds all configuration for the client.
type ClientConfig struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string `yaml:"endpoint" validate:"required,url"`

	// Proxy is an optional proxy URL for all requests.
	Proxy string `yaml:"proxy" validate:"omitempty,url"`

	// UserAgent overrides the browser profile user agent.
	UserAgent string `yaml:"userAgent"`

	// Profile selects one of the built-in browser profiles by index.
	Profile int `yaml:"profile" validate:"gte=0"`

	// Timeout bounds a single query when the caller's context has no deadline.
	// Mutations are not bounded.
	Timeout time.Duration `yaml:"timeout"`

	// Store configures where the session token is persisted.
	Store store.Config `yaml:"store"`

	// RateLimit configures per-operation client-side rate limiting.
	RateLimit ratelimit.Config `yaml:"-"`

	// Transport replaces the default stealth transport (used by tests).
	Transport Transport `yaml:"-"`

	// Notifier receives user-visible toasts. Default: LogNotifier.
	Notifier Notifier `yaml:"-"`

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool) `yaml:"-"`
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{}
	}
}

var validate = validator.New()

// Validate checks the config for structural errors.
func (cfg *ClientConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfig returns a config pointing at a local backend.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Endpoint: "http://localhost:8000/graphql",
		Store:    store.Config{Backend: store.BackendFile},
	}
}

// LoadConfig reads a YAML config from path (if non-empty) over the defaults,
// then applies environment overrides.
func LoadConfig(path string) (ClientConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.resolveEnv()
	return cfg, cfg.Validate()
}

func (cfg *ClientConfig) resolveEnv() {
	if v := os.Getenv("XCLIENT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("XCLIENT_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("XCLIENT_STORE"); v != "" {
		cfg.Store.Backend = v
	}
}
