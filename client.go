package xclient

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"

	"github.com/anatolykoptev/go-xclient/store"
)

// Client talks to the social backend's GraphQL API on behalf of one session.
type Client struct {
	transport   Transport
	store       store.Store
	rateLimiter *ratelimit.Limiter
	userAgent   string
	cfg         ClientConfig

	mu    sync.RWMutex
	token string
}

// NewClient creates a fully-wired client. The session token is not read
// here; see Session.Load.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profile := stealth.BuiltinProfiles[cfg.Profile%len(stealth.BuiltinProfiles)]
	ua := cfg.UserAgent
	if ua == "" {
		ua = profile.UserAgent
	}

	tr := cfg.Transport
	if tr == nil {
		st, err := newStealthTransport(cfg.Proxy, profile)
		if err != nil {
			return nil, err
		}
		tr = st
		if cfg.Proxy != "" {
			slog.Debug("using proxy", slog.String("proxy", stealth.MaskProxy(cfg.Proxy)))
		}
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Client{
		transport:   tr,
		store:       st,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		userAgent:   ua,
		cfg:         cfg,
	}, nil
}

// Store returns the token store backing this client.
func (c *Client) Store() store.Store {
	return c.store
}

// Close releases the token store's connection, if it holds one.
func (c *Client) Close() error {
	if cl, ok := c.store.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Notifier returns the configured toast sink.
func (c *Client) Notifier() Notifier {
	return c.cfg.Notifier
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}
