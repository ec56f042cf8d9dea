package xclient

import (
	"context"
	"fmt"
	"io"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Transport sends one HTTP request and returns the raw response.
type Transport interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error)
}

// stealthTransport adapts a stealth.BrowserClient to Transport.
type stealthTransport struct {
	bc *stealth.BrowserClient
}

// newStealthTransport builds the default transport with an optional proxy
// and browser profile.
func newStealthTransport(proxy string, profile stealth.BrowserProfile) (*stealthTransport, error) {
	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(headerOrder),
		stealth.WithProfile(profile.TLSProfile),
	}
	if proxy != "" {
		opts = append(opts, stealth.WithProxy(proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &stealthTransport{bc: bc}, nil
}

// Do runs the request. The underlying client is not context-aware, so
// cancellation is honoured before sending and while waiting for the reply.
func (t *stealthTransport) Do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}
	type result struct {
		body    []byte
		headers map[string]string
		status  int
		err     error
	}
	done := make(chan result, 1)
	go func() {
		b, h, s, err := t.bc.DoWithHeaderOrder(method, url, headers, body, headerOrder)
		done <- result{b, h, s, err}
	}()
	select {
	case r := <-done:
		return r.body, r.headers, r.status, r.err
	case <-ctx.Done():
		return nil, nil, 0, ctx.Err()
	}
}
