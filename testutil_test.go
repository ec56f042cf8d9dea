package xclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-xclient/store"
)

type fakeCall struct {
	Op        string
	Variables map[string]any
	Headers   map[string]string
	// Ctx is the context the transport received.
	Ctx context.Context
}

type fakeResponse struct {
	Status  int
	Body    string
	Headers map[string]string
	Err     error
}

// fakeTransport answers GraphQL requests from per-operation handlers.
type fakeTransport struct {
	mu       sync.Mutex
	calls    []fakeCall
	handlers map[string]func(vars map[string]any) fakeResponse
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func(map[string]any) fakeResponse)}
}

func (f *fakeTransport) handle(op string, fn func(vars map[string]any) fakeResponse) {
	f.mu.Lock()
	f.handlers[op] = fn
	f.mu.Unlock()
}

// reply registers a fixed 200 response with data[field] = value.
func (f *fakeTransport) reply(op, field string, value any) {
	body := gqlData(field, value)
	f.handle(op, func(map[string]any) fakeResponse { return fakeResponse{Status: 200, Body: body} })
}

func (f *fakeTransport) Do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) ([]byte, map[string]string, int, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, 0, err
	}
	var req graphqlRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, 0, fmt.Errorf("fake: bad request body: %w", err)
	}

	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{Op: req.OperationName, Variables: req.Variables, Headers: headers, Ctx: ctx})
	h := f.handlers[req.OperationName]
	f.mu.Unlock()

	if h == nil {
		return []byte(`{"errors":[{"message":"no handler"}]}`), nil, 500, nil
	}
	resp := h(req.Variables)
	if resp.Err != nil {
		return nil, nil, 0, resp.Err
	}
	return []byte(resp.Body), resp.Headers, resp.Status, nil
}

func (f *fakeTransport) callsTo(op string) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func gqlData(field string, value any) string {
	b, err := json.Marshal(map[string]any{"data": map[string]any{field: value}})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func gqlErrors(msgs ...map[string]any) string {
	b, _ := json.Marshal(map[string]any{"data": nil, "errors": msgs})
	return string(b)
}

// recordNotifier captures toasts.
type recordNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func (n *recordNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

type testEnv struct {
	client    *Client
	transport *fakeTransport
	notifier  *recordNotifier
	store     store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ft := newFakeTransport()
	rn := &recordNotifier{}
	c, err := NewClient(ClientConfig{
		Endpoint:  "http://backend.test/graphql",
		Store:     store.Config{Backend: store.BackendMemory},
		Transport: ft,
		Notifier:  rn,
	})
	require.NoError(t, err)
	return &testEnv{client: c, transport: ft, notifier: rn, store: c.Store()}
}

// withToken persists a session token before the session is loaded.
func (e *testEnv) withToken(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, e.store.Set(context.Background(), store.TokenKey, token))
}

func userJSON(id, first, last string, following ...string) map[string]any {
	refs := make([]any, 0, len(following))
	for _, f := range following {
		if f == "" {
			refs = append(refs, nil)
			continue
		}
		refs = append(refs, map[string]any{"id": f, "firstName": "F" + f, "lastName": "L" + f})
	}
	return map[string]any{
		"id":              id,
		"firstName":       first,
		"lastName":        last,
		"email":           id + "@example.com",
		"profileImageURL": nil,
		"followers":       []any{},
		"following":       refs,
		"tweets":          []any{},
	}
}
