package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xclient "github.com/anatolykoptev/go-xclient"
	"github.com/anatolykoptev/go-xclient/store"
)

// scriptedTransport answers each operation with a fixed status and body.
type scriptedTransport struct {
	mu      sync.Mutex
	replies map[string]scriptedReply
	ops     []string
}

type scriptedReply struct {
	status int
	body   string
}

func (s *scriptedTransport) Do(_ context.Context, _, _ string, _ map[string]string, body io.Reader) ([]byte, map[string]string, int, error) {
	var req struct {
		OperationName string `json:"operationName"`
	}
	raw, _ := io.ReadAll(body)
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, req.OperationName)
	r, ok := s.replies[req.OperationName]
	if !ok {
		return []byte(`{"errors":[{"message":"no reply"}]}`), nil, 500, nil
	}
	return []byte(r.body), nil, r.status, nil
}

func (s *scriptedTransport) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.ops {
		if o == op {
			n++
		}
	}
	return n
}

const currentUserBody = `{"data":{"getCurrentUser":{"id":"u1","firstName":"Ada","lastName":"L","following":[],"followers":[],"tweets":[]}}}`

// newCLIEnv builds a signed-in env whose prompts read from input.
func newCLIEnv(t *testing.T, input string, replies map[string]scriptedReply) (*env, *scriptedTransport, *bytes.Buffer) {
	t.Helper()
	if replies == nil {
		replies = map[string]scriptedReply{}
	}
	replies["GetCurrentUser"] = scriptedReply{200, currentUserBody}
	tr := &scriptedTransport{replies: replies}

	var out bytes.Buffer
	term := newTerminal(&out, strings.NewReader(input))
	client, err := xclient.NewClient(xclient.ClientConfig{
		Endpoint:  "http://backend.test/graphql",
		Store:     store.Config{Backend: store.BackendMemory},
		Transport: tr,
		Notifier:  term,
	})
	require.NoError(t, err)
	require.NoError(t, client.Store().Set(context.Background(), store.TokenKey, "tok-1"))

	session := xclient.NewSession(client)
	require.NoError(t, session.Load(context.Background()))
	require.NotNil(t, session.CurrentUser())
	return &env{client: client, session: session, out: term}, tr, &out
}

func TestRunLogout_Declined(t *testing.T) {
	e, _, out := newCLIEnv(t, "n\n", nil)

	require.NoError(t, runLogout(context.Background(), e, nil))
	assert.Contains(t, out.String(), "Are you sure you want to log out? [y/N]")
	assert.NotNil(t, e.session.CurrentUser())
	_, ok, _ := e.client.Store().Get(context.Background(), store.TokenKey)
	assert.True(t, ok, "declined logout keeps the token")
}

func TestRunLogout_Confirmed(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		args  []string
	}{
		{"prompt", "y\n", nil},
		{"yes flag", "", []string{"--yes"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, _, out := newCLIEnv(t, tc.input, nil)

			require.NoError(t, runLogout(context.Background(), e, tc.args))
			assert.Nil(t, e.session.CurrentUser())
			_, ok, _ := e.client.Store().Get(context.Background(), store.TokenKey)
			assert.False(t, ok)
			if tc.args != nil {
				assert.NotContains(t, out.String(), "[y/N]")
			}
		})
	}
}

func TestRunFeed_ErrorRendersEmpty(t *testing.T) {
	e, tr, out := newCLIEnv(t, "", map[string]scriptedReply{
		"GetAllTweets": {502, "bad gateway"},
	})

	require.NoError(t, runFeed(context.Background(), e, nil))
	assert.Contains(t, out.String(), msgFeedFailed)
	assert.Contains(t, out.String(), "no tweets yet")
	assert.Equal(t, 1, tr.count("GetAllTweets"), "no retry")
}

func TestRunPost_RefreshesFeed(t *testing.T) {
	e, tr, out := newCLIEnv(t, "", map[string]scriptedReply{
		"CreateTweet":  {200, `{"data":{"createTweet":{"id":"t9"}}}`},
		"GetAllTweets": {200, `{"data":{"getAllTweets":[{"id":"t9","content":"hello world","author":{"id":"u1","firstName":"Ada","lastName":"L"}}]}}`},
	})

	require.NoError(t, runPost(context.Background(), e, []string{"hello", "world"}))
	assert.Equal(t, 1, tr.count("CreateTweet"))
	assert.Equal(t, 1, tr.count("GetAllTweets"), "feed refetched after create")
	assert.Contains(t, out.String(), "Tweet posted")
	assert.Contains(t, out.String(), "hello world")
}
