package xclient

import (
	"context"
	"log/slog"
	"sync"
)

// Feed is the home timeline: one unpaginated fetch of every tweet.
type Feed struct {
	client *Client

	mu      sync.RWMutex
	tweets  []*Tweet
	lastErr error
}

// NewFeed returns an empty feed bound to c.
func NewFeed(c *Client) *Feed {
	return &Feed{client: c}
}

// Load fetches the feed and returns it in backend order. On failure the
// feed is empty and the error is kept for Err; it is never retried.
func (f *Feed) Load(ctx context.Context) []*Tweet {
	tweets, err := f.client.GetAllTweets(ctx)
	if err != nil {
		slog.Warn("feed load failed", slog.Any("error", err))
		tweets = nil
	}
	if tweets == nil {
		tweets = []*Tweet{}
	}
	f.mu.Lock()
	f.tweets = tweets
	f.lastErr = err
	f.mu.Unlock()
	return tweets
}

// Refresh reloads the feed.
func (f *Feed) Refresh(ctx context.Context) []*Tweet {
	return f.Load(ctx)
}

// Tweets returns the last loaded feed.
func (f *Feed) Tweets() []*Tweet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tweets
}

// Err returns the error from the last load, if any.
func (f *Feed) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastErr
}
