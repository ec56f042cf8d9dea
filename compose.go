package xclient

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Phase is the lifecycle stage of a submitted command.
type Phase int

const (
	PhaseSubmitted Phase = iota
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitted:
		return "submitted"
	case PhaseSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Command tracks one fire-and-forget mutation.
type Command struct {
	mu      sync.Mutex
	phase   Phase
	err     error
	tweetID string
	done    chan struct{}
}

func newCommand() *Command {
	return &Command{phase: PhaseSubmitted, done: make(chan struct{})}
}

// Phase returns the current phase.
func (c *Command) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Err returns the failure, if the command failed.
func (c *Command) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// TweetID returns the ID echoed by the backend on success.
func (c *Command) TweetID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tweetID
}

// Done is closed once the command leaves PhaseSubmitted.
func (c *Command) Done() <-chan struct{} { return c.done }

// Wait blocks until the command finishes or ctx ends, and returns Err.
func (c *Command) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Command) settle(phase Phase, tweetID string, err error) {
	c.mu.Lock()
	c.phase = phase
	c.tweetID = tweetID
	c.err = err
	c.mu.Unlock()
}

// Composer is the compose box: a draft plus the create-tweet command.
type Composer struct {
	client *Client
	feed   *Feed

	mu       sync.Mutex
	content  string
	imageURL string
	subs     []func(*Command, Phase)
}

// NewComposer returns a composer that refreshes feed after each post.
// feed may be nil.
func NewComposer(c *Client, feed *Feed) *Composer {
	return &Composer{client: c, feed: feed}
}

// SetContent replaces the draft text.
func (cp *Composer) SetContent(s string) {
	cp.mu.Lock()
	cp.content = s
	cp.mu.Unlock()
}

// SetImage attaches an image reference to the draft.
func (cp *Composer) SetImage(url string) {
	cp.mu.Lock()
	cp.imageURL = url
	cp.mu.Unlock()
}

// Content returns the draft text.
func (cp *Composer) Content() string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.content
}

// OnPhase registers fn for every phase transition of every command.
func (cp *Composer) OnPhase(fn func(*Command, Phase)) {
	cp.mu.Lock()
	cp.subs = append(cp.subs, fn)
	cp.mu.Unlock()
}

// finish settles cmd, runs phase subscribers and only then releases
// waiters, so Wait never returns ahead of a subscriber.
func (cp *Composer) finish(cmd *Command, phase Phase, tweetID string, err error) {
	cmd.settle(phase, tweetID, err)
	cp.emit(cmd, phase)
	close(cmd.done)
}

func (cp *Composer) emit(cmd *Command, p Phase) {
	cp.mu.Lock()
	subs := append([]func(*Command, Phase){}, cp.subs...)
	cp.mu.Unlock()
	for _, fn := range subs {
		fn(cmd, p)
	}
}

// Submit validates the draft, clears it immediately and posts it in the
// background. Empty or whitespace-only drafts fail with ErrEmptyContent
// and send nothing. The mutation is attempted once; once issued it is not
// cancelled by ctx.
func (cp *Composer) Submit(ctx context.Context) *Command {
	notify := cp.client.Notifier()
	cmd := newCommand()

	cp.mu.Lock()
	content, imageURL := cp.content, cp.imageURL
	if strings.TrimSpace(content) == "" {
		cp.mu.Unlock()
		err := withOp(ErrEmptyContent, "CreateTweet")
		notify.Error(ErrEmptyContent.Message)
		cp.finish(cmd, PhaseFailed, "", err)
		return cmd
	}
	cp.content, cp.imageURL = "", ""
	cp.mu.Unlock()

	cp.emit(cmd, PhaseSubmitted)

	ctx = context.WithoutCancel(ctx)
	go func() {
		id, err := cp.client.CreateTweet(ctx, content, imageURL)
		if err != nil {
			slog.Warn("create tweet failed", slog.Any("error", err))
			notify.Error(msgPostFailed)
			cp.finish(cmd, PhaseFailed, "", err)
			return
		}
		if cp.feed != nil {
			cp.feed.Refresh(ctx)
		}
		notify.Success(msgTweetPosted)
		cp.finish(cmd, PhaseSucceeded, id, nil)
	}()
	return cmd
}
