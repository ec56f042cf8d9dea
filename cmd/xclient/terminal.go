package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	xclient "github.com/anatolykoptev/go-xclient"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tweetStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// terminal renders toasts and records on a terminal. It implements
// xclient.Notifier.
type terminal struct {
	mu sync.Mutex
	w  io.Writer
	in *bufio.Reader
}

func newTerminal(w io.Writer, r io.Reader) *terminal {
	return &terminal{w: w, in: bufio.NewReader(r)}
}

func (t *terminal) Success(msg string) { t.Println(successStyle.Render("✓ ") + msg) }
func (t *terminal) Error(msg string)   { t.Println(errorStyle.Render("✗ ") + msg) }

func (t *terminal) Println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, s)
}

func (t *terminal) name(s string) string { return nameStyle.Render(s) }
func (t *terminal) dim(s string) string  { return dimStyle.Render(s) }

// confirm asks a y/N question. Anything but y or yes is a no.
func (t *terminal) confirm(question string) bool {
	t.mu.Lock()
	fmt.Fprintf(t.w, "%s [y/N] ", question)
	t.mu.Unlock()
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *terminal) printUser(u *xclient.User) {
	t.Println(t.name(u.DisplayName()) + " " + t.dim("@"+u.ID))
	if u.Email != "" {
		t.Println(t.dim(u.Email))
	}
	t.Println(fmt.Sprintf("%d following · %d followers", countRefs(u.Following), countRefs(u.Followers)))
}

func (t *terminal) printTweet(tw *xclient.Tweet) {
	author := "unknown"
	if tw.Author != nil {
		author = tw.Author.DisplayName()
	}
	t.Println(t.name(author) + " " + t.dim(tw.ID))
	t.Println(tweetStyle.Render(tw.Content))
	if tw.ImageURL != "" {
		t.Println(tweetStyle.Render(t.dim("[image] " + tw.ImageURL)))
	}
}

// msgFeedFailed is shown when the feed cannot be loaded; the feed itself
// renders empty.
const msgFeedFailed = "Could not load tweets"

func (t *terminal) printFeed(tweets []*xclient.Tweet) {
	if len(tweets) == 0 {
		t.Println(t.dim("no tweets yet"))
		return
	}
	for _, tw := range tweets {
		t.printTweet(tw)
	}
}

func (t *terminal) printProfile(p *xclient.Profile) {
	t.printUser(p.User)
	switch {
	case p.Self:
		t.Println(t.dim("this is you"))
	case p.Following:
		t.Println(t.dim("following"))
	}
	t.Println(fmt.Sprintf("%d posts", p.PostCount()))
	for _, tw := range p.User.Tweets {
		t.printTweet(tw)
	}
}

func countRefs(refs []*xclient.UserRef) int {
	n := 0
	for _, r := range refs {
		if r != nil {
			n++
		}
	}
	return n
}
