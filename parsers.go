package xclient

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// --- Wire types ---

type userRefResult struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authorResult struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageURL"`
}

type tweetResult struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	ImageURL string        `json:"imageURL"`
	Author   *authorResult `json:"author"`
}

type userResult struct {
	ID              string           `json:"id"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Email           string           `json:"email"`
	ProfileImageURL string           `json:"profileImageURL"`
	Followers       []*userRefResult `json:"followers"`
	Following       []*userRefResult `json:"following"`
	Tweets          []*tweetResult   `json:"tweets"`
}

// --- Conversion helpers ---

func parseUserResult(r *userResult) *User {
	if r == nil || r.ID == "" {
		return nil
	}
	u := &User{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		ProfileImageURL: r.ProfileImageURL,
		Followers:       parseUserRefs(r.Followers),
		Following:       parseUserRefs(r.Following),
	}
	u.Tweets = parseTweetList(r.Tweets)
	for _, t := range u.Tweets {
		if t.Author == nil {
			t.Author = u
		}
	}
	return u
}

// parseUserRefs keeps nil entries in place; readers skip them.
func parseUserRefs(rs []*userRefResult) []*UserRef {
	if rs == nil {
		return nil
	}
	out := make([]*UserRef, len(rs))
	for i, r := range rs {
		if r == nil {
			continue
		}
		out[i] = &UserRef{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName}
	}
	return out
}

// parseTweetList drops null and id-less tweets, preserving backend order.
func parseTweetList(rs []*tweetResult) []*Tweet {
	tweets := make([]*Tweet, 0, len(rs))
	for _, r := range rs {
		t := parseTweetResult(r)
		if t == nil {
			continue
		}
		tweets = append(tweets, t)
	}
	return tweets
}

func parseTweetResult(r *tweetResult) *Tweet {
	if r == nil {
		return nil
	}
	if r.ID == "" {
		slog.Debug("skip tweet without id")
		return nil
	}
	t := &Tweet{
		ID:       r.ID,
		Content:  strings.TrimSpace(r.Content),
		ImageURL: r.ImageURL,
	}
	if r.Author != nil && r.Author.ID != "" {
		t.Author = &User{
			ID:              r.Author.ID,
			FirstName:       r.Author.FirstName,
			LastName:        r.Author.LastName,
			ProfileImageURL: r.Author.ProfileImageURL,
		}
	}
	return t
}

// --- Operation parsers ---

// parseCurrentUser parses GetCurrentUser data. A null user yields nil.
func parseCurrentUser(data json.RawMessage) (*User, error) {
	var r userResult
	ok, err := decodeField("GetCurrentUser", data, "getCurrentUser", &r)
	if err != nil || !ok {
		return nil, err
	}
	return parseUserResult(&r), nil
}

// parseUserByID parses GetUserById data. A null user is ErrNotFound.
func parseUserByID(data json.RawMessage) (*User, error) {
	var r userResult
	ok, err := decodeField("GetUserById", data, "getUserById", &r)
	if err != nil {
		return nil, err
	}
	u := parseUserResult(&r)
	if !ok || u == nil {
		return nil, withOp(ErrNotFound, "GetUserById")
	}
	return u, nil
}

// parseAllTweets parses GetAllTweets data.
func parseAllTweets(data json.RawMessage) ([]*Tweet, error) {
	var rs []*tweetResult
	if _, err := decodeField("GetAllTweets", data, "getAllTweets", &rs); err != nil {
		return nil, err
	}
	return parseTweetList(rs), nil
}

// parseVerifyToken extracts the session token.
func parseVerifyToken(data json.RawMessage) (string, error) {
	var token string
	ok, err := decodeField("VerifyGoogleToken", data, "verifyGoogleToken", &token)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", &Error{Kind: KindNetwork, Op: "VerifyGoogleToken", Message: "empty session token in response"}
	}
	return token, nil
}

// parseCreateTweet extracts the created tweet ID.
func parseCreateTweet(data json.RawMessage) (string, error) {
	var r struct {
		ID string `json:"id"`
	}
	if _, err := decodeField("CreateTweet", data, "createTweet", &r); err != nil {
		return "", err
	}
	return r.ID, nil
}
