package xclient

import "strings"

// User is a profile as returned by the backend.
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	ProfileImageURL string
	Followers       []*UserRef // entries may be nil
	Following       []*UserRef // entries may be nil
	Tweets          []*Tweet
}

// DisplayName returns "First Last", falling back to the ID.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.ID
	}
	return name
}

// UserRef is a follower/following entry.
type UserRef struct {
	ID        string
	FirstName string
	LastName  string
}

// Tweet is a single post in the feed.
type Tweet struct {
	ID       string
	Content  string
	ImageURL string
	Author   *User
}
