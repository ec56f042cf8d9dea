package xclient

import "context"

// Profile is the data behind a profile page.
type Profile struct {
	User *User
	// Following is true when the session user follows User.
	Following bool
	// Self is true when User is the session user.
	Self bool
}

// PostCount is the number of tweets shown in the profile header.
func (p *Profile) PostCount() int {
	if p == nil || p.User == nil {
		return 0
	}
	return len(p.User.Tweets)
}

// LoadProfile fetches the user behind id and relates it to the session
// user. A missing id or unknown user yields ErrNotFound.
func LoadProfile(ctx context.Context, s *Session, id string) (*Profile, error) {
	u, err := s.client.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	me := s.CurrentUser()
	return &Profile{
		User:      u,
		Following: IsFollowing(me, u.ID),
		Self:      me != nil && me.ID == u.ID,
	}, nil
}
