package xclient

import (
	"context"
	"strings"
)

// GetCurrentUser resolves the user behind the current token. It returns
// (nil, nil) when the backend answers with a null user.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	data, err := c.doGraphQL(ctx, "GetCurrentUser", nil)
	if err != nil {
		return nil, err
	}
	return parseCurrentUser(data)
}

// GetUserByID fetches a profile with followers, following and tweets.
func (c *Client) GetUserByID(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, withOp(ErrNotFound, "GetUserById")
	}
	data, err := c.doGraphQL(ctx, "GetUserById", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return parseUserByID(data)
}

// GetAllTweets fetches the whole feed in backend order.
func (c *Client) GetAllTweets(ctx context.Context) ([]*Tweet, error) {
	data, err := c.doGraphQL(ctx, "GetAllTweets", nil)
	if err != nil {
		return nil, err
	}
	return parseAllTweets(data)
}

// VerifyGoogleToken exchanges an identity-provider credential for a session token.
func (c *Client) VerifyGoogleToken(ctx context.Context, credential string) (string, error) {
	data, err := c.doGraphQL(ctx, "VerifyGoogleToken", map[string]any{"token": credential})
	if err != nil {
		return "", err
	}
	return parseVerifyToken(data)
}

// CreateTweet posts a new tweet and returns its ID (may be empty if the
// backend does not echo it).
func (c *Client) CreateTweet(ctx context.Context, content, imageURL string) (string, error) {
	payload := map[string]any{"content": content}
	if imageURL != "" {
		payload["imageURL"] = imageURL
	}
	data, err := c.doGraphQL(ctx, "CreateTweet", map[string]any{"payload": payload})
	if err != nil {
		return "", err
	}
	return parseCreateTweet(data)
}

// FollowUser adds a following edge from the current user to userID.
func (c *Client) FollowUser(ctx context.Context, userID string) error {
	_, err := c.doGraphQL(ctx, "FollowUser", map[string]any{"to": userID})
	return err
}

// UnfollowUser removes the following edge from the current user to userID.
func (c *Client) UnfollowUser(ctx context.Context, userID string) error {
	_, err := c.doGraphQL(ctx, "UnfollowUser", map[string]any{"to": userID})
	return err
}
