package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const followPageSize = 1000

// User is the subset of account fields the sync needs.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Me returns the account owning the access token. It doubles as the
// authentication check before any data is fetched.
func (c *Client) Me(ctx context.Context) (*User, error) {
	return c.user(ctx, "/2/users/me")
}

// UserByUsername resolves a handle (without @) to an account.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	return c.user(ctx, "/2/users/by/username/"+url.PathEscape(username))
}

func (c *Client) user(ctx context.Context, path string) (*User, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, err
	}
	if !env.hasData() {
		return nil, fmt.Errorf("GET %s: empty response", path)
	}

	var u User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return nil, fmt.Errorf("GET %s: failed to decode user: %w", path, err)
	}
	return &u, nil
}

// FollowingIDs returns the ids of every account userID follows.
func (c *Client) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return c.collectIDs(ctx, "/2/users/"+url.PathEscape(userID)+"/following", followPageSize)
}

// FollowerIDs returns the ids of every account following userID.
func (c *Client) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return c.collectIDs(ctx, "/2/users/"+url.PathEscape(userID)+"/followers", followPageSize)
}
