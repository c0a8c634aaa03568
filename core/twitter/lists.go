package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const listMembersPageSize = 100

// List is a user-curated grouping of accounts.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListMemberIDs returns the ids of every account in the list.
func (c *Client) ListMemberIDs(ctx context.Context, listID string) ([]string, error) {
	return c.collectIDs(ctx, "/2/lists/"+url.PathEscape(listID)+"/members", listMembersPageSize)
}

// AddListMember adds one account to the list.
func (c *Client) AddListMember(ctx context.Context, listID, userID string) error {
	body := map[string]string{"user_id": userID}
	var env envelope
	return c.do(ctx, http.MethodPost, "/2/lists/"+url.PathEscape(listID)+"/members", nil, body, &env)
}

// RemoveListMember removes one account from the list.
func (c *Client) RemoveListMember(ctx context.Context, listID, userID string) error {
	var env envelope
	path := "/2/lists/" + url.PathEscape(listID) + "/members/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, &env)
}

// CreateListInput describes a new list.
type CreateListInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// CreateList creates a list owned by the authenticated user.
func (c *Client) CreateList(ctx context.Context, in CreateListInput) (*List, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/2/lists", nil, in, &env); err != nil {
		return nil, err
	}
	if !env.hasData() {
		return nil, fmt.Errorf("POST /2/lists: empty response")
	}

	var l List
	if err := json.Unmarshal(env.Data, &l); err != nil {
		return nil, fmt.Errorf("POST /2/lists: failed to decode list: %w", err)
	}
	return &l, nil
}
