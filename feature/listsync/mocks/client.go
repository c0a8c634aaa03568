package mocks

import (
	"context"

	"list-sync/core/twitter"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of listsync.Client
type Client struct {
	mock.Mock
}

func (m *Client) Me(ctx context.Context) (*twitter.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.User), args.Error(1)
}

func (m *Client) UserByUsername(ctx context.Context, username string) (*twitter.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.User), args.Error(1)
}

func (m *Client) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *Client) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *Client) ListMemberIDs(ctx context.Context, listID string) ([]string, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *Client) AddListMember(ctx context.Context, listID, userID string) error {
	args := m.Called(ctx, listID, userID)
	return args.Error(0)
}

func (m *Client) RemoveListMember(ctx context.Context, listID, userID string) error {
	args := m.Called(ctx, listID, userID)
	return args.Error(0)
}
