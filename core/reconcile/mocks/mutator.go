package mocks

import (
	"context"

	"list-sync/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Mutator is a mock implementation of reconcile.Mutator
type Mutator struct {
	mock.Mock
}

func (m *Mutator) AddMember(ctx context.Context, id reconcile.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Mutator) RemoveMember(ctx context.Context, id reconcile.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
