package listsync

import (
	"fmt"
	"time"
)

// Config holds the accounts and lists to keep in sync.
type Config struct {
	// Account is the handle whose follow graph drives the lists.
	// Empty means the authenticated user.
	Account string `mapstructure:"account" default:""`
	// FollowingListID is the list mirrored from the follow set. Empty disables it.
	FollowingListID string `mapstructure:"following_list_id" default:""`
	// FollowingListName is the display name of the following list.
	FollowingListName string `mapstructure:"following_list_name" default:"Feed (Auto)"`
	// MutualsListID is the list mirrored from follows that follow back. Empty disables it.
	MutualsListID string `mapstructure:"mutuals_list_id" default:""`
	// MutualsListName is the display name of the mutuals list.
	MutualsListName string `mapstructure:"mutuals_list_name" default:"Mutuals (Auto)"`
	// Concurrency is the number of membership changes in flight.
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// DryRun computes and logs the changes without applying them.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// Timeout bounds a whole run. Zero disables the deadline.
	Timeout time.Duration `mapstructure:"timeout" default:"1h"`
}

// Source selects which set of accounts a list should contain.
type Source string

const (
	// SourceFollowing mirrors every followed account.
	SourceFollowing Source = "following"
	// SourceMutuals mirrors followed accounts that follow back.
	SourceMutuals Source = "mutuals"
)

// Target is one list to reconcile.
type Target struct {
	// Name identifies the target in logs and reports.
	Name string
	// ListID is the list to update.
	ListID string
	// ListName is the display name of the list.
	ListName string
	// Source is the desired membership.
	Source Source
}

// Targets returns the configured lists in a fixed order.
func (c Config) Targets() []Target {
	var targets []Target
	if c.FollowingListID != "" {
		targets = append(targets, Target{
			Name:     string(SourceFollowing),
			ListID:   c.FollowingListID,
			ListName: c.FollowingListName,
			Source:   SourceFollowing,
		})
	}
	if c.MutualsListID != "" {
		targets = append(targets, Target{
			Name:     string(SourceMutuals),
			ListID:   c.MutualsListID,
			ListName: c.MutualsListName,
			Source:   SourceMutuals,
		})
	}
	return targets
}

// Select filters targets by name. "all" or an empty name keeps every target.
func Select(targets []Target, name string) ([]Target, error) {
	if name == "" || name == "all" {
		return targets, nil
	}
	for _, t := range targets {
		if t.Name == name {
			return []Target{t}, nil
		}
	}
	return nil, fmt.Errorf("target %q is not configured", name)
}
