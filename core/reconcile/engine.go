package reconcile

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Mutator applies single membership changes to one list.
// Implementations own any retry behaviour; Apply never retries.
type Mutator interface {
	// AddMember adds the account to the list.
	AddMember(ctx context.Context, id ID) error

	// RemoveMember removes the account from the list.
	RemoveMember(ctx context.Context, id ID) error
}

// Reconcile computes the changes that make listMembership equal to desired.
// ToAdd is desired minus listMembership, ToRemove is listMembership minus desired.
// Both slices are sorted and non-nil.
func Reconcile(listMembership, desired Set) Delta {
	return Delta{
		ToAdd:    desired.Difference(listMembership).Sorted(),
		ToRemove: listMembership.Difference(desired).Sorted(),
	}
}

// Apply issues one mutation per identifier in delta. A failed mutation is
// recorded and the remaining identifiers are still processed. Once ctx is
// done no further calls are made; the skipped identifiers are reported as
// failures carrying the context error.
func Apply(ctx context.Context, m Mutator, delta Delta, opts ApplyOptions) ApplyResult {
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		result = ApplyResult{
			Added:    []ID{},
			Removed:  []ID{},
			Failures: []Failure{},
		}
		g errgroup.Group
	)
	g.SetLimit(limit)

	record := func(op Operation, id ID, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			result.Failures = append(result.Failures, Failure{ID: id, Op: op, Err: err})
		case op == OpAdd:
			result.Added = append(result.Added, id)
		default:
			result.Removed = append(result.Removed, id)
		}
	}

	schedule := func(op Operation, id ID, call func(context.Context, ID) error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(op, id, err)
				return nil
			}
			record(op, id, call(ctx, id))
			return nil
		})
	}

	for _, id := range delta.ToAdd {
		schedule(OpAdd, id, m.AddMember)
	}
	for _, id := range delta.ToRemove {
		schedule(OpRemove, id, m.RemoveMember)
	}

	// Workers never return an error; failures live in result.
	_ = g.Wait()

	sortIDs(result.Added)
	sortIDs(result.Removed)
	sortFailures(result.Failures)

	return result
}

func sortFailures(failures []Failure) {
	sort.SliceStable(failures, func(i, j int) bool {
		if failures[i].ID == failures[j].ID {
			return failures[i].Op < failures[j].Op
		}
		return lessID(failures[i].ID, failures[j].ID)
	})
}
