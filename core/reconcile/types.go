package reconcile

import "sort"

// ID is an opaque account identifier. Only equality matters.
type ID string

// Set is an unordered collection of unique identifiers.
type Set map[ID]struct{}

// NewSet builds a set from the given identifiers. Duplicates collapse.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// SetOf converts raw string identifiers as returned by API clients.
func SetOf(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[ID(id)] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id ID) {
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s Set) Remove(id ID) {
	delete(s, id)
}

// Has reports whether id is in the set.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers.
func (s Set) Len() int {
	return len(s)
}

// Difference returns the identifiers of s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns the identifiers present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same identifiers.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the identifiers in ascending order for deterministic output.
func (s Set) Sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// sortIDs puts digit-only identifiers first in numeric order, then every
// other identifier lexically. Account ids are decimal strings.
func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool {
		return lessID(ids[i], ids[j])
	})
}

func lessID(a, b ID) bool {
	da, db := isDigits(a), isDigits(b)
	if da != db {
		return da
	}
	if da && len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(id ID) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// Delta is the add/remove difference between a list and its desired membership.
// It is computed once per run and never mutated afterwards.
type Delta struct {
	// ToAdd holds identifiers present in the desired set but missing from the list.
	ToAdd []ID `json:"to_add"`

	// ToRemove holds identifiers present in the list but absent from the desired set.
	ToRemove []ID `json:"to_remove"`
}

// IsEmpty reports whether the delta requires no change.
func (d Delta) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Size returns the total number of membership changes.
func (d Delta) Size() int {
	return len(d.ToAdd) + len(d.ToRemove)
}

// Operation names a membership mutation.
type Operation string

const (
	// OpAdd adds an account to the list.
	OpAdd Operation = "add"
	// OpRemove removes an account from the list.
	OpRemove Operation = "remove"
)

// Failure records a membership change that could not be applied.
type Failure struct {
	ID  ID        `json:"id"`
	Op  Operation `json:"op"`
	Err error     `json:"-"`
}

// Message returns the error text, or an empty string.
func (f Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// ApplyResult is the outcome of applying a Delta.
type ApplyResult struct {
	// Added holds identifiers successfully added to the list.
	Added []ID `json:"added"`

	// Removed holds identifiers successfully removed from the list.
	Removed []ID `json:"removed"`

	// Failures holds every change that failed after the mutator gave up.
	Failures []Failure `json:"failures"`
}

// Failed returns the number of failed changes.
func (r ApplyResult) Failed() int {
	return len(r.Failures)
}

// ApplyOptions controls how a Delta is applied.
type ApplyOptions struct {
	// Concurrency is the maximum number of mutations in flight.
	// Values below 1 mean sequential.
	Concurrency int
}
