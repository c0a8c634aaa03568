package listsync

import (
	"context"
	"time"

	"list-sync/core/reconcile"
)

// Report summarises one target of one run.
type Report struct {
	RunID       string          `json:"run_id"`
	Target      string          `json:"target"`
	Source      Source          `json:"source"`
	ListID      string          `json:"list_id"`
	ListName    string          `json:"list_name"`
	Account     string          `json:"account"`
	DryRun      bool            `json:"dry_run"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	ListSize    int             `json:"list_size"`
	DesiredSize int             `json:"desired_size"`
	ToAdd       []reconcile.ID  `json:"to_add"`
	ToRemove    []reconcile.ID  `json:"to_remove"`
	Added       []reconcile.ID  `json:"added"`
	Removed     []reconcile.ID  `json:"removed"`
	Failures    []FailureReport `json:"failures"`
}

// FailureReport is a failed membership change in serialisable form.
type FailureReport struct {
	ID    reconcile.ID        `json:"id"`
	Op    reconcile.Operation `json:"op"`
	Error string              `json:"error"`
}

// Failed returns the number of changes that could not be applied.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Sink receives the report of every reconciled target.
// Sink errors are logged by the service and never fail a run.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Record persists or forwards the report.
	Record(ctx context.Context, report *Report) error
}

func failureReports(failures []reconcile.Failure) []FailureReport {
	out := make([]FailureReport, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailureReport{ID: f.ID, Op: f.Op, Error: f.Message()})
	}
	return out
}

func idStrings(ids []reconcile.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
