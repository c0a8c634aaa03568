package listsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"list-sync/core/logger"
	"list-sync/core/reconcile"
	"list-sync/core/twitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAuthentication is returned when the credentials are rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrIncomplete is returned when a run finished with failed membership changes.
	ErrIncomplete = errors.New("some membership changes failed")
	// ErrNoTargets is returned when no list is configured.
	ErrNoTargets = errors.New("no target lists configured")
)

// sinkTimeout bounds the time spent recording one report.
const sinkTimeout = 30 * time.Second

// Client is the subset of the API the service needs.
type Client interface {
	Me(ctx context.Context) (*twitter.User, error)
	UserByUsername(ctx context.Context, username string) (*twitter.User, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	ListMemberIDs(ctx context.Context, listID string) ([]string, error)
	AddListMember(ctx context.Context, listID, userID string) error
	RemoveListMember(ctx context.Context, listID, userID string) error
}

// Options tunes a Service.
type Options struct {
	// Concurrency is the number of membership changes in flight.
	Concurrency int
	// DryRun skips applying the computed changes.
	DryRun bool
}

// Service reconciles lists against the follow graph of an account.
type Service struct {
	client   Client
	logger   *zap.Logger
	opts     Options
	sinks    []Sink
	newRunID func() string
	now      func() time.Time
}

// NewService creates a new sync service. Every sink receives each target report.
func NewService(client Client, logger *zap.Logger, opts Options, sinks ...Sink) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		logger:   logger,
		opts:     opts,
		sinks:    sinks,
		newRunID: uuid.NewString,
		now:      time.Now,
	}
}

// Authenticate verifies the credentials and returns the authenticated user.
func (s *Service) Authenticate(ctx context.Context) (*twitter.User, error) {
	me, err := s.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return me, nil
}

// SyncAll reconciles every target once.
// Fetch and authentication failures abort the run. Failed membership changes
// do not: every target is processed and ErrIncomplete is returned at the end.
func (s *Service) SyncAll(ctx context.Context, account string, targets []Target) ([]*Report, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	for _, t := range targets {
		if t.ListID == "" {
			return nil, fmt.Errorf("target %s has no list id", t.Name)
		}
	}

	runID := s.newRunID()
	log := logger.WithRunID(s.logger, runID)
	log.Info("Starting update",
		zap.Int("targets", len(targets)),
		zap.Bool("dry_run", s.opts.DryRun),
	)

	me, err := s.Authenticate(ctx)
	if err != nil {
		log.Error("Failed to authenticate", zap.Error(err))
		return nil, err
	}

	user := me
	if account != "" && !strings.EqualFold(account, me.Username) {
		user, err = s.client.UserByUsername(ctx, account)
		if err != nil {
			log.Error("Failed to resolve account", zap.String("account", account), zap.Error(err))
			return nil, fmt.Errorf("failed to resolve account %s: %w", account, err)
		}
	}
	log = log.With(zap.String("account", user.Username), zap.String("user_id", user.ID))

	r := &run{service: s, id: runID, log: log, user: user}
	reports := make([]*Report, 0, len(targets))
	failed := 0

	for _, target := range targets {
		report, err := r.sync(ctx, target)
		if err != nil {
			log.Error("Update aborted", zap.String("target", target.Name), zap.Error(err))
			return reports, err
		}
		reports = append(reports, report)
		failed += report.Failed()
	}

	log.Info("Finished update", zap.Int("failed", failed))
	if failed > 0 {
		return reports, fmt.Errorf("%w: %d change(s) failed", ErrIncomplete, failed)
	}
	return reports, nil
}

// run holds per-run state. The follow graph is fetched at most once per run.
type run struct {
	service   *Service
	id        string
	log       *zap.Logger
	user      *twitter.User
	following reconcile.Set
	followers reconcile.Set
}

func (r *run) sync(ctx context.Context, target Target) (*Report, error) {
	s := r.service
	started := s.now()
	log := r.log.With(zap.String("target", target.Name), zap.String("list_id", target.ListID))

	var (
		desired reconcile.Set
		members []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		desired, err = r.desired(gctx, target.Source)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.client.ListMemberIDs(gctx, target.ListID)
		if err != nil {
			return fmt.Errorf("failed to fetch members of list %s: %w", target.ListID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	current := reconcile.SetOf(members)
	log.Info("Fetched list members",
		zap.Int("count", current.Len()),
		zap.Strings("current_list_ids", idStrings(current.Sorted())),
	)

	delta := reconcile.Reconcile(current, desired)
	log.Info("New accounts found, to add", zap.Strings("to_add", idStrings(delta.ToAdd)))
	log.Info("Old accounts found, to remove", zap.Strings("to_remove", idStrings(delta.ToRemove)))

	result := reconcile.ApplyResult{Added: []reconcile.ID{}, Removed: []reconcile.ID{}}
	switch {
	case delta.IsEmpty():
		log.Info("List already in sync")
	case s.opts.DryRun:
		log.Info("Dry run, skipping changes", zap.Int("changes", delta.Size()))
	default:
		result = reconcile.Apply(ctx, &listMutator{client: s.client, listID: target.ListID}, delta, reconcile.ApplyOptions{
			Concurrency: s.opts.Concurrency,
		})
	}

	for _, f := range result.Failures {
		log.Error("Failed to update membership",
			zap.String("id", string(f.ID)),
			zap.String("op", string(f.Op)),
			zap.Error(f.Err),
		)
	}

	report := &Report{
		RunID:       r.id,
		Target:      target.Name,
		Source:      target.Source,
		ListID:      target.ListID,
		ListName:    target.ListName,
		Account:     r.user.Username,
		DryRun:      s.opts.DryRun,
		StartedAt:   started,
		FinishedAt:  s.now(),
		ListSize:    current.Len(),
		DesiredSize: desired.Len(),
		ToAdd:       delta.ToAdd,
		ToRemove:    delta.ToRemove,
		Added:       result.Added,
		Removed:     result.Removed,
		Failures:    failureReports(result.Failures),
	}

	log.Info("Target reconciled",
		zap.Int("added", len(report.Added)),
		zap.Int("removed", len(report.Removed)),
		zap.Int("failed", report.Failed()),
	)

	r.record(ctx, log, report)
	return report, nil
}

// desired resolves the membership a target should end up with.
func (r *run) desired(ctx context.Context, source Source) (reconcile.Set, error) {
	following, err := r.followingSet(ctx)
	if err != nil {
		return nil, err
	}

	switch source {
	case SourceFollowing:
		return following, nil
	case SourceMutuals:
		followers, err := r.followerSet(ctx)
		if err != nil {
			return nil, err
		}
		return following.Intersect(followers), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func (r *run) followingSet(ctx context.Context) (reconcile.Set, error) {
	if r.following != nil {
		return r.following, nil
	}
	ids, err := r.service.client.FollowingIDs(ctx, r.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts followed by %s: %w", r.user.Username, err)
	}
	r.following = reconcile.SetOf(ids)
	r.log.Info("Fetched follow set", zap.Int("count", r.following.Len()))
	return r.following, nil
}

func (r *run) followerSet(ctx context.Context) (reconcile.Set, error) {
	if r.followers != nil {
		return r.followers, nil
	}
	ids, err := r.service.client.FollowerIDs(ctx, r.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followers of %s: %w", r.user.Username, err)
	}
	r.followers = reconcile.SetOf(ids)
	r.log.Info("Fetched followers", zap.Int("count", r.followers.Len()))
	return r.followers, nil
}

// record hands the report to every sink. Sinks run detached from the run
// deadline so interrupted runs are still recorded.
func (r *run) record(ctx context.Context, log *zap.Logger, report *Report) {
	if len(r.service.sinks) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	for _, sink := range r.service.sinks {
		if err := sink.Record(ctx, report); err != nil {
			log.Warn("Failed to record report", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
}

// listMutator binds membership changes to a single list.
type listMutator struct {
	client Client
	listID string
}

func (m *listMutator) AddMember(ctx context.Context, id reconcile.ID) error {
	return m.client.AddListMember(ctx, m.listID, string(id))
}

func (m *listMutator) RemoveMember(ctx context.Context, id reconcile.ID) error {
	return m.client.RemoveListMember(ctx, m.listID, string(id))
}
