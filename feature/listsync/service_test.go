package listsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"list-sync/core/database"
	"list-sync/core/reconcile"
	"list-sync/core/twitter"
	"list-sync/feature/listsync/mocks"
	"list-sync/feature/listsync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	me           = &twitter.User{ID: "42", Name: "Alex", Username: "awlego"}
	followingTgt = Target{Name: "following", ListID: "100", ListName: "Feed (Auto)", Source: SourceFollowing}
	mutualsTgt   = Target{Name: "mutuals", ListID: "200", ListName: "Mutuals (Auto)", Source: SourceMutuals}
)

// recordingSink keeps every report it receives.
type recordingSink struct {
	mu      sync.Mutex
	reports []*Report
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Record(ctx context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return s.err
}

func newTestService(client Client, opts Options, sinks ...Sink) (*Service, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewService(client, zap.New(core), opts, sinks...)
	s.newRunID = func() string { return "run-1" }
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, logs
}

func ids(values ...string) []reconcile.ID {
	out := make([]reconcile.ID, len(values))
	for i, v := range values {
		out[i] = reconcile.ID(v)
	}
	return out
}

func TestSyncAll_OneInOneOut(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"2", "3", "4"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{"1", "2", "3"}, nil)
	client.On("AddListMember", mock.Anything, "100", "4").Return(nil)
	client.On("RemoveListMember", mock.Anything, "100", "1").Return(nil)

	sink := &recordingSink{}
	s, logs := newTestService(client, Options{}, sink)

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, "awlego", r.Account)
	assert.Equal(t, ids("4"), r.ToAdd)
	assert.Equal(t, ids("1"), r.ToRemove)
	assert.Equal(t, ids("4"), r.Added)
	assert.Equal(t, ids("1"), r.Removed)
	assert.Empty(t, r.Failures)
	assert.Equal(t, 3, r.ListSize)
	assert.Equal(t, 3, r.DesiredSize)

	assert.Equal(t, []*Report{r}, sink.reports)
	client.AssertExpectations(t)

	added := logs.FilterMessage("New accounts found, to add").All()
	require.Len(t, added, 1)
	assert.Equal(t, "run-1", added[0].ContextMap()["run_id"])
	assert.Equal(t, 1, logs.FilterMessage("Old accounts found, to remove").Len())
	assert.Equal(t, 1, logs.FilterMessage("Finished update").Len())
}

func TestSyncAll_PartialFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"4", "5"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)
	client.On("AddListMember", mock.Anything, "100", "4").Return(errors.New("forbidden"))
	client.On("AddListMember", mock.Anything, "100", "5").Return(nil)

	s, logs := newTestService(client, Options{})

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})

	assert.ErrorIs(t, err, ErrIncomplete)
	require.Len(t, reports, 1)
	assert.Equal(t, ids("5"), reports[0].Added)
	require.Len(t, reports[0].Failures, 1)
	assert.Equal(t, FailureReport{ID: "4", Op: reconcile.OpAdd, Error: "forbidden"}, reports[0].Failures[0])
	assert.Equal(t, 1, logs.FilterMessage("Failed to update membership").Len())
	client.AssertExpectations(t)
}

func TestSyncAll_FailureDoesNotStopLaterTargets(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"1", "2"}, nil).Once()
	client.On("FollowerIDs", mock.Anything, "42").Return([]string{"2"}, nil).Once()
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)
	client.On("ListMemberIDs", mock.Anything, "200").Return([]string{}, nil)
	client.On("AddListMember", mock.Anything, "100", "1").Return(errors.New("boom"))
	client.On("AddListMember", mock.Anything, "100", "2").Return(nil)
	client.On("AddListMember", mock.Anything, "200", "2").Return(nil)

	s, _ := newTestService(client, Options{Concurrency: 2})

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt, mutualsTgt})

	assert.ErrorIs(t, err, ErrIncomplete)
	require.Len(t, reports, 2)
	assert.Equal(t, 1, reports[0].Failed())
	assert.Equal(t, ids("2"), reports[1].Added)
	client.AssertNumberOfCalls(t, "FollowingIDs", 1)
	client.AssertExpectations(t)
}

func TestSyncAll_Mutuals(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"1", "2", "3"}, nil)
	client.On("FollowerIDs", mock.Anything, "42").Return([]string{"2", "3", "9"}, nil)
	client.On("ListMemberIDs", mock.Anything, "200").Return([]string{"3", "7"}, nil)
	client.On("AddListMember", mock.Anything, "200", "2").Return(nil)
	client.On("RemoveListMember", mock.Anything, "200", "7").Return(nil)

	s, _ := newTestService(client, Options{})

	reports, err := s.SyncAll(context.Background(), "", []Target{mutualsTgt})
	require.NoError(t, err)
	assert.Equal(t, ids("2"), reports[0].Added)
	assert.Equal(t, ids("7"), reports[0].Removed)
	assert.Equal(t, 2, reports[0].DesiredSize)
	client.AssertExpectations(t)
}

func TestSyncAll_AlreadyInSync(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"1", "2"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{"2", "1"}, nil)

	s, logs := newTestService(client, Options{})

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})
	require.NoError(t, err)
	assert.Empty(t, reports[0].ToAdd)
	assert.Empty(t, reports[0].ToRemove)
	assert.NotNil(t, reports[0].Added)
	assert.Equal(t, 1, logs.FilterMessage("List already in sync").Len())
	client.AssertNotCalled(t, "AddListMember", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RemoveListMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAll_DryRun(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"2", "3", "4"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{"1", "2", "3"}, nil)

	s, _ := newTestService(client, Options{DryRun: true})

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})
	require.NoError(t, err)
	assert.True(t, reports[0].DryRun)
	assert.Equal(t, ids("4"), reports[0].ToAdd)
	assert.Equal(t, ids("1"), reports[0].ToRemove)
	assert.Empty(t, reports[0].Added)
	assert.Empty(t, reports[0].Removed)
	client.AssertNotCalled(t, "AddListMember", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RemoveListMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAll_OtherAccount(t *testing.T) {
	other := &twitter.User{ID: "77", Username: "someone"}

	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("UserByUsername", mock.Anything, "someone").Return(other, nil)
	client.On("FollowingIDs", mock.Anything, "77").Return([]string{"1"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{"1"}, nil)

	s, _ := newTestService(client, Options{})

	reports, err := s.SyncAll(context.Background(), "someone", []Target{followingTgt})
	require.NoError(t, err)
	assert.Equal(t, "someone", reports[0].Account)
	client.AssertExpectations(t)
}

func TestSyncAll_SameAccountSkipsLookup(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)

	s, _ := newTestService(client, Options{})

	_, err := s.SyncAll(context.Background(), "AWLEGO", []Target{followingTgt})
	require.NoError(t, err)
	client.AssertNotCalled(t, "UserByUsername", mock.Anything, mock.Anything)
}

func TestSyncAll_AuthenticationFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(nil, twitter.ErrUnauthorized)

	sink := &recordingSink{}
	s, _ := newTestService(client, Options{}, sink)

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})

	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, twitter.ErrUnauthorized)
	assert.Nil(t, reports)
	assert.Empty(t, sink.reports)
	client.AssertNotCalled(t, "FollowingIDs", mock.Anything, mock.Anything)
}

func TestSyncAll_FetchFailureAborts(t *testing.T) {
	fetchErr := errors.New("connection reset")

	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return(nil, fetchErr)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{"1"}, nil).Maybe()

	s, _ := newTestService(client, Options{})

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt, mutualsTgt})

	assert.ErrorIs(t, err, fetchErr)
	assert.NotErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, reports)
	client.AssertNotCalled(t, "AddListMember", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RemoveListMember", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "ListMemberIDs", mock.Anything, "200")
}

func TestSyncAll_ListFetchFailureAborts(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"1"}, nil).Maybe()
	client.On("ListMemberIDs", mock.Anything, "100").Return(nil, errors.New("not found"))

	s, _ := newTestService(client, Options{})

	_, err := s.SyncAll(context.Background(), "", []Target{followingTgt})

	assert.ErrorContains(t, err, "failed to fetch members of list 100")
	client.AssertNotCalled(t, "AddListMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAll_SinkErrorIsLogged(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)

	sink := &recordingSink{err: errors.New("bucket gone")}
	s, logs := newTestService(client, Options{}, sink)

	reports, err := s.SyncAll(context.Background(), "", []Target{followingTgt})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Len(t, sink.reports, 1)
	assert.Equal(t, 1, logs.FilterMessage("Failed to record report").Len())
}

func TestSyncAll_Validation(t *testing.T) {
	s, _ := newTestService(new(mocks.Client), Options{})

	_, err := s.SyncAll(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoTargets)

	_, err = s.SyncAll(context.Background(), "", []Target{{Name: "following", Source: SourceFollowing}})
	assert.ErrorContains(t, err, "has no list id")
}

func TestAuthenticate(t *testing.T) {
	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)

	s, _ := newTestService(client, Options{})

	user, err := s.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, me, user)
}

func TestSyncAll_InterruptedRunIsJournaled(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	defer database.Close(db)

	journal := NewJournal(db)
	require.NoError(t, journal.Prepare(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"4", "5"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)
	client.On("AddListMember", mock.Anything, "100", "4").
		Run(func(mock.Arguments) { cancel() }).
		Return(context.Canceled)

	s, logs := newTestService(client, Options{}, journal)

	reports, err := s.SyncAll(ctx, "", []Target{followingTgt})

	assert.ErrorIs(t, err, ErrIncomplete)
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Failed())
	assert.Equal(t, 0, logs.FilterMessage("Failed to record report").Len())

	var runs []models.SyncRun
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Failed)
	client.AssertNotCalled(t, "AddListMember", mock.Anything, "100", "5")
}

func TestSyncAll_SinkContextOutlivesRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := new(mocks.Client)
	client.On("Me", mock.Anything).Return(me, nil)
	client.On("FollowingIDs", mock.Anything, "42").Return([]string{"4"}, nil)
	client.On("ListMemberIDs", mock.Anything, "100").Return([]string{}, nil)
	client.On("AddListMember", mock.Anything, "100", "4").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)

	sink := &ctxSink{}
	s, _ := newTestService(client, Options{}, sink)

	_, err := s.SyncAll(ctx, "", []Target{followingTgt})
	require.NoError(t, err)

	assert.NoError(t, sink.err)
	assert.True(t, sink.hasDeadline)
}

// ctxSink captures the state of the context it is called with.
type ctxSink struct {
	err         error
	hasDeadline bool
}

func (s *ctxSink) Name() string { return "ctx" }

func (s *ctxSink) Record(ctx context.Context, report *Report) error {
	s.err = ctx.Err()
	_, s.hasDeadline = ctx.Deadline()
	return nil
}
