package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"dtrplay/internal/classifier"
	"dtrplay/internal/models"
	"dtrplay/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService() (*SessionService, *testutil.MockNotices) {
	svc, notices, _ := newTestSessionServiceWithCold()
	return svc, notices
}

func newTestSessionServiceWithCold() (*SessionService, *testutil.MockNotices, *testutil.MockColdStorage) {
	notices := testutil.NewMockNotices()
	cold := testutil.NewMockColdStorage()
	svc := NewSessionService(sessionConfig(), cold, &mockClassifier{}, notices, &testutil.MockLogger{}, testutil.NewMockMetrics())
	return svc.(*SessionService), notices, cold
}

func TestSessionService_AcquireCreatesAndReuses(t *testing.T) {
	svc, _ := newTestSessionService()

	id, ws := svc.Acquire("")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, ws.ID())

	again, same := svc.Acquire(id)
	assert.Equal(t, id, again)
	assert.Same(t, ws, same)
	assert.Equal(t, 1, svc.Count())
}

func TestSessionService_AcquireIgnoresForeignIDs(t *testing.T) {
	svc, _ := newTestSessionService()

	id, _ := svc.Acquire("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", id)

	stale := uuid.NewString()
	id, _ = svc.Acquire(stale)
	assert.Equal(t, stale, id, "a well-formed unknown id is reused")
}

func TestSessionService_ConcurrentFirstAcquireSharesWorkspace(t *testing.T) {
	svc, _ := newTestSessionService()
	id := uuid.NewString()

	const callers = 16
	ids := make([]string, callers)
	got := make([]*Workspace, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ids[i], got[i] = svc.Acquire(id)
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < callers; i++ {
		assert.Equal(t, id, ids[i])
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, svc.Count())
}

func TestSessionService_SweepSkipsBusyWorkspace(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	client := &mockClassifier{ClassifyFn: func(req classifier.Request) (classifier.LabelResponse, error) {
		close(entered)
		<-release
		return labelByText(req)
	}}
	svc := NewSessionService(sessionConfig(), testutil.NewMockColdStorage(), client, testutil.NewMockNotices(), &testutil.MockLogger{}, testutil.NewMockMetrics()).(*SessionService)

	id, ws := svc.Acquire("")
	require.NoError(t, ws.AddRecord(recIn))

	done := make(chan error, 1)
	go func() { done <- ws.SetLogic(context.Background(), classifier.Logic1, true) }()
	<-entered

	later := time.Now().Add(48 * time.Hour)
	assert.Equal(t, 0, svc.Sweep(later), "a workspace with a request in flight stays")
	_, ok := svc.Get(id)
	assert.True(t, ok)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, ws.Snapshot().State.Active())
	assert.Equal(t, 0, svc.Sweep(time.Now().Add(time.Hour)), "finishing a request counts as activity")
	assert.Equal(t, 1, svc.Sweep(time.Now().Add(48*time.Hour)))
}

func TestSessionService_WorkspacesAreIsolated(t *testing.T) {
	svc, _ := newTestSessionService()
	_, a := svc.Acquire("")
	_, b := svc.Acquire("")

	require.NoError(t, a.AddRecord(recIn))
	assert.Empty(t, b.Snapshot().Records)
}

func TestSessionService_Sweep(t *testing.T) {
	svc, notices, cold := newTestSessionServiceWithCold()
	oldID, old := svc.Acquire("")
	freshID, _ := svc.Acquire("")
	notices.Push(oldID, "x")

	old.touch(time.Now().Add(-48 * time.Hour))

	assert.Equal(t, 1, svc.Sweep(time.Now()))
	_, ok := svc.Get(oldID)
	assert.False(t, ok)
	_, ok = svc.Get(freshID)
	assert.True(t, ok)
	assert.Empty(t, notices.List(oldID))
	assert.True(t, cold.Has(oldID))
}

func TestSessionService_AcquireThawsArchivedWorkspace(t *testing.T) {
	svc, _, cold := newTestSessionServiceWithCold()
	id, ws := svc.Acquire("")
	require.NoError(t, ws.AddRecord(recIn))
	ws.touch(time.Now().Add(-48 * time.Hour))
	require.Equal(t, 1, svc.Sweep(time.Now()))

	again, back := svc.Acquire(id)
	assert.Equal(t, id, again)
	assert.NotSame(t, ws, back)
	assert.Equal(t, []string{recIn}, back.Snapshot().Records)
	assert.False(t, cold.Has(id))
	assert.Equal(t, 0, svc.Sweep(time.Now()), "a thawed workspace counts as fresh")
}

func TestSessionService_SnapshotRoundTrip(t *testing.T) {
	svc, _ := newTestSessionService()
	id, ws := svc.Acquire("")
	require.NoError(t, ws.AddRecord(recIn))
	require.NoError(t, ws.AddSchedule(monday))

	snap := svc.GetSnapshot()
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	require.Contains(t, snap.Workspaces, id)

	restored, _ := newTestSessionService()
	snap.Workspaces["imported"] = &models.WorkspaceSnapshot{Schedules: []models.Schedule{{StartDay: "monday"}}}
	require.NoError(t, restored.PutSnapshot(snap))

	got, ok := restored.Get(id)
	require.True(t, ok)
	assert.Equal(t, []string{recIn}, got.Snapshot().Records)
	assert.Equal(t, "8:00 AM", got.Snapshot().Schedules[0].StartTime)
	imported, ok := restored.Get("imported")
	require.True(t, ok, "schedules are restored as saved")
	assert.Equal(t, []models.Schedule{{StartDay: "monday"}}, imported.Snapshot().Schedules)
}
