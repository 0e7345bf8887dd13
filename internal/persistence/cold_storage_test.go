package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"dtrplay/internal/models"
	"dtrplay/internal/structures"
	"dtrplay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestColdStorage(t *testing.T, ttl time.Duration) (*ColdStorage, string) {
	t.Helper()
	dir := t.TempDir()
	return NewColdStorage(dir, ttl, &testutil.MockCompressor{}, &testutil.MockLogger{}), dir
}

func workspace(records ...string) *models.WorkspaceSnapshot {
	return &models.WorkspaceSnapshot{Records: records, Schedules: []models.Schedule{}}
}

func TestColdStorage_Has_Empty(t *testing.T) {
	cs, _ := newTestColdStorage(t, 0)
	assert.False(t, cs.Has("a"))
}

func TestColdStorage_Evict_NoIO(t *testing.T) {
	cs, dir := newTestColdStorage(t, 0)
	cs.Evict("a", workspace("r1"))

	assert.True(t, cs.Has("a"))
	_, err := os.Stat(filepath.Join(dir, coldFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestColdStorage_RestoreFromPending(t *testing.T) {
	cs, _ := newTestColdStorage(t, 0)
	cs.Evict("a", workspace("r1"))

	got, err := cs.Restore("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, got.Records)
	assert.False(t, cs.Has("a"))
}

func TestColdStorage_RestoreNonExistent(t *testing.T) {
	cs, _ := newTestColdStorage(t, 0)
	got, err := cs.Restore("missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestColdStorage_EvictFlushRestoreRoundtrip(t *testing.T) {
	cs, dir := newTestColdStorage(t, 0)
	cs.Evict("a", workspace("r1"))
	cs.Evict("b", workspace("r2"))
	require.NoError(t, cs.Flush())

	// a fresh instance only knows what is on disk
	cs2 := NewColdStorage(dir, 0, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, cs2.RestoreIndex())
	assert.True(t, cs2.Has("a"))
	assert.True(t, cs2.Has("b"))

	got, err := cs2.Restore("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, got.Records)

	// lazy delete is applied by the next flush
	require.NoError(t, cs2.Flush())
	cs3 := NewColdStorage(dir, 0, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, cs3.RestoreIndex())
	assert.True(t, cs3.Has("a"))
	assert.False(t, cs3.Has("b"))
}

func TestColdStorage_ColdTTL(t *testing.T) {
	cs, dir := newTestColdStorage(t, time.Hour)
	cs.Evict("old", workspace("r1"))
	cs.pending["old"].EvictedAt = time.Now().Add(-2 * time.Hour)
	cs.Evict("new", workspace("r2"))

	require.NoError(t, cs.Flush())
	assert.False(t, cs.Has("old"))
	assert.True(t, cs.Has("new"))

	_, err := os.Stat(filepath.Join(dir, coldFileName))
	assert.NoError(t, err)
}

func TestColdStorage_FlushRemovesEmptyFile(t *testing.T) {
	cs, dir := newTestColdStorage(t, 0)
	cs.Evict("a", workspace("r1"))
	require.NoError(t, cs.Flush())

	_, err := cs.Restore("a")
	require.NoError(t, err)
	require.NoError(t, cs.Flush())

	_, err = os.Stat(filepath.Join(dir, coldFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestColdStorage_CorruptFile(t *testing.T) {
	cs, dir := newTestColdStorage(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, coldFileName), []byte("garbage"), 0644))

	logger := &testutil.MockLogger{}
	cs.logger = logger
	require.NoError(t, cs.RestoreIndex())
	assert.False(t, cs.Has("a"))
	assert.True(t, logger.Contains("error", "Failed to parse cold file"))
}

func TestColdStorage_FlushError_PreservesPending(t *testing.T) {
	dir := t.TempDir()
	fail := true
	comp := &testutil.MockCompressor{CompressFn: func(b []byte) ([]byte, error) {
		if fail {
			return nil, errors.New("disk full")
		}
		return b, nil
	}}
	cs := NewColdStorage(dir, 0, comp, &testutil.MockLogger{})
	cs.Evict("a", workspace("r1"))

	assert.Error(t, cs.Flush())
	assert.True(t, cs.Has("a"))

	fail = false
	require.NoError(t, cs.Flush())
	got, err := cs.Restore("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, got.Records)
}

func TestColdStorage_ConcurrentAccess(t *testing.T) {
	cs, _ := newTestColdStorage(t, 0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			cs.Evict(id, workspace(id))
			_ = cs.Has(id)
			if i%2 == 0 {
				_, _ = cs.Restore(id)
			}
		}(i)
	}
	wg.Wait()
	assert.NoError(t, cs.Flush())
}

func TestColdStorage_Close_ClosesCompressor(t *testing.T) {
	comp := &testutil.MockCompressor{}
	cs := NewColdStorage(t.TempDir(), 0, comp, &testutil.MockLogger{})
	cs.Close()
	assert.True(t, comp.Closed)
}

func TestNewColdStorageProvider_Disabled(t *testing.T) {
	conf := &structures.Config{}
	cs, err := NewColdStorageProvider(conf, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)

	cs.Evict("a", workspace("r1"))
	assert.False(t, cs.Has("a"))
	assert.NoError(t, cs.Flush())
}

func TestNewColdStorageProvider_Enabled(t *testing.T) {
	conf := &structures.Config{}
	conf.Persistence.Enabled = true
	conf.Persistence.FilePath = filepath.Join(t.TempDir(), "workspaces.dat")
	conf.ApplyDefaults()

	cs, err := NewColdStorageProvider(conf, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	_, ok := cs.(*ColdStorage)
	assert.True(t, ok)

	info, err := os.Stat(conf.Persistence.ColdDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
