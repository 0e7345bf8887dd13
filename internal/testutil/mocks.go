package testutil

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"dtrplay/internal/models"
	"dtrplay/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Contains reports whether any entry of the given level mentions substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        map[string]int
	CacheHits       int
	CacheMisses     int
	Persisted       int
	ClassifierCalls map[string]int // key: "logic:outcome"
	Superseded      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:        make(map[string]int),
		ClassifierCalls: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[fmt.Sprintf("%s:%d", endpoint, status)]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) IncClassifierCalls(logic, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifierCalls[logic+":"+outcome]++
}

func (m *MockMetrics) ObserveClassifierDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncSupersededResponses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Superseded++
}

func (m *MockMetrics) TrackWorkspaces(_ providers.WorkspaceCounter) {}

func (m *MockMetrics) Calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ClassifierCalls[key]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Data)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockNotices implements providers.NoticeProviderInterface without expiry.
type MockNotices struct {
	mu   sync.Mutex
	Data map[string][]string
}

func NewMockNotices() *MockNotices {
	return &MockNotices{Data: make(map[string][]string)}
}

func (m *MockNotices) Push(session, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[session] = append(m.Data[session], message)
}

func (m *MockNotices) List(session string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Data[session]...)
}

func (m *MockNotices) Dismiss(session string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, session)
}

// MockColdStorage implements models.ColdStorageInterface in memory.
type MockColdStorage struct {
	mu      sync.Mutex
	Entries map[string]*models.WorkspaceSnapshot
	Flushes int
}

func NewMockColdStorage() *MockColdStorage {
	return &MockColdStorage{Entries: make(map[string]*models.WorkspaceSnapshot)}
}

func (m *MockColdStorage) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Entries[id]
	return ok
}

func (m *MockColdStorage) Evict(id string, snap *models.WorkspaceSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[id] = snap
}

func (m *MockColdStorage) Restore(id string) (*models.WorkspaceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.Entries[id]
	delete(m.Entries, id)
	return snap, nil
}

func (m *MockColdStorage) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return nil
}

func (m *MockColdStorage) Close() {}
