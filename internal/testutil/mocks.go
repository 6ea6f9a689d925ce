package testutil

import (
	"fmt"
	"sync"
	"time"

	"nicks/internal/models"
	"nicks/internal/providers"
	"nicks/internal/store"
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

// Messages returns the formatted lines logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e.Message())
		}
	}
	return out
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Purges int
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

func (m *MockCache) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Purges++
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Migrations      map[string]int
	RecordsMigrated map[string]uint64
	DecodeFailures  map[string]uint64
	OnchainVersion  uint16
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Migrations:      make(map[string]int),
		RecordsMigrated: make(map[string]uint64),
		DecodeFailures:  make(map[string]uint64),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
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
func (m *MockMetrics) IncMigrations(step string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Migrations[step+"/"+outcome]++
}
func (m *MockMetrics) AddRecordsMigrated(step string, n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsMigrated[step] += n
}
func (m *MockMetrics) AddDecodeFailures(step string, n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecodeFailures[step] += n
}
func (m *MockMetrics) ObserveMigrationDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) SetOnchainVersion(version uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OnchainVersion = version
}

// MockCompressor implements snapshot.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
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

// FaultyStore wraps a backend and fails selected operations.
type FaultyStore struct {
	store.Backend
	KeysErr    error
	PutErr     error
	VersionErr error
	// FailPutAfter fails every Put once this many have succeeded. Zero disables it.
	FailPutAfter int
	// DuplicateKey makes Keys list its first key twice.
	DuplicateKey bool
	puts         int
}

func (f *FaultyStore) Keys() ([]models.AccountID, error) {
	if f.KeysErr != nil {
		return nil, f.KeysErr
	}
	keys, err := f.Backend.Keys()
	if err != nil || !f.DuplicateKey || len(keys) == 0 {
		return keys, err
	}
	return append(keys, keys[0]), nil
}

func (f *FaultyStore) Put(key models.AccountID, value []byte) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	if f.FailPutAfter > 0 && f.puts >= f.FailPutAfter {
		return fmt.Errorf("injected put failure after %d writes", f.puts)
	}
	f.puts++
	return f.Backend.Put(key, value)
}

func (f *FaultyStore) PutOnchainVersion(v models.SchemaVersion) error {
	if f.VersionErr != nil {
		return f.VersionErr
	}
	return f.Backend.PutOnchainVersion(v)
}
