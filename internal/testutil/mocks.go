package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/models"
	"acctrack/internal/providers"
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

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu          sync.Mutex
	Accounts    map[string]int
	Transitions map[string]int
	Toggles     map[string]int
	StorageOps  []string
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Accounts:    make(map[string]int),
		Transitions: make(map[string]int),
		Toggles:     make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveStorageDuration(op string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageOps = append(m.StorageOps, op)
}
func (m *MockMetrics) SetAccountsTotal(state string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts[state] = count
}
func (m *MockMetrics) AddSweepTransitions(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[kind] += count
}
func (m *MockMetrics) IncToggles(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Toggles[outcome]++
}

// MockStore is an in-memory interfaces.AccountStoreInterface with injectable failures.
type MockStore struct {
	mu    sync.Mutex
	Data  map[string]models.Account
	Calls map[string]int

	LoadErr    error
	UpsertErr  error
	ModifyErr  error
	DeleteErr  error
	ReplaceErr error
	CountErr   error
}

func NewMockStore(accounts ...models.Account) *MockStore {
	m := &MockStore{
		Data:  make(map[string]models.Account),
		Calls: make(map[string]int),
	}
	for _, a := range accounts {
		m.Data[a.ID] = a.Clone()
	}
	return m
}

func (m *MockStore) sorted() []models.Account {
	out := make([]models.Account, 0, len(m.Data))
	for _, a := range m.Data {
		out = append(out, a.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.Before(out[j].CreatedDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockStore) LoadAll(_ context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["load"]++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.sorted(), nil
}

func (m *MockStore) Get(_ context.Context, id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["get"]++
	a, ok := m.Data[id]
	if !ok {
		return models.Account{}, errs.ErrNotFound
	}
	return a.Clone(), nil
}

func (m *MockStore) Upsert(_ context.Context, accounts ...models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["upsert"]++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, a := range accounts {
		m.Data[a.ID] = a.Clone()
	}
	return nil
}

func (m *MockStore) Modify(_ context.Context, id string, fn func(*models.Account) error) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["modify"]++
	if m.ModifyErr != nil {
		return models.Account{}, m.ModifyErr
	}
	current, ok := m.Data[id]
	if !ok {
		return models.Account{}, errs.ErrNotFound
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return current.Clone(), err
	}
	next.ID = current.ID
	next.CreatedDate = current.CreatedDate
	m.Data[id] = next.Clone()
	return next, nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["delete"]++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Data[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.Data, id)
	return nil
}

func (m *MockStore) ReplaceAll(_ context.Context, accounts []models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["replace"]++
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Data = make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		m.Data[a.ID] = a.Clone()
	}
	return nil
}

func (m *MockStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["count"]++
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return len(m.Data), nil
}

func (m *MockStore) Close() error { return nil }

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Clears int
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

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Clears++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
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

func (m *MockCompressor) Close() {}
