// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"pulseboard/internal/domain"
)

// === Query Executor Mock ===

// MockExecutor implements domain.QueryExecutor for testing.
type MockExecutor struct {
	ExecuteFn func(ctx context.Context, dashboardID, query string) (domain.TableData, error)
	Calls     int // number of Execute invocations
}

// Execute implements the interface method for testing.
func (m *MockExecutor) Execute(ctx context.Context, dashboardID, query string) (domain.TableData, error) {
	m.Calls++
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, dashboardID, query)
	}
	panic("unexpected call to MockExecutor.Execute")
}

var _ domain.QueryExecutor = (*MockExecutor)(nil)

// === Result Cache Mock ===

// MockCache implements domain.ResultCache for testing. Unset function
// fields behave as an empty, enabled cache.
type MockCache struct {
	GetFn     func(ctx context.Context, key string) (domain.TableData, bool)
	SetFn     func(ctx context.Context, key string, data domain.TableData, ttl time.Duration)
	DeleteFn  func(ctx context.Context, key string)
	EnabledFn func() bool

	Sets    int // number of Set invocations
	Deletes int // number of Delete invocations
}

// Get implements the interface method for testing.
func (m *MockCache) Get(ctx context.Context, key string) (domain.TableData, bool) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return domain.TableData{}, false
}

// Set implements the interface method for testing.
func (m *MockCache) Set(ctx context.Context, key string, data domain.TableData, ttl time.Duration) {
	m.Sets++
	if m.SetFn != nil {
		m.SetFn(ctx, key, data, ttl)
	}
}

// Delete implements the interface method for testing.
func (m *MockCache) Delete(ctx context.Context, key string) {
	m.Deletes++
	if m.DeleteFn != nil {
		m.DeleteFn(ctx, key)
	}
}

// Enabled implements the interface method for testing.
func (m *MockCache) Enabled() bool {
	if m.EnabledFn != nil {
		return m.EnabledFn()
	}
	return true
}

var _ domain.ResultCache = (*MockCache)(nil)

// === Query History Repository Mock ===

// MockHistoryRepo implements domain.QueryHistoryRepository for testing.
type MockHistoryRepo struct {
	InsertFn func(ctx context.Context, rec *domain.QueryRecord) error
	ListFn   func(ctx context.Context, dashboardID string, page domain.PageRequest) ([]domain.QueryRecord, int64, error)
	PurgeFn  func(ctx context.Context, cutoff time.Time) (int64, error)
	Records  []*domain.QueryRecord // collected records for assertions
}

// Insert implements the interface method for testing.
func (m *MockHistoryRepo) Insert(ctx context.Context, rec *domain.QueryRecord) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, rec); err != nil {
			return err
		}
	}
	m.Records = append(m.Records, rec)
	return nil
}

// ListByDashboard implements the interface method for testing.
func (m *MockHistoryRepo) ListByDashboard(ctx context.Context, dashboardID string, page domain.PageRequest) ([]domain.QueryRecord, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, dashboardID, page)
	}
	panic("unexpected call to MockHistoryRepo.ListByDashboard")
}

// PurgeOlderThan implements the interface method for testing.
func (m *MockHistoryRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.PurgeFn != nil {
		return m.PurgeFn(ctx, cutoff)
	}
	panic("unexpected call to MockHistoryRepo.PurgeOlderThan")
}

// LastRecord returns the last collected record, or nil if none.
func (m *MockHistoryRepo) LastRecord() *domain.QueryRecord {
	if len(m.Records) == 0 {
		return nil
	}
	return m.Records[len(m.Records)-1]
}

var _ domain.QueryHistoryRepository = (*MockHistoryRepo)(nil)

// === Broadcaster Mock ===

// MockBroadcaster implements domain.Broadcaster for testing.
type MockBroadcaster struct {
	PublishFn func(topic string, e *domain.ResultEnvelope)
	Published []publishedEnvelope // collected publishes for assertions
}

type publishedEnvelope struct {
	Topic    string
	Envelope *domain.ResultEnvelope
}

// Publish implements the interface method for testing.
func (m *MockBroadcaster) Publish(topic string, e *domain.ResultEnvelope) {
	m.Published = append(m.Published, publishedEnvelope{Topic: topic, Envelope: e})
	if m.PublishFn != nil {
		m.PublishFn(topic, e)
	}
}

// LastPublished returns the last published envelope and its topic.
func (m *MockBroadcaster) LastPublished() (string, *domain.ResultEnvelope) {
	if len(m.Published) == 0 {
		return "", nil
	}
	last := m.Published[len(m.Published)-1]
	return last.Topic, last.Envelope
}

var _ domain.Broadcaster = (*MockBroadcaster)(nil)
