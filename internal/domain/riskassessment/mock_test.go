package riskassessment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*AdvancedRiskAssessment
	storeErr error
	delay    time.Duration
	stores   int
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*AdvancedRiskAssessment)}
}

func (m *mockRepo) Store(ctx context.Context, a *AdvancedRiskAssessment) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	if m.storeErr != nil {
		return m.storeErr
	}
	if _, ok := m.items[a.AssessmentID]; !ok {
		m.items[a.AssessmentID] = a
	}
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*AdvancedRiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) byUser(userID string) []*AdvancedRiskAssessment {
	var out []*AdvancedRiskAssessment
	for _, a := range m.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out
}

func (m *mockRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*AdvancedRiskAssessment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.byUser(userID)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockRepo) Latest(_ context.Context, userID string) (*AdvancedRiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.byUser(userID)
	if len(all) == 0 {
		return nil, ErrNotFound
	}
	return all[0], nil
}

func (m *mockRepo) storeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stores
}

// -- Mock ActionTrigger --

type mockTrigger struct {
	mu    sync.Mutex
	calls []*AdvancedRiskAssessment
	err   error
}

func (m *mockTrigger) TriggerImmediateActions(_ context.Context, a *AdvancedRiskAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, a)
	return m.err
}

func (m *mockTrigger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// -- Mock EventProducer --

type publishedEvent struct {
	eventType string
	key       string
	data      any
}

type mockProducer struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (m *mockProducer) Publish(_ context.Context, eventType, key string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, publishedEvent{eventType, key, data})
	return nil
}

func (m *mockProducer) published() []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// -- Mock Observer --

type mockObserver struct {
	mu         sync.Mutex
	assessed   int
	rejected   int
	failures   []string
	lastTier   string
	lastAlerts int
}

func (m *mockObserver) ObserveAssessment(tier, _ string, alerts int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessed++
	m.lastTier = tier
	m.lastAlerts = alerts
}

func (m *mockObserver) ObserveRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func (m *mockObserver) ObserveCollaboratorFailure(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, name)
}
