package metrics

import "sync"

// MockMetrics is a no-op Metrics implementation that records call counts.
// It is safe for concurrent use.
type MockMetrics struct {
	mu sync.Mutex

	GamesRecordedCalls      int
	RecomputeRunsCalls      int
	RecomputeFailuresCalls  int
	RecomputeDurations      []float64
	SlackNotifSentCalls     int
	SlackNotifFailedCalls   int
	StartupTimeObservations []float64
}

var _ Metrics = (*MockMetrics)(nil)

// NewMock creates a new mock Metrics instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncGamesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesRecordedCalls++
}

func (m *MockMetrics) IncRecomputeRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeRunsCalls++
}

func (m *MockMetrics) IncRecomputeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeFailuresCalls++
}

func (m *MockMetrics) ObserveRecomputeDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeDurations = append(m.RecomputeDurations, seconds)
}

func (m *MockMetrics) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCalls++
}

func (m *MockMetrics) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCalls++
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeObservations = append(m.StartupTimeObservations, seconds)
}
