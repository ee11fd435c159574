package notifier

import (
	"sync"

	"github.com/mafclub/ledger/internal/mafia"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendLeaderboardFunc      func(scopeName string, results []mafia.PlayerResult, dryRun bool) error
	SendRecomputeSummaryFunc func(scopeName string, affectedPlayers int, dryRun bool) error
	SendPlayerResultFunc     func(result *mafia.PlayerResult, query string, dryRun bool) error
	SendPlayerNotFoundFunc   func(query string, dryRun bool) error

	FormatLeaderboardResponseFunc    func(scopeName string, results []mafia.PlayerResult) (any, error)
	FormatPlayerResultResponseFunc   func(result *mafia.PlayerResult, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendLeaderboardCalls []struct {
		ScopeName string
		Results   []mafia.PlayerResult
	}
	SendRecomputeSummaryCalls []struct {
		ScopeName       string
		AffectedPlayers int
	}
	SendPlayerResultCalls []struct {
		Result *mafia.PlayerResult
		Query  string
	}
	SendPlayerNotFoundCalls []string
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock Notifier.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = nil
	m.SendRecomputeSummaryCalls = nil
	m.SendPlayerResultCalls = nil
	m.SendPlayerNotFoundCalls = nil
}

func (m *MockNotifier) SendLeaderboard(scopeName string, results []mafia.PlayerResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		ScopeName string
		Results   []mafia.PlayerResult
	}{scopeName, results})
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(scopeName, results, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendRecomputeSummary(scopeName string, affectedPlayers int, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRecomputeSummaryCalls = append(m.SendRecomputeSummaryCalls, struct {
		ScopeName       string
		AffectedPlayers int
	}{scopeName, affectedPlayers})
	if m.SendRecomputeSummaryFunc != nil {
		return m.SendRecomputeSummaryFunc(scopeName, affectedPlayers, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerResult(result *mafia.PlayerResult, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerResultCalls = append(m.SendPlayerResultCalls, struct {
		Result *mafia.PlayerResult
		Query  string
	}{result, query})
	if m.SendPlayerResultFunc != nil {
		return m.SendPlayerResultFunc(result, query, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	if m.SendPlayerNotFoundFunc != nil {
		return m.SendPlayerNotFoundFunc(query, dryRun)
	}
	return nil
}

func (m *MockNotifier) FormatLeaderboardResponse(scopeName string, results []mafia.PlayerResult) (any, error) {
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(scopeName, results)
	}
	return nil, nil
}

func (m *MockNotifier) FormatPlayerResultResponse(result *mafia.PlayerResult, query string) (any, error) {
	if m.FormatPlayerResultResponseFunc != nil {
		return m.FormatPlayerResultResponseFunc(result, query)
	}
	return nil, nil
}

func (m *MockNotifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return nil, nil
}
