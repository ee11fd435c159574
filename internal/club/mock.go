package club

import (
	"context"
	"sync"

	"github.com/mafclub/ledger/internal/mafia"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc             func(playerID, name string)
	UpsertPlayersFunc         func(players []mafia.Player) error
	IsKnownPlayerFunc         func(playerID string) bool
	GetAllPlayersFunc         func() ([]mafia.Player, error)
	RecordGameFunc            func(game *mafia.Game) error
	SetGameResultFunc         func(gameID string, result mafia.GameResult) error
	GetGameFunc               func(gameID string) (*mafia.Game, error)
	GetAllGamesFunc           func() ([]*mafia.Game, error)
	CreateRatingFunc          func(name string) (*mafia.Rating, error)
	GetRatingFunc             func(ratingID string) (*mafia.Rating, error)
	ListRatingsFunc           func() ([]mafia.Rating, error)
	AddGameToRatingFunc       func(ratingID, gameID string) error
	RemoveGameFromRatingFunc  func(ratingID, gameID string) error
	RatingsForGameFunc        func(gameID string) ([]string, error)
	LoadScopeGameIDsFunc      func(scopeID string) ([]string, error)
	LoadSeatsForGamesFunc     func(gameIDs []string) ([]mafia.SeatResult, error)
	ReplaceResultsFunc        func(ctx context.Context, scopeID string, results []mafia.PlayerResult) error
	GetScopeResultsFunc       func(scopeID string) ([]mafia.PlayerResult, error)
	GetPlayerResultByNameFunc func(scopeID, playerName string) (*mafia.PlayerResult, error)
	ClearFunc                 func()
	ClearGameFunc             func(gameID string)

	// Call records
	RecordGameCalls      []*mafia.Game
	SetGameResultCalls   []struct {
		GameID string
		Result mafia.GameResult
	}
	AddGameToRatingCalls []struct {
		RatingID string
		GameID   string
	}
	RemoveGameFromRatingCalls []struct {
		RatingID string
		GameID   string
	}
	ReplaceResultsCalls []struct {
		ScopeID string
		Results []mafia.PlayerResult
	}
	LoadScopeGameIDsCalls []string
	ClearGameCalls        []string
}

var _ ClubStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = nil
	m.SetGameResultCalls = nil
	m.AddGameToRatingCalls = nil
	m.RemoveGameFromRatingCalls = nil
	m.ReplaceResultsCalls = nil
	m.LoadScopeGameIDsCalls = nil
	m.ClearGameCalls = nil
}

func (m *MockStore) AddPlayer(playerID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		m.AddPlayerFunc(playerID, name)
	}
}

func (m *MockStore) UpsertPlayers(players []mafia.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) GetAllPlayers() ([]mafia.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) RecordGame(game *mafia.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = append(m.RecordGameCalls, game)
	if m.RecordGameFunc != nil {
		return m.RecordGameFunc(game)
	}
	return nil
}

func (m *MockStore) SetGameResult(gameID string, result mafia.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetGameResultCalls = append(m.SetGameResultCalls, struct {
		GameID string
		Result mafia.GameResult
	}{gameID, result})
	if m.SetGameResultFunc != nil {
		return m.SetGameResultFunc(gameID, result)
	}
	return nil
}

func (m *MockStore) GetGame(gameID string) (*mafia.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGameFunc != nil {
		return m.GetGameFunc(gameID)
	}
	return nil, nil
}

func (m *MockStore) GetAllGames() ([]*mafia.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllGamesFunc != nil {
		return m.GetAllGamesFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateRating(name string) (*mafia.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateRatingFunc != nil {
		return m.CreateRatingFunc(name)
	}
	return &mafia.Rating{ID: "mock-rating", Name: name}, nil
}

func (m *MockStore) GetRating(ratingID string) (*mafia.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingFunc != nil {
		return m.GetRatingFunc(ratingID)
	}
	return &mafia.Rating{ID: ratingID}, nil
}

func (m *MockStore) ListRatings() ([]mafia.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListRatingsFunc != nil {
		return m.ListRatingsFunc()
	}
	return nil, nil
}

func (m *MockStore) AddGameToRating(ratingID, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddGameToRatingCalls = append(m.AddGameToRatingCalls, struct {
		RatingID string
		GameID   string
	}{ratingID, gameID})
	if m.AddGameToRatingFunc != nil {
		return m.AddGameToRatingFunc(ratingID, gameID)
	}
	return nil
}

func (m *MockStore) RemoveGameFromRating(ratingID, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveGameFromRatingCalls = append(m.RemoveGameFromRatingCalls, struct {
		RatingID string
		GameID   string
	}{ratingID, gameID})
	if m.RemoveGameFromRatingFunc != nil {
		return m.RemoveGameFromRatingFunc(ratingID, gameID)
	}
	return nil
}

func (m *MockStore) RatingsForGame(gameID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RatingsForGameFunc != nil {
		return m.RatingsForGameFunc(gameID)
	}
	return nil, nil
}

func (m *MockStore) LoadScopeGameIDs(scopeID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadScopeGameIDsCalls = append(m.LoadScopeGameIDsCalls, scopeID)
	if m.LoadScopeGameIDsFunc != nil {
		return m.LoadScopeGameIDsFunc(scopeID)
	}
	return nil, nil
}

func (m *MockStore) LoadSeatsForGames(gameIDs []string) ([]mafia.SeatResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadSeatsForGamesFunc != nil {
		return m.LoadSeatsForGamesFunc(gameIDs)
	}
	return nil, nil
}

func (m *MockStore) ReplaceResults(ctx context.Context, scopeID string, results []mafia.PlayerResult) error {
	m.mu.Lock()
	m.ReplaceResultsCalls = append(m.ReplaceResultsCalls, struct {
		ScopeID string
		Results []mafia.PlayerResult
	}{scopeID, results})
	fn := m.ReplaceResultsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, scopeID, results)
	}
	return nil
}

func (m *MockStore) GetScopeResults(scopeID string) ([]mafia.PlayerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetScopeResultsFunc != nil {
		return m.GetScopeResultsFunc(scopeID)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerResultByName(scopeID, playerName string) (*mafia.PlayerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerResultByNameFunc != nil {
		return m.GetPlayerResultByNameFunc(scopeID, playerName)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearGame(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearGameCalls = append(m.ClearGameCalls, gameID)
	if m.ClearGameFunc != nil {
		m.ClearGameFunc(gameID)
	}
}
