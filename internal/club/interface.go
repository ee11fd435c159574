package club

import (
	"context"

	"github.com/mafclub/ledger/internal/mafia"
)

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	// Players
	AddPlayer(playerID, name string)
	UpsertPlayers(players []mafia.Player) error
	IsKnownPlayer(playerID string) bool
	GetAllPlayers() ([]mafia.Player, error)

	// Games
	RecordGame(game *mafia.Game) error
	SetGameResult(gameID string, result mafia.GameResult) error
	GetGame(gameID string) (*mafia.Game, error)
	GetAllGames() ([]*mafia.Game, error)

	// Ratings (scopes)
	CreateRating(name string) (*mafia.Rating, error)
	GetRating(ratingID string) (*mafia.Rating, error)
	ListRatings() ([]mafia.Rating, error)
	AddGameToRating(ratingID, gameID string) error
	RemoveGameFromRating(ratingID, gameID string) error
	RatingsForGame(gameID string) ([]string, error)

	// Engine collaborators
	LoadScopeGameIDs(scopeID string) ([]string, error)
	LoadSeatsForGames(gameIDs []string) ([]mafia.SeatResult, error)
	ReplaceResults(ctx context.Context, scopeID string, results []mafia.PlayerResult) error

	// Leaderboard reads
	GetScopeResults(scopeID string) ([]mafia.PlayerResult, error)
	GetPlayerResultByName(scopeID, playerName string) (*mafia.PlayerResult, error)

	// Admin
	Clear()
	ClearGame(gameID string)
}
