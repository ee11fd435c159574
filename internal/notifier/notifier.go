package notifier

import "github.com/mafclub/ledger/internal/mafia"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For pushed announcements
	SendLeaderboard(scopeName string, results []mafia.PlayerResult, dryRun bool) error
	SendRecomputeSummary(scopeName string, affectedPlayers int, dryRun bool) error

	// For slash commands
	SendPlayerResult(result *mafia.PlayerResult, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(scopeName string, results []mafia.PlayerResult) (any, error)
	FormatPlayerResultResponse(result *mafia.PlayerResult, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
