package mafia

import "errors"

// ErrScopeNotFound is returned when a recompute targets a rating id that does
// not exist. The reserved ScopeOverall id never produces it.
var ErrScopeNotFound = errors.New("scope not found")

// Role represents the role a player is dealt for a single game.
type Role string

const (
	RoleCivilian Role = "CIVILIAN"
	RoleSheriff  Role = "SHERIFF"
	RoleMafia    Role = "MAFIA"
	RoleDon      Role = "DON"
)

// ValidRole reports whether r is one of the four playable roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCivilian, RoleSheriff, RoleMafia, RoleDon:
		return true
	}
	return false
}

// Faction returns the side a role plays for.
func (r Role) Faction() Faction {
	switch r {
	case RoleMafia, RoleDon:
		return FactionMafia
	default:
		return FactionCivilian
	}
}

// Faction is the side of the table a role belongs to.
type Faction string

const (
	FactionCivilian Faction = "CIVILIAN"
	FactionMafia    Faction = "MAFIA"
)

// GameResult is the declared outcome of a finished game. The empty string
// means the result has not been entered yet; such games still count towards
// games played but never towards wins.
type GameResult string

const (
	ResultUnknown      GameResult = ""
	ResultCiviliansWin GameResult = "CIVILIANS_WIN"
	ResultMafiaWin     GameResult = "MAFIA_WIN"
	ResultDraw         GameResult = "DRAW"
)

// Game represents a single played game of Mafia.
type Game struct {
	ID        string
	ClubID    string
	Result    GameResult
	PlayedAt  int64
	CreatedAt int64
	Seats     []Seat
}

// Seat is one player's participation in one game. ExtraPoints carries the raw
// judge-entered bonus value exactly as it was recorded; historical data holds
// everything from clean numbers to concatenations of several decimals, so it
// is kept untyped until the rating engine normalizes it.
type Seat struct {
	GameID      string
	Slot        int
	PlayerID    string
	Role        Role
	Fouls       int
	ExtraPoints any
}

// SeatResult pairs a seat with the declared result of its game. It is the row
// shape the rating engine folds over.
type SeatResult struct {
	Seat   Seat
	Result GameResult
}

// Rating is a curated subset of games over which statistics are aggregated.
type Rating struct {
	ID        string
	Name      string
	CreatedAt int64
}

// ScopeOverall is the reserved scope id for the unscoped "all games"
// aggregate. It is always a valid recompute target.
const ScopeOverall = "overall"

// PlayerResult is the persisted per-player snapshot for one scope. The whole
// set for a scope is replaced on every recompute, so it is always a pure
// function of the current game data.
type PlayerResult struct {
	ScopeID      string  `json:"scope_id"`
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name,omitempty"`
	GamesPlayed  int     `json:"games_played"`
	Wins         int     `json:"wins"`
	CivilianWins int     `json:"civilian_wins"`
	MafiaWins    int     `json:"mafia_wins"`
	DonGames     int     `json:"don_games"`
	SheriffGames int     `json:"sheriff_games"`
	FirstOuts    int     `json:"first_outs"`
	Fouls        int     `json:"fouls"`
	Points       float64 `json:"points"`
	WinRate      float64 `json:"win_rate"`
}

// Player is a registered club member.
type Player struct {
	ID        string
	Name      string
	ClubID    string
	CreatedAt int64
}
