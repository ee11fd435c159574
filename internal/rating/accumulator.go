package rating

import (
	"math"
	"sort"

	"github.com/mafclub/ledger/internal/mafia"
)

// PlayerTotals is the running per-player state while folding a scope's seats.
// Points stay unrounded here; rounding happens once, in Finalize, so the error
// never compounds across games.
type PlayerTotals struct {
	PlayerID     string
	GamesPlayed  int
	Wins         int
	CivilianWins int
	MafiaWins    int
	DonGames     int
	SheriffGames int
	FirstOuts    int
	Fouls        int
	Points       float64
}

// Accumulator folds (seat, result) rows into per-player totals. It is owned by
// exactly one recompute invocation and never shared, which is what keeps
// concurrent recomputes for different scopes independent. Addition is
// commutative and associative, so the fold order does not matter and partial
// accumulators can be merged.
type Accumulator struct {
	totals map[string]*PlayerTotals
}

func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[string]*PlayerTotals)}
}

// Add folds a single seat into the totals.
func (a *Accumulator) Add(seat mafia.Seat, result mafia.GameResult) {
	t, ok := a.totals[seat.PlayerID]
	if !ok {
		t = &PlayerTotals{PlayerID: seat.PlayerID}
		a.totals[seat.PlayerID] = t
	}

	t.GamesPlayed++
	t.Fouls += seat.Fouls
	t.Points += NormalizePoints(seat.ExtraPoints)

	outcome := Classify(seat.Role, result)
	if outcome.Win {
		t.Wins++
		t.Points += WinBonus
		switch outcome.Bucket {
		case BucketCivilianWin:
			t.CivilianWins++
		case BucketMafiaWin:
			t.MafiaWins++
		}
	}

	switch seat.Role {
	case mafia.RoleDon:
		t.DonGames++
	case mafia.RoleSheriff:
		t.SheriffGames++
	}

	// FirstOuts stays at zero: the seat data does not carry a reliable
	// "first eliminated" fact yet. The column is kept so the snapshot shape
	// does not change when it arrives.
}

// Merge folds another accumulator's totals into this one with plain addition.
// Used to combine per-shard partial sums from a parallel fold.
func (a *Accumulator) Merge(other *Accumulator) {
	for id, o := range other.totals {
		t, ok := a.totals[id]
		if !ok {
			t = &PlayerTotals{PlayerID: id}
			a.totals[id] = t
		}
		t.GamesPlayed += o.GamesPlayed
		t.Wins += o.Wins
		t.CivilianWins += o.CivilianWins
		t.MafiaWins += o.MafiaWins
		t.DonGames += o.DonGames
		t.SheriffGames += o.SheriffGames
		t.FirstOuts += o.FirstOuts
		t.Fouls += o.Fouls
		t.Points += o.Points
	}
}

// Len returns the number of distinct players accumulated so far.
func (a *Accumulator) Len() int {
	return len(a.totals)
}

// Totals returns the running totals for a player, or nil if the player has
// not been seen. Exposed for tests and diagnostics.
func (a *Accumulator) Totals(playerID string) *PlayerTotals {
	return a.totals[playerID]
}

// Finalize builds the persisted snapshot for a scope: one row per player,
// sorted by player id so repeated recomputes produce identical sets, points
// rounded to two decimals at this boundary only.
func (a *Accumulator) Finalize(scopeID string) []mafia.PlayerResult {
	results := make([]mafia.PlayerResult, 0, len(a.totals))
	for _, t := range a.totals {
		r := mafia.PlayerResult{
			ScopeID:      scopeID,
			PlayerID:     t.PlayerID,
			GamesPlayed:  t.GamesPlayed,
			Wins:         t.Wins,
			CivilianWins: t.CivilianWins,
			MafiaWins:    t.MafiaWins,
			DonGames:     t.DonGames,
			SheriffGames: t.SheriffGames,
			FirstOuts:    t.FirstOuts,
			Fouls:        t.Fouls,
			Points:       roundPoints(t.Points),
		}
		if t.GamesPlayed > 0 {
			r.WinRate = roundPoints(float64(t.Wins) / float64(t.GamesPlayed) * 100)
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].PlayerID < results[j].PlayerID
	})
	return results
}

func roundPoints(f float64) float64 {
	return math.Round(f*100) / 100
}
