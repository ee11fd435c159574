package rating_test

import (
	"math/rand"
	"testing"

	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seat(playerID string, role mafia.Role, fouls int, extra any) mafia.Seat {
	return mafia.Seat{PlayerID: playerID, Role: role, Fouls: fouls, ExtraPoints: extra}
}

func TestAccumulatorWinAddsBonusOnTopOfExtras(t *testing.T) {
	acc := rating.NewAccumulator()
	acc.Add(seat("p1", mafia.RoleCivilian, 0, "0.3"), mafia.ResultCiviliansWin)

	totals := acc.Totals("p1")
	require.NotNil(t, totals)
	assert.Equal(t, 1, totals.GamesPlayed)
	assert.Equal(t, 1, totals.Wins)
	assert.Equal(t, 1, totals.CivilianWins)
	assert.Equal(t, 0, totals.MafiaWins)
	assert.InDelta(t, 1.3, totals.Points, 1e-9)
}

func TestAccumulatorLossKeepsExtras(t *testing.T) {
	acc := rating.NewAccumulator()
	acc.Add(seat("p1", mafia.RoleMafia, 2, 0.4), mafia.ResultCiviliansWin)

	totals := acc.Totals("p1")
	require.NotNil(t, totals)
	assert.Equal(t, 1, totals.GamesPlayed)
	assert.Equal(t, 0, totals.Wins)
	assert.Equal(t, 2, totals.Fouls)
	assert.InDelta(t, 0.4, totals.Points, 1e-9)
}

func TestAccumulatorRoleCounters(t *testing.T) {
	acc := rating.NewAccumulator()
	acc.Add(seat("p1", mafia.RoleDon, 0, nil), mafia.ResultMafiaWin)
	acc.Add(seat("p1", mafia.RoleDon, 0, nil), mafia.ResultMafiaWin)
	acc.Add(seat("p1", mafia.RoleDon, 0, nil), mafia.ResultCiviliansWin)
	acc.Add(seat("p1", mafia.RoleSheriff, 0, nil), mafia.ResultCiviliansWin)
	acc.Add(seat("p1", mafia.RoleCivilian, 0, nil), mafia.ResultMafiaWin)

	totals := acc.Totals("p1")
	require.NotNil(t, totals)
	assert.Equal(t, 5, totals.GamesPlayed)
	assert.Equal(t, 3, totals.DonGames)
	assert.Equal(t, 1, totals.SheriffGames)
	assert.Equal(t, 3, totals.Wins)
	assert.Equal(t, 2, totals.MafiaWins)
	assert.Equal(t, 1, totals.CivilianWins)
}

func TestAccumulatorFirstOutsStaysZero(t *testing.T) {
	acc := rating.NewAccumulator()
	for i := 0; i < 10; i++ {
		acc.Add(seat("p1", mafia.RoleCivilian, 1, "0.5"), mafia.ResultCiviliansWin)
	}
	results := acc.Finalize("overall")
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].FirstOuts)
}

func TestAccumulatorOrderIndependence(t *testing.T) {
	rows := []mafia.SeatResult{
		{Seat: seat("p1", mafia.RoleCivilian, 1, "0.3"), Result: mafia.ResultCiviliansWin},
		{Seat: seat("p1", mafia.RoleDon, 0, "0,4"), Result: mafia.ResultMafiaWin},
		{Seat: seat("p2", mafia.RoleSheriff, 2, nil), Result: mafia.ResultMafiaWin},
		{Seat: seat("p2", mafia.RoleMafia, 0, 0.7), Result: mafia.ResultDraw},
		{Seat: seat("p3", mafia.RoleCivilian, 0, "garbage"), Result: mafia.ResultUnknown},
	}

	fold := func(rows []mafia.SeatResult) []mafia.PlayerResult {
		acc := rating.NewAccumulator()
		for _, row := range rows {
			acc.Add(row.Seat, row.Result)
		}
		return acc.Finalize("scope-a")
	}

	expected := fold(rows)
	for i := 0; i < 20; i++ {
		shuffled := make([]mafia.SeatResult, len(rows))
		copy(shuffled, rows)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, expected, fold(shuffled))
	}
}

func TestAccumulatorMergeMatchesSequentialFold(t *testing.T) {
	rows := make([]mafia.SeatResult, 0, 100)
	players := []string{"p1", "p2", "p3", "p4"}
	roles := []mafia.Role{mafia.RoleCivilian, mafia.RoleSheriff, mafia.RoleMafia, mafia.RoleDon}
	results := []mafia.GameResult{mafia.ResultCiviliansWin, mafia.ResultMafiaWin, mafia.ResultDraw, mafia.ResultUnknown}
	for i := 0; i < 100; i++ {
		rows = append(rows, mafia.SeatResult{
			Seat:   seat(players[i%len(players)], roles[i%len(roles)], i%3, "0.1"),
			Result: results[i%len(results)],
		})
	}

	sequential := rating.NewAccumulator()
	for _, row := range rows {
		sequential.Add(row.Seat, row.Result)
	}

	left := rating.NewAccumulator()
	right := rating.NewAccumulator()
	for i, row := range rows {
		if i%2 == 0 {
			left.Add(row.Seat, row.Result)
		} else {
			right.Add(row.Seat, row.Result)
		}
	}
	left.Merge(right)

	assert.Equal(t, sequential.Finalize("s"), left.Finalize("s"))
}

func TestFinalizeRoundsAtTheBoundary(t *testing.T) {
	acc := rating.NewAccumulator()
	// 0.1 added ten times is not exactly 1.0 in floating point; the snapshot
	// must still say 1.0.
	for i := 0; i < 10; i++ {
		acc.Add(seat("p1", mafia.RoleCivilian, 0, 0.1), mafia.ResultDraw)
	}
	results := acc.Finalize("overall")
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Points)
}

func TestFinalizeSortsByPlayerID(t *testing.T) {
	acc := rating.NewAccumulator()
	acc.Add(seat("zed", mafia.RoleCivilian, 0, nil), mafia.ResultDraw)
	acc.Add(seat("anna", mafia.RoleCivilian, 0, nil), mafia.ResultDraw)
	acc.Add(seat("mike", mafia.RoleCivilian, 0, nil), mafia.ResultDraw)

	results := acc.Finalize("overall")
	require.Len(t, results, 3)
	assert.Equal(t, "anna", results[0].PlayerID)
	assert.Equal(t, "mike", results[1].PlayerID)
	assert.Equal(t, "zed", results[2].PlayerID)
}

func TestFinalizeWinRate(t *testing.T) {
	acc := rating.NewAccumulator()
	acc.Add(seat("p1", mafia.RoleCivilian, 0, nil), mafia.ResultCiviliansWin)
	acc.Add(seat("p1", mafia.RoleCivilian, 0, nil), mafia.ResultMafiaWin)
	acc.Add(seat("p1", mafia.RoleCivilian, 0, nil), mafia.ResultDraw)

	results := acc.Finalize("overall")
	require.Len(t, results, 1)
	assert.InDelta(t, 33.33, results[0].WinRate, 0.01)
}
