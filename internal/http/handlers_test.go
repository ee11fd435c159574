package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mafclub/ledger/internal/club"
	"github.com/mafclub/ledger/internal/config"
	"github.com/mafclub/ledger/internal/database"
	"github.com/mafclub/ledger/internal/federation"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/metrics"
	"github.com/mafclub/ledger/internal/notifier"
	"github.com/mafclub/ledger/internal/pubsub"
	"github.com/mafclub/ledger/internal/rating"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, mockNotifier *notifier.MockNotifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	counters := metrics.New(db)
	pubsubClient := pubsub.NewMock("TEST")
	engine := rating.New(clubStore, metricsSvc)
	federations := federation.NewStore(db)

	server := NewServer(clubStore, federations, engine, metricsSvc, counters, metricsHandler, cfg, mockNotifier, pubsubClient)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, pubsubClient, teardown
}

func recordGamePayload(id, result string) map[string]any {
	return map[string]any{
		"id":     id,
		"result": result,
		"seats": []map[string]any{
			{"slot": 1, "player_id": "p1", "player_name": "Anna Weiss", "role": "CIVILIAN", "extra_points": "0.3"},
			{"slot": 2, "player_id": "p2", "player_name": "Boris Katz", "role": "SHERIFF", "fouls": 1},
			{"slot": 3, "player_id": "p3", "player_name": "Clara Ost", "role": "MAFIA"},
			{"slot": 4, "player_id": "p4", "player_name": "Dmitri Volk", "role": "DON", "extra_points": 0.4},
		},
	}
}

func postJSON(t *testing.T, server *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := get(t, server, "/health")
	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestAddAndListPlayersHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/players/add", map[string]string{"id": "p1", "name": "Anna Weiss"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, server, "/players/add", map[string]string{"name": "Boris Katz"})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"], "missing id should be generated")

	rr = get(t, server, "/players")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Anna Weiss")
	assert.Contains(t, rr.Body.String(), "Boris Katz")
}

func TestAddPlayerHandlerRequiresName(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/players/add", map[string]string{"id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordGameHandler(t *testing.T) {
	server, pubsubClient, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/games/record", recordGamePayload("g1", "CIVILIANS_WIN"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Unknown players from the seat payload are registered on the fly.
	assert.True(t, server.Store.IsKnownPlayer("p1"))
	assert.True(t, server.Store.IsKnownPlayer("p4"))

	// A game-recorded event went out.
	require.Len(t, pubsubClient.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventGameRecorded), pubsubClient.SendMessageCalls[0].Topic)

	// The overall snapshot was refreshed synchronously.
	rr = get(t, server, "/leaderboard")
	require.Equal(t, http.StatusOK, rr.Code)
	var results []mafia.PlayerResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 4)
	// Anna won as a civilian: 0.3 extras plus the win bonus.
	assert.Equal(t, "Anna Weiss", results[0].PlayerName)
	assert.Equal(t, 1.3, results[0].Points)
	assert.Equal(t, 1, results[0].CivilianWins)
}

func TestRecordGameHandlerValidation(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/games/record", map[string]any{"id": "g1", "seats": []any{}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	payload := recordGamePayload("g1", "ALIENS_WIN")
	rr = postJSON(t, server, "/games/record", payload)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordGameHandlerDryRun(t *testing.T) {
	server, pubsubClient, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/games/record?dry_run=true", recordGamePayload("g1", "CIVILIANS_WIN"))
	require.Equal(t, http.StatusOK, rr.Code)

	assert.False(t, server.Store.IsKnownPlayer("p1"))
	assert.Empty(t, pubsubClient.SendMessageCalls)
	games, err := server.Store.GetAllGames()
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestSetGameResultHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/games/record", recordGamePayload("g1", ""))
	require.Equal(t, http.StatusOK, rr.Code)

	// No result declared yet: games count, wins do not.
	rr = get(t, server, "/leaderboard")
	var results []mafia.PlayerResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, 1, r.GamesPlayed)
		assert.Zero(t, r.Wins)
	}

	rr = get(t, server, "/games/result?gameID=g1&result=MAFIA_WIN")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = get(t, server, "/leaderboard")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	wins := 0
	for _, r := range results {
		wins += r.Wins
	}
	// The mafia pair won.
	assert.Equal(t, 2, wins)
}

func TestSetGameResultHandlerUnknownGame(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := get(t, server, "/games/result?gameID=nope&result=DRAW")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRatingLifecycle(t *testing.T) {
	server, pubsubClient, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g1", "CIVILIANS_WIN")).Code)
	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g2", "MAFIA_WIN")).Code)
	pubsubClient.Reset()

	rr := get(t, server, "/ratings/create?name=Autumn+Cup")
	require.Equal(t, http.StatusOK, rr.Code)
	var created mafia.Rating
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rr = get(t, server, fmt.Sprintf("/ratings/add-game?ratingID=%s&gameID=g1", created.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// The membership change published a recompute event and refreshed the
	// snapshot synchronously.
	require.Len(t, pubsubClient.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventRecomputeRating), pubsubClient.SendMessageCalls[0].Topic)

	rr = get(t, server, "/leaderboard?scope="+created.ID)
	require.Equal(t, http.StatusOK, rr.Code)
	var results []mafia.PlayerResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, 1, r.GamesPlayed, "only g1 is in the rating")
	}

	rr = get(t, server, fmt.Sprintf("/ratings/remove-game?ratingID=%s&gameID=g1", created.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, server, "/leaderboard?scope="+created.ID)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Empty(t, results, "empty scope clears its snapshot")
}

func TestRatingMembershipUnknownRating(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := get(t, server, "/ratings/add-game?ratingID=no-such&gameID=g1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecomputeHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := get(t, server, "/recompute")
	require.Equal(t, http.StatusOK, rr.Code)
	var outcome rating.RecomputeOutcome
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &outcome))
	assert.Equal(t, rating.StatusCommitted, outcome.Status)
	assert.Equal(t, mafia.ScopeOverall, outcome.ScopeID)

	rr = get(t, server, "/recompute?scope=no-such-scope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecomputeEventHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g1", "CIVILIANS_WIN")).Code)

	payload, err := msgpack.Marshal(&pubsub.RecomputeRequest{ScopeID: mafia.ScopeOverall})
	require.NoError(t, err)
	wrapper := map[string]any{
		"subscription": "projects/test/subscriptions/recompute",
		"message": map[string]any{
			"data": base64.StdEncoding.EncodeToString(payload),
		},
	}

	rr := postJSON(t, server, "/pubsub/recompute", wrapper)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, mockNotifier.SendRecomputeSummaryCalls, 1)
	assert.Equal(t, mafia.ScopeOverall, mockNotifier.SendRecomputeSummaryCalls[0].ScopeName)
	assert.Equal(t, 4, mockNotifier.SendRecomputeSummaryCalls[0].AffectedPlayers)
}

func TestRecomputeEventHandlerBadPayload(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/pubsub/recompute", strings.NewReader("not json"))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	mockNotifier.FormatLeaderboardResponseFunc = func(scopeName string, results []mafia.PlayerResult) (any, error) {
		return slack.NewBlockMessage(), nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	form := url.Values{}
	req, err := http.NewRequest("POST", "/slack/command/leaderboard", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	var foundQuery, notFoundQuery string
	mockNotifier.FormatPlayerResultResponseFunc = func(result *mafia.PlayerResult, query string) (any, error) {
		foundQuery = query
		return slack.NewBlockMessage(), nil
	}
	mockNotifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		notFoundQuery = query
		return slack.NewBlockMessage(), nil
	}
	server, _, teardown := setupTestServer(t, mockNotifier)
	defer teardown()

	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g1", "CIVILIANS_WIN")).Code)

	postCommand := func(text string) *httptest.ResponseRecorder {
		form := url.Values{"text": {text}}
		req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		return rr
	}

	rr := postCommand("anna")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "anna", foundQuery)

	rr = postCommand("ghost player")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ghost player", notFoundQuery)

	rr = postCommand("")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClearStoreHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g1", "CIVILIANS_WIN")).Code)
	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g2", "DRAW")).Code)

	rr := get(t, server, "/clear?gameID=g1")
	require.Equal(t, http.StatusOK, rr.Code)
	games, err := server.Store.GetAllGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g2", games[0].ID)

	rr = get(t, server, "/clear")
	require.Equal(t, http.StatusOK, rr.Code)
	games, err = server.Store.GetAllGames()
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestCountersHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	require.Equal(t, http.StatusOK, postJSON(t, server, "/games/record", recordGamePayload("g1", "DRAW")).Code)

	rr := get(t, server, "/counters")
	require.Equal(t, http.StatusOK, rr.Code)
	var counters map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counters))
	assert.Equal(t, 1, counters[metrics.KeyGamesRecorded])
}

func TestFederationAndClubHandlers(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/federations?name=NMF", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var fed federation.Federation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fed))

	rr = postJSON(t, server, "/clubs?name=Night+Owls&city=Berlin", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var c federation.Club
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	assert.Equal(t, "Berlin", c.City)

	rr = get(t, server, fmt.Sprintf("/federations/assign-club?clubID=%s&federationID=%s", c.ID, fed.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = get(t, server, "/clubs")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), fed.ID)
}
