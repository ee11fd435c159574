package http

import (
	"net/http"

	"github.com/mafclub/ledger/internal/club"
	"github.com/mafclub/ledger/internal/config"
	"github.com/mafclub/ledger/internal/federation"
	"github.com/mafclub/ledger/internal/metrics"
	"github.com/mafclub/ledger/internal/notifier"
	"github.com/mafclub/ledger/internal/pubsub"
	"github.com/mafclub/ledger/internal/rating"
)

func NewServer(
	store club.ClubStore,
	federations federation.FederationService,
	engine *rating.Engine,
	metricsSvc metrics.Metrics,
	counters metrics.MetricsStore,
	metricsHandler http.Handler,
	cfg config.Config,
	notifier notifier.Notifier,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Store:          store,
		Federations:    federations,
		Engine:         engine,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/counters", Chain(s.CountersHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/add", Chain(s.AddPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("/games/record", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("/games/result", Chain(s.SetGameResultHandler(), paramsMiddleware))
	s.Router.Handle("/ratings", Chain(s.ListRatingsHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/create", Chain(s.CreateRatingHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/add-game", Chain(s.AddGameToRatingHandler(), paramsMiddleware))
	s.Router.Handle("/ratings/remove-game", Chain(s.RemoveGameFromRatingHandler(), paramsMiddleware))
	s.Router.Handle("/recompute", Chain(s.RecomputeHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/clubs", Chain(s.ClubsHandler(), paramsMiddleware))
	s.Router.Handle("/federations", Chain(s.FederationsHandler(), paramsMiddleware))
	s.Router.Handle("/federations/assign-club", Chain(s.AssignClubHandler(), paramsMiddleware))
	s.Router.Handle("/pubsub/recompute", Chain(s.RecomputeEventHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/player-stats", Chain(s.PlayerStatsCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
