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

type Server struct {
	Store          club.ClubStore
	Federations    federation.FederationService
	Engine         *rating.Engine
	Metrics        metrics.Metrics
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
