package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	GamesRecorded      prometheus.Counter
	RecomputeRuns      prometheus.Counter
	RecomputeFailures  prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Counter keys for the durable DB-backed store.
const (
	KeyGamesRecorded  = "games_recorded"
	KeyRecomputeRuns  = "recompute_runs"
	KeyRatingsCreated = "ratings_created"
)
