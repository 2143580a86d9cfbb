package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion pipeline

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncaab_api_calls_total",
			Help: "Total number of ESPN API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ncaab_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ncaab_cache_hits_total",
			Help: "Total number of payload cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ncaab_cache_misses_total",
			Help: "Total number of payload cache misses",
		},
	)

	// Pipeline metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncaab_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"gender", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ncaab_pipeline_run_duration_seconds",
			Help:    "Duration of pipeline runs in seconds",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"gender"},
	)

	TeamsDiscovered = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ncaab_teams_discovered",
			Help: "Number of teams discovered in the last run",
		},
		[]string{"gender"},
	)

	GamesParsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ncaab_games_parsed",
			Help: "Number of games parsed in the last run",
		},
		[]string{"gender"},
	)

	GamesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncaab_games_dropped_total",
			Help: "Total number of games dropped as unparseable",
		},
		[]string{"gender", "reason"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncaab_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ncaab_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ncaab_last_successful_run_timestamp",
			Help: "Timestamp of the last successful pipeline run",
		},
		[]string{"gender"},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordRun records a pipeline run
func RecordRun(gender, status string, duration float64) {
	RunsTotal.WithLabelValues(gender, status).Inc()
	RunDuration.WithLabelValues(gender).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.WithLabelValues(gender).SetToCurrentTime()
	}
}

// RecordDroppedGame records a game dropped as unparseable
func RecordDroppedGame(gender, reason string) {
	GamesDropped.WithLabelValues(gender, reason).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateRunStats updates the per-run gauges
func UpdateRunStats(gender string, teams, games int) {
	TeamsDiscovered.WithLabelValues(gender).Set(float64(teams))
	GamesParsed.WithLabelValues(gender).Set(float64(games))
}
