package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Wallet evaluation metrics
	WalletsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_wallets_evaluated_total",
			Help: "Total number of wallets evaluated",
		},
		[]string{"outcome"}, // qualified, dropped_pnl, dropped_realized, dropped_markets, dropped_wins
	)

	WalletStatsFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_wallet_stats_fetches_total",
			Help: "Total number of wallet stats fetches",
		},
		[]string{"status"}, // success, error
	)

	CompositeScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polysignal_composite_scores",
			Help:    "Distribution of final composite scores for qualified wallets",
			Buckets: []float64{.1, .2, .3, .4, .5, .52, .57, .6, .65, .7, .8, .9, 1},
		},
	)

	// Analysis run metrics
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"}, // success, error
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "polysignal_analysis_duration_seconds",
			Help:    "Duration of full market analysis runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	SignalsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_signals_emitted_total",
			Help: "Total number of signals emitted",
		},
		[]string{"signal", "strength"}, // BUY_YES/BUY_NO/NO_CLEAR_SIGNAL, STRONG/MODERATE/WEAK/NONE
	)

	ClustersDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "polysignal_clusters_detected_total",
			Help: "Total number of coordinated wallet clusters detected",
		},
	)

	// API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"api", "endpoint", "status"}, // data/gamma, /trades, success/error
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polysignal_api_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"api", "endpoint"},
	)

	// Database metrics
	DatabaseQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"}, // insert/get, success/error
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "polysignal_database_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Alert metrics
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_alerts_sent_total",
			Help: "Total number of signal alerts sent",
		},
		[]string{"status", "type"}, // success/error, discord/smtp/log
	)

	// System health
	HealthChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polysignal_health_checks_total",
			Help: "Total number of health check requests",
		},
		[]string{"status"}, // healthy/unhealthy
	)
)

// RecordWalletEvaluation records the qualification outcome for a wallet
func RecordWalletEvaluation(outcome string) {
	WalletsEvaluated.WithLabelValues(outcome).Inc()
}

// RecordWalletStatsFetch records a wallet stats fetch attempt
func RecordWalletStatsFetch(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	WalletStatsFetches.WithLabelValues(status).Inc()
}

// RecordCompositeScore records the final score of a qualified wallet
func RecordCompositeScore(score float64) {
	CompositeScores.Observe(score)
}

// RecordAnalysisRun records a full analysis run
func RecordAnalysisRun(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AnalysisRuns.WithLabelValues(status).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordSignal records an emitted signal
func RecordSignal(signal, strength string) {
	SignalsEmitted.WithLabelValues(signal, strength).Inc()
}

// RecordClusters records detected wallet clusters
func RecordClusters(count int) {
	ClustersDetected.Add(float64(count))
}

// RecordAPIRequest records API request metrics
func RecordAPIRequest(api, endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequests.WithLabelValues(api, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(api, endpoint).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueries.WithLabelValues(operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAlert records alert send metrics
func RecordAlert(sendStatus, alertType string) {
	AlertsSent.WithLabelValues(sendStatus, alertType).Inc()
}

// RecordHealthCheck records health check status
func RecordHealthCheck(healthy bool) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	HealthChecks.WithLabelValues(status).Inc()
}
