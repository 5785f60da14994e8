package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"exclusioncheck/matching"
)

// Metrics provides observability for snapshot builds, matching and runs.
// All methods are safe on a nil receiver.
type Metrics struct {
	// Match outcomes by kind (person/entity), registry and status
	MatchOutcome *prometheus.CounterVec

	// Review items raised by kind and review source
	ReviewItems *prometheus.CounterVec

	// Snapshot builds by result
	Builds *prometheus.CounterVec

	// Rows written into snapshots by relation
	BuildRows *prometheus.CounterVec

	BuildDuration prometheus.Histogram

	// Screening runs by result
	Runs *prometheus.CounterVec

	// Records screened by category
	ScreenedRecords *prometheus.CounterVec

	RunDuration prometheus.Histogram
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MatchOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_match_outcomes_total",
			Help: "Match outcomes by query kind, registry and status",
		}, []string{"kind", "registry", "status"}),

		ReviewItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_review_items_total",
			Help: "Review items raised by query kind and review source",
		}, []string{"kind", "source"}),

		Builds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_snapshot_builds_total",
			Help: "Reference snapshot builds by result",
		}, []string{"result"}), // result: "success", "exists", "error"

		BuildRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_snapshot_rows_total",
			Help: "Rows written into reference snapshots by relation",
		}, []string{"relation"}),

		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exclusion_snapshot_build_duration_seconds",
			Help:    "Duration of reference snapshot builds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),

		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_screening_runs_total",
			Help: "Screening runs by result",
		}, []string{"result"}),

		ScreenedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exclusion_screened_records_total",
			Help: "Records screened by category",
		}, []string{"category"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exclusion_screening_run_duration_seconds",
			Help:    "Duration of screening runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}
}

// ObserveMatch records one match result. It satisfies matching.Recorder.
func (m *Metrics) ObserveMatch(kind string, result matching.Result) {
	if m == nil {
		return
	}
	m.MatchOutcome.WithLabelValues(kind, "oig", string(result.OIGStatus)).Inc()
	m.MatchOutcome.WithLabelValues(kind, "sam", string(result.SAMStatus)).Inc()
	if result.Review != nil {
		m.ReviewItems.WithLabelValues(kind, result.Review.Source).Inc()
	}
}

// ObserveBuild records a finished snapshot build.
func (m *Metrics) ObserveBuild(result string, d time.Duration, rows map[string]int) {
	if m == nil {
		return
	}
	m.Builds.WithLabelValues(result).Inc()
	if result != "success" {
		return
	}
	m.BuildDuration.Observe(d.Seconds())
	for relation, n := range rows {
		m.BuildRows.WithLabelValues(relation).Add(float64(n))
	}
}

// ObserveRun records a finished screening run and its per-category sizes.
func (m *Metrics) ObserveRun(result string, d time.Duration, records map[string]int) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(result).Inc()
	m.RunDuration.Observe(d.Seconds())
	for category, n := range records {
		m.ScreenedRecords.WithLabelValues(category).Add(float64(n))
	}
}
