package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricRankDuration       = "ranker_rank_duration_seconds"
	MetricRankRequestsTotal  = "ranker_rank_requests_total"
	MetricCandidatesScored   = "ranker_candidates_scored_total"
	MetricDegradedCandidates = "ranker_degraded_candidates_total"
	MetricRebuildsTotal      = "ranker_graph_rebuilds_total"
	MetricRebuildDuration    = "ranker_graph_rebuild_duration_seconds"
	MetricSnapshotSkills     = "ranker_snapshot_skills"
	MetricSnapshotCandidates = "ranker_snapshot_candidates"
)

// Status label values
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusRejected = "rejected"
	StatusCanceled = "canceled"
)

// Metrics contains Prometheus metrics for ranking and rebuilds.
// The metrics are not registered; call Register to register them with a registry.
type Metrics struct {
	rankDuration       prometheus.Histogram
	rankRequests       *prometheus.CounterVec
	candidatesScored   prometheus.Counter
	degradedCandidates *prometheus.CounterVec
	rebuilds           *prometheus.CounterVec
	rebuildDuration    prometheus.Histogram
	snapshotSkills     prometheus.Gauge
	snapshotCandidates prometheus.Gauge
}

// NewMetrics creates a Metrics instance with all collectors initialized
func NewMetrics() *Metrics {
	return &Metrics{
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of ranking query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		rankRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankRequestsTotal,
				Help: "Total number of ranking queries by status",
			},
			[]string{"status"},
		),
		candidatesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricCandidatesScored,
			Help: "Total number of candidates that reached score composition",
		}),
		degradedCandidates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDegradedCandidates,
				Help: "Total number of candidates scored with a data gap, by field",
			},
			[]string{"field"},
		),
		rebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRebuildsTotal,
				Help: "Total number of snapshot rebuilds by status",
			},
			[]string{"status"},
		),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRebuildDuration,
			Help:    "Histogram of snapshot rebuild duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0, 60.0},
		}),
		snapshotSkills: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricSnapshotSkills,
			Help: "Number of distinct skills in the active snapshot graph",
		}),
		snapshotCandidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricSnapshotCandidates,
			Help: "Number of candidates in the active snapshot",
		}),
	}
}

// Register registers all metrics with the given registry
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rankDuration,
		m.rankRequests,
		m.candidatesScored,
		m.degradedCandidates,
		m.rebuilds,
		m.rebuildDuration,
		m.snapshotSkills,
		m.snapshotCandidates,
	}
}

func (m *Metrics) observeRank(status string, seconds float64, scored int) {
	m.rankRequests.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.rankDuration.Observe(seconds)
		m.candidatesScored.Add(float64(scored))
	}
}

func (m *Metrics) incDegraded(field string) {
	m.degradedCandidates.WithLabelValues(field).Inc()
}

func (m *Metrics) observeRebuild(status string, seconds float64) {
	m.rebuilds.WithLabelValues(status).Inc()
	m.rebuildDuration.Observe(seconds)
}

func (m *Metrics) setSnapshot(skills, candidates int) {
	m.snapshotSkills.Set(float64(skills))
	m.snapshotCandidates.Set(float64(candidates))
}
