package metrics

import (
	"time"

	"GISourceSync/internal/reconcile"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gisource_sync"

// Metrics 对齐任务的运行指标
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Summary
	fetchTotal    *prometheus.CounterVec
	sourceRows    *prometheus.GaugeVec
	lastRun       *prometheus.GaugeVec
	lastSuccessTS prometheus.Gauge
}

// New 创建并注册指标；测试中传入独立的 prometheus.NewRegistry()
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of reconcile runs by status",
		}, []string{"status"}),
		runDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent fetching and reconciling both sources",
		}),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetch_total",
			Help:      "Number of source fetches by source and status",
		}, []string{"source", "status"}),
		sourceRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_rows",
			Help:      "Rows returned by the last fetch of each source",
		}, []string{"source"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_rows",
			Help:      "Row counters of the last successful reconcile run",
		}, []string{"stat"}),
		lastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful reconcile run",
		}),
	}
	reg.MustRegister(m.runsTotal, m.runDuration, m.fetchTotal, m.sourceRows, m.lastRun, m.lastSuccessTS)
	return m
}

// ObserveFetch 记录一次数据源读取
func (m *Metrics) ObserveFetch(source string, rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.fetchTotal.WithLabelValues(source, "error").Inc()
		return
	}
	m.fetchTotal.WithLabelValues(source, "ok").Inc()
	m.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// ObserveRun 记录一次完整的对齐
func (m *Metrics) ObserveRun(stats reconcile.Stats, elapsed time.Duration, err error, now time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.runsTotal.WithLabelValues("error").Inc()
		return
	}
	m.runsTotal.WithLabelValues("ok").Inc()
	m.lastSuccessTS.Set(float64(now.Unix()))

	for stat, v := range map[string]int{
		"catalog":              stats.CatalogRows,
		"verification":         stats.VerificationRows,
		"skipped_deleted":      stats.SkippedDeleted,
		"rejected_empty_keys":  stats.RejectedEmptyKeys,
		"unmatched_catalog":    stats.UnmatchedCatalog,
		"joined_pairs":         stats.JoinedPairs,
		"dropped_by_verifier":  stats.DroppedByVerifier,
		"unresolved_deadlines": stats.UnresolvedDeadlines,
		"negative_lead_times":  stats.NegativeLeadTimes,
		"entries":              stats.Entries,
	} {
		m.lastRun.WithLabelValues(stat).Set(float64(v))
	}
}
