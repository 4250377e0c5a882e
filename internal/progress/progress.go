// Package progress reports long mining runs to logs and metrics.
package progress

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/agentic-research/patternmine/internal/lattice"
	"github.com/agentic-research/patternmine/internal/rules"
)

// Reporter receives periodic traversal progress and the final statistics of
// each mined board.
type Reporter interface {
	Progress(board string, p lattice.Progress)
	Finished(board string, stats rules.Stats)
}

// Func adapts r to the callback of rules.Options for one board.
func Func(r Reporter, board string) func(lattice.Progress) {
	return func(p lattice.Progress) { r.Progress(board, p) }
}

// LogReporter writes progress as structured log entries.
type LogReporter struct {
	log logrus.FieldLogger
}

// NewLogReporter logs through log.
func NewLogReporter(log logrus.FieldLogger) *LogReporter {
	return &LogReporter{log: log}
}

// Progress logs one periodic NextClosure report.
func (r *LogReporter) Progress(board string, p lattice.Progress) {
	r.log.WithFields(logrus.Fields{
		"board":        board,
		"iteration":    p.Iteration,
		"implications": p.Implications,
		"current":      p.Current.Cardinality(),
		"elapsed":      p.Elapsed.Round(time.Millisecond).String(),
	}).Info("next closure progress")
}

// Finished logs the summary of a board.
func (r *LogReporter) Finished(board string, stats rules.Stats) {
	r.log.WithFields(logrus.Fields{
		"board":        board,
		"solutions":    stats.Solutions,
		"attributes":   stats.Attributes,
		"implications": stats.Implications,
		"rules":        stats.Rules,
		"rejected":     stats.Rejected,
		"elapsed":      stats.Elapsed.String(),
	}).Info("board finished")
}

// MetricsReporter exports progress as prometheus metrics labelled by board.
type MetricsReporter struct {
	iterations   *prometheus.GaugeVec
	implications *prometheus.GaugeVec
	solutions    *prometheus.GaugeVec
	elapsed      *prometheus.GaugeVec
	outcomes     *prometheus.CounterVec
}

// NewMetricsReporter registers its collectors on reg.
func NewMetricsReporter(reg prometheus.Registerer) *MetricsReporter {
	f := promauto.With(reg)
	return &MetricsReporter{
		iterations: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patternmine_closure_iterations",
			Help: "NextClosure iterations completed",
		}, []string{"board"}),
		implications: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patternmine_implications",
			Help: "Implications found so far",
		}, []string{"board"}),
		solutions: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patternmine_solutions",
			Help: "Solutions in the formal context of the last run",
		}, []string{"board"}),
		elapsed: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patternmine_elapsed_seconds",
			Help: "Time spent mining the board",
		}, []string{"board"}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patternmine_implications_total",
			Help: "Decoded implications by outcome",
		}, []string{"board", "outcome"}),
	}
}

// Progress updates the per-board gauges.
func (r *MetricsReporter) Progress(board string, p lattice.Progress) {
	r.iterations.WithLabelValues(board).Set(float64(p.Iteration))
	r.implications.WithLabelValues(board).Set(float64(p.Implications))
	r.elapsed.WithLabelValues(board).Set(p.Elapsed.Seconds())
}

// Finished records final gauges and adds the outcome counts.
func (r *MetricsReporter) Finished(board string, stats rules.Stats) {
	r.implications.WithLabelValues(board).Set(float64(stats.Implications))
	r.solutions.WithLabelValues(board).Set(float64(stats.Solutions))
	r.elapsed.WithLabelValues(board).Set(stats.Elapsed.Seconds())
	r.outcomes.WithLabelValues(board, "rule").Add(float64(stats.Rules))
	r.outcomes.WithLabelValues(board, "contradicted").Add(float64(stats.Contradicted))
	r.outcomes.WithLabelValues(board, "noop").Add(float64(stats.NoOps))
	r.outcomes.WithLabelValues(board, "rejected").Add(float64(stats.Rejected))
}

// Chain fans out to several reporters.
type Chain []Reporter

// Progress forwards to every reporter in order.
func (c Chain) Progress(board string, p lattice.Progress) {
	for _, r := range c {
		r.Progress(board, p)
	}
}

// Finished forwards to every reporter in order.
func (c Chain) Finished(board string, stats rules.Stats) {
	for _, r := range c {
		r.Finished(board, stats)
	}
}
