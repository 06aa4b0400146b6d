package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/vigil/internal/finding"
)

// Recorder owns a registry and the instruments registered in it. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	AnalyzerDuration *prometheus.HistogramVec
	FindingsTotal    *prometheus.CounterVec
	FilesScanned     prometheus.Counter
	FilesSkipped     prometheus.Counter
	ToolErrors       *prometheus.CounterVec
	ToolsSkipped     *prometheus.CounterVec
	Suppressed       *prometheus.CounterVec
	Score            prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		AnalyzerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vigil_analyzer_seconds",
			Help:    "Time spent running one analyzer.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		FindingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_findings_total",
			Help: "Findings reported after deduplication.",
		}, []string{"severity", "category"}),
		FilesScanned: f.NewCounter(prometheus.CounterOpts{
			Name: "vigil_files_scanned_total",
			Help: "Files scanned by the rule engine.",
		}),
		FilesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "vigil_files_skipped_total",
			Help: "Files the rule engine could not read.",
		}),
		ToolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_tool_errors_total",
			Help: "Analyzer runs that failed or timed out.",
		}, []string{"tool"}),
		ToolsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_tools_skipped_total",
			Help: "Analyzers skipped as unavailable or irrelevant.",
		}, []string{"tool"}),
		Suppressed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_suppressed_matches_total",
			Help: "Rule matches dropped by a false-positive filter.",
		}, []string{"filter"}),
		Score: f.NewGauge(prometheus.GaugeOpts{
			Name: "vigil_score",
			Help: "Score of the most recent run.",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveAnalyzer records how long tool ran.
func (r *Recorder) ObserveAnalyzer(tool string, d time.Duration) {
	if r == nil {
		return
	}
	r.AnalyzerDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ToolFailed counts a failed or timed out analyzer run.
func (r *Recorder) ToolFailed(tool string) {
	if r == nil {
		return
	}
	r.ToolErrors.WithLabelValues(tool).Inc()
}

// ToolSkipped counts an analyzer that did not run.
func (r *Recorder) ToolSkipped(tool string) {
	if r == nil {
		return
	}
	r.ToolsSkipped.WithLabelValues(tool).Inc()
}

// ScanStats records the rule engine's file and suppression counters.
func (r *Recorder) ScanStats(files, skipped int, suppressed map[string]int) {
	if r == nil {
		return
	}
	r.FilesScanned.Add(float64(files))
	r.FilesSkipped.Add(float64(skipped))
	for name, n := range suppressed {
		r.Suppressed.WithLabelValues(name).Add(float64(n))
	}
}

// Findings counts the final findings by severity and category.
func (r *Recorder) Findings(fs []finding.StaticFinding) {
	if r == nil {
		return
	}
	for _, f := range fs {
		r.FindingsTotal.WithLabelValues(string(f.Severity), string(f.Category)).Inc()
	}
}

// SetScore records the run's score.
func (r *Recorder) SetScore(score int) {
	if r == nil {
		return
	}
	r.Score.Set(float64(score))
}

// WriteTextfile writes the registry in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
