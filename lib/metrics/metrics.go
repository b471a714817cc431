package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK                  = "ok"
	ResultMalformedTimestamp  = "malformed_timestamp"
	ResultStructuralViolation = "structural_violation"
	ResultLocationNotFound    = "location_not_found"
	ResultReadError           = "read_error"
)

// Metrics counts parsed reports. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	parses  *prometheus.CounterVec
	lines   prometheus.Counter
	commits prometheus.Counter
	files   prometheus.Counter
}

// New creates the counters in a registry of their own, so more than one can exist.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cvschanges_parses_total",
			Help: "Number of rlog reports parsed, by result.",
		}, []string{"result"}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cvschanges_lines_total",
			Help: "Number of rlog lines read.",
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cvschanges_commits_total",
			Help: "Number of merged commits in parsed change sets.",
		}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cvschanges_files_total",
			Help: "Number of distinct files in parsed change sets.",
		}),
	}

	m.registry.MustRegister(m.parses, m.lines, m.commits, m.files)

	return m
}

func (m *Metrics) ParseFinished(result string, lines, commits, files int) {
	if m == nil {
		return
	}

	m.parses.WithLabelValues(result).Inc()
	m.lines.Add(float64(lines))

	if result == ResultOK {
		m.commits.Add(float64(commits))
		m.files.Add(float64(files))
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
