package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are package-level so they register exactly once per process no
// matter how many Metrics handles tests construct.
var (
	topicsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quorum_topics_created_total",
		Help: "Total number of voting topics created",
	})
	sessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quorum_sessions_opened_total",
		Help: "Total number of voting sessions opened",
	})
	votesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_votes_cast_total",
		Help: "Vote casting attempts by outcome",
	}, []string{"outcome"})
	eligibilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quorum_eligibility_checks_total",
		Help: "Remote eligibility check results by status",
	}, []string{"status"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quorum_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// Metrics is the handle services and middleware use to record measurements.
type Metrics struct{}

// New returns the process metrics handle.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) TopicCreated()  { topicsCreated.Inc() }
func (m *Metrics) SessionOpened() { sessionsOpened.Inc() }

// VoteCast records a vote attempt outcome: "accepted" or a rejection reason.
func (m *Metrics) VoteCast(outcome string) {
	votesCast.WithLabelValues(outcome).Inc()
}

// EligibilityCheck records the status returned by the remote checker.
func (m *Metrics) EligibilityCheck(status string) {
	eligibilityChecks.WithLabelValues(status).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	requestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
