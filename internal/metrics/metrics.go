package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	votesCastTotal    *prometheus.CounterVec
	tallyRunsTotal    *prometheus.CounterVec
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agm",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the voting API.",
		}, []string{"method", "path", "status"})
		votesCastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agm",
			Name:      "votes_cast_total",
			Help:      "Total ballots accepted, by voting method.",
		}, []string{"voting_method"})
		tallyRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agm",
			Name:      "tally_runs_total",
			Help:      "Total tally computations served, by voting method.",
		}, []string{"voting_method"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncVoteCast counts one accepted ballot.
func IncVoteCast(votingMethod string) {
	if votesCastTotal == nil {
		return
	}
	votesCastTotal.WithLabelValues(votingMethod).Inc()
}

// IncTallyRun counts one served tally computation.
func IncTallyRun(votingMethod string) {
	if tallyRunsTotal == nil {
		return
	}
	tallyRunsTotal.WithLabelValues(votingMethod).Inc()
}
