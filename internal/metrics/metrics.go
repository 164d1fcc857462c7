// Package metrics holds the Prometheus registry served on /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

var (
	ESPNRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameday",
		Name:      "espn_requests_total",
		Help:      "ESPN fantasy API requests by view and outcome",
	}, []string{"view", "outcome"})

	ESPNRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gameday",
		Name:      "espn_request_duration_seconds",
		Help:      "ESPN fantasy API request latency, retries included",
		Buckets:   prometheus.DefBuckets,
	}, []string{"view"})

	BotCommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameday",
		Name:      "bot_commands_total",
		Help:      "Telegram commands handled",
	}, []string{"command"})

	ScheduledJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameday",
		Name:      "scheduled_jobs_total",
		Help:      "Scheduled report runs by job and outcome",
	}, []string{"job", "outcome"})

	WinProbabilityCalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameday",
		Name:      "win_probability_calculations_total",
		Help:      "Matchup win probability estimates by input kind",
	}, []string{"kind"})
)

func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			ESPNRequestsTotal,
			ESPNRequestDuration,
			BotCommandsTotal,
			ScheduledJobsTotal,
			WinProbabilityCalculationsTotal,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
	return registry
}

func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
