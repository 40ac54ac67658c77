package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values shared by the counters below.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

var (
	// PollsTotal counts reconcile cycles by outcome.
	PollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciler_polls_total",
		Help: "Reconcile cycles against the upstream meeting feed, by result.",
	}, []string{"result"})

	// TranscriptFetchesTotal counts transcript fetch attempts by outcome.
	TranscriptFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciler_transcript_fetches_total",
		Help: "Transcript fetch attempts, by result (ok, empty, error).",
	}, []string{"result"})

	// AnalysesTotal counts analysis requests by outcome.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciler_analyses_total",
		Help: "Analysis requests issued after a usable transcript, by result.",
	}, []string{"result"})

	// MeetingsTracked is the size of the local meeting collection.
	MeetingsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reconciler_meetings_tracked",
		Help: "Meetings currently held in the local collection.",
	})

	// TriggerSkipsTotal counts eligible meetings skipped by the process guard.
	TriggerSkipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_trigger_skips_total",
		Help: "Eligible meetings skipped because they were already reserved or exhausted retries.",
	})
)

func init() {
	prometheus.MustRegister(
		PollsTotal,
		TranscriptFetchesTotal,
		AnalysesTotal,
		MeetingsTracked,
		TriggerSkipsTotal,
	)
}

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
