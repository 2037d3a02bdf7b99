// Package metrics exposes prometheus collectors for the request tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sirq_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	Reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirq_reloads_total",
		Help: "Row store reloads by dashboard variant and outcome.",
	}, []string{"variant", "result"})

	RowUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirq_row_updates_total",
		Help: "Row status writes issued by ticket status fan-outs.",
	}, []string{"result"})

	Summaries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirq_summaries_total",
		Help: "AI summary requests by outcome (generated, cached, empty, failed).",
	}, []string{"result"})
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
