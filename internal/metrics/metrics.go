package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClicksRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clicks_recorded_total",
		Help: "Click events recorded.",
	})
	ViewsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "views_recorded_total",
		Help: "View events recorded.",
	})
	IngestRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rejected_total",
		Help: "Ingestion requests rejected by reason.",
	}, []string{"reason"})
	TopQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "top_queries_total",
		Help: "Ranking queries by mode.",
	}, []string{"mode"})
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rate_limited_total",
		Help: "Ingestion requests dropped by the rate limiter.",
	})
	DailyRowsPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_rows_pruned_total",
		Help: "Daily counter rows removed by retention.",
	})
)

func init() {
	prometheus.MustRegister(ClicksRecorded, ViewsRecorded, IngestRejected, TopQueries, RateLimited, DailyRowsPruned)
}

func Handler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
