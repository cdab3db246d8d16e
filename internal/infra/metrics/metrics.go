package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_desk_api_requests_total",
		Help: "Запросы к backend API по методу, эндпоинту и результату.",
	}, []string{"method", "endpoint", "outcome"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storage_desk_api_request_duration_seconds",
		Help:    "Длительность запросов к backend API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_desk_exports_total",
		Help: "Сформированные отчёты (xlsx/html).",
	}, []string{"report", "format", "outcome"})

	OptimisticDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_desk_optimistic_deletes_total",
		Help: "Оптимистичные удаления по итогу подтверждения backend.",
	}, []string{"outcome"})
)

// Outcome сводит ошибку к метке ok|error.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
