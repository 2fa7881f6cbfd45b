// Package metrics registra los contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los instrumentos expuestos en /metrics.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	SessionsStarted prometheus.Counter
}

// New crea y registra los instrumentos en el registry por defecto.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "simulacro_http_requests_total",
			Help: "Total de requests HTTP por método, ruta y status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simulacro_http_request_duration_seconds",
			Help:    "Duración de requests HTTP por ruta",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "simulacro_sessions_started_total",
			Help: "Total de sesiones de inscripción iniciadas",
		}),
	}
}
