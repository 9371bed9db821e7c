package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdatesTotal         *prometheus.CounterVec
	ErrorsTotal          prometheus.Counter
	RateLimited          prometheus.Counter
	SendErrors           prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

// NewMetrics регистрирует метрики в reg; nil создает их без регистрации.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UpdatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_bot_updates_total",
			Help: "Total number of processed updates",
		}, []string{"type"}),

		ErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_panics_total",
			Help: "Total number of recovered panics in update handlers",
		}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_rate_limited_total",
			Help: "Total number of updates dropped by the rate limiter",
		}),

		SendErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "telegram_bot_send_errors_total",
			Help: "Total number of failed outgoing messages",
		}),

		UpdateProcessingTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "telegram_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
