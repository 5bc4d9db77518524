package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// mail dispatch (best-effort, so metrics are the only success signal)
	MailDispatchDuration *prometheus.HistogramVec
	MailDispatchResults  *prometheus.CounterVec
	MailDispatchInFlight prometheus.Gauge
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reghub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reghub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "reghub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reghub",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reghub",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		MailDispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reghub",
				Subsystem: "mail",
				Name:      "dispatch_duration_seconds",
				Help:      "Confirmation dispatch duration by result",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"result"}, // result=sent|failed|disabled|skipped
		),
		MailDispatchResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reghub",
				Subsystem: "mail",
				Name:      "dispatch_results_total",
				Help:      "Confirmation dispatch outcomes.",
			},
			[]string{"result"},
		),
		MailDispatchInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "reghub",
				Subsystem: "mail",
				Name:      "dispatch_in_flight",
				Help:      "Detached dispatches currently running (per process)",
			},
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.MailDispatchDuration, p.MailDispatchResults, p.MailDispatchInFlight,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveMailDispatch records one detached dispatch attempt.
func (p *Prom) ObserveMailDispatch(result string, elapsed time.Duration) {
	p.MailDispatchResults.WithLabelValues(result).Inc()
	p.MailDispatchDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (p *Prom) MailDispatchStarted() {
	p.MailDispatchInFlight.Inc()
}

func (p *Prom) MailDispatchFinished() {
	p.MailDispatchInFlight.Dec()
}
