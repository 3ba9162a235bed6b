// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estoque_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by route class.",
	}, []string{"classe"})

	Movimentacoes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_movimentacoes_total",
		Help: "Stock movements recorded, by type.",
	}, []string{"tipo"})

	UnidadesMovimentadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_unidades_movimentadas_total",
		Help: "Units moved, by movement type.",
	}, []string{"tipo"})

	Rejeicoes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_rejeicoes_total",
		Help: "Stock operations rejected by a business rule, by code.",
	}, []string{"codigo"})

	FlagsReconciliacao = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "estoque_flags_reconciliacao_seconds",
		Help:    "Duration of the global stock flag reconciliation.",
		Buckets: prometheus.DefBuckets,
	})

	EmailJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estoque_email_jobs_total",
		Help: "Email jobs processed, by result (enviado, falha, dlq).",
	}, []string{"resultado"})
)
