package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsAuthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_authorized_total",
		Help: "Payments authorized by the acquiring bank",
	})

	PaymentsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_declined_total",
		Help: "Payments declined by the acquiring bank",
	})

	PaymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_rejected_total",
		Help: "Payment requests rejected by validation",
	})

	BankUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "acquiring_bank_unavailable_total",
		Help: "Authorization attempts that failed because the acquiring bank was unreachable",
	})

	BankRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "acquiring_bank_request_duration_seconds",
		Help:    "Round-trip latency of acquiring bank authorization calls",
		Buckets: prometheus.DefBuckets,
	})
)
