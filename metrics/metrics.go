package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the booking site
type Metrics struct {
	Registrations     *prometheus.CounterVec
	Logins            *prometheus.CounterVec
	DraftsCreated     prometheus.Counter
	BookingsFinalized *prometheus.CounterVec
	FinalizeFailures  *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_registrations_total",
			Help: "Registration attempts by result",
		}, []string{"result"}),

		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),

		DraftsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "salon_booking_drafts_total",
			Help: "Booking drafts stored in sessions",
		}),

		BookingsFinalized: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_bookings_finalized_total",
			Help: "Bookings persisted after payment, by payment method",
		}, []string{"payment_method"}),

		FinalizeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_finalize_failures_total",
			Help: "Failed payment submissions by reason",
		}, []string{"reason"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salon_request_duration_seconds",
			Help:    "Page handler latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// PaymentMethodLabel maps a submitted payment method onto the fixed label set
// of BookingsFinalized.
func PaymentMethodLabel(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "cash":
		return "cash"
	case "card":
		return "card"
	case "mobile":
		return "mobile"
	default:
		return "other"
	}
}
