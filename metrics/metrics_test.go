package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsUsesGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Registrations.WithLabelValues("ok").Inc()
	m.BookingsFinalized.WithLabelValues("cash").Add(2)
	m.DraftsCreated.Inc()

	if got := testutil.ToFloat64(m.BookingsFinalized.WithLabelValues("cash")); got != 2 {
		t.Fatalf("expected 2 cash bookings, got %v", got)
	}
	if got := testutil.ToFloat64(m.DraftsCreated); got != 1 {
		t.Fatalf("expected 1 draft, got %v", got)
	}

	// A second set on a fresh registry must not collide
	NewMetrics(prometheus.NewRegistry())
}

func TestPaymentMethodLabelIsBounded(t *testing.T) {
	cases := map[string]string{
		"cash":              "cash",
		" Card ":            "card",
		"mobile":            "mobile",
		"":                  "other",
		"bitcoin":           "other",
		"x-1234-attacker-5": "other",
	}
	for in, want := range cases {
		if got := PaymentMethodLabel(in); got != want {
			t.Fatalf("PaymentMethodLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
