package server

import (
	"context"
	"net/http"
	"time"

	"salon-booking/metrics"
)

// timed records handler latency under route
func timed(m *metrics.Metrics, route string, next func(context.Context, http.ResponseWriter, *http.Request)) func(context.Context, http.ResponseWriter, *http.Request) {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(ctx, w, r)
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
