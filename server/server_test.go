package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salon-booking/config"
	"salon-booking/metrics"
	"salon-booking/sessions"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTimedObservesLatency(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	called := false
	h := timed(m, "index", func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called || rec.Code != http.StatusTeapot {
		t.Fatalf("wrapped handler not called, code %d", rec.Code)
	}
	if n := testutil.CollectAndCount(m.RequestDuration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestMemorySessionManager(t *testing.T) {
	InitLogger()

	cfg := config.Default()
	sm, closeSessions := newSessionManager(cfg)
	defer closeSessions()

	ctx := context.Background()
	id := "server-test"
	if _, err := sm.Update(ctx, id, func(s *sessions.Session) error {
		s.AddFlash(sessions.FlashInfo, "hi")
		return nil
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := sm.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Flashes) != 1 {
		t.Fatalf("expected the session to be stored in the memory cache, got %+v", got)
	}
}
