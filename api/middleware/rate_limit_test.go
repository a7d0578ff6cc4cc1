package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

type countingStore struct {
	counts map[string]int64
}

func (c *countingStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if c.counts == nil {
		c.counts = map[string]int64{}
	}
	c.counts[scope]++
	return c.counts[scope] <= limit, c.counts[scope], nil
}

func limitedHandler(store RateLimiterStore, limit int) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test"})
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	policy := NewWriteRateLimitPolicy(time.Minute, limit)
	return WriteRateLimit(policy, store, logg)(inner)
}

func TestWriteRateLimitBlocksPastLimit(t *testing.T) {
	t.Parallel()
	handler := limitedHandler(&countingStore{}, 2)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithEmployeeID(req.Context(), "emp-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithEmployeeID(req.Context(), "emp-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	t.Parallel()
	store := &countingStore{}
	handler := limitedHandler(store, 1)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithEmployeeID(req.Context(), "emp-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("read %d status = %d", i, rec.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("reads must not count: %v", store.counts)
	}
}

func TestWriteRateLimitSeparatesActors(t *testing.T) {
	t.Parallel()
	handler := limitedHandler(&countingStore{}, 1)

	for _, actor := range []string{"emp-1", "emp-2"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithEmployeeID(req.Context(), actor))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("actor %s status = %d", actor, rec.Code)
		}
	}
}

func TestWriteRateLimitDisabledWithoutStore(t *testing.T) {
	t.Parallel()
	handler := limitedHandler(nil, 1)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	}
}
