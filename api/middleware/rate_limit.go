package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jvaldezcruz/assetdesk-backend/api/responses"
	pkgerrors "github.com/jvaldezcruz/assetdesk-backend/pkg/errors"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

// RateLimiterStore is the counter backend behind the write limiter.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// WriteRateLimitPolicy caps mutating requests per actor inside a fixed window.
type WriteRateLimitPolicy struct {
	window time.Duration
	limit  int
}

func NewWriteRateLimitPolicy(window time.Duration, limit int) WriteRateLimitPolicy {
	return WriteRateLimitPolicy{window: window, limit: limit}
}

func (p WriteRateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

// WriteRateLimit throttles POST/PUT/PATCH/DELETE traffic per employee. Requests
// without an authenticated actor fall back to the client IP.
func WriteRateLimit(policy WriteRateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			actor := EmployeeIDFromContext(ctx)
			if actor == "" {
				actor = clientIP(r)
			}

			allowed, count, err := store.FixedWindowAllow(ctx, "write:"+actor, int64(policy.limit), policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"actor":          actor,
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "write.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
