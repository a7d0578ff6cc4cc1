package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// requestIDMaxLen guards against abusive caller-supplied IDs blowing up log
// cardinality.
const requestIDMaxLen = 64

// RequestID accepts a caller-supplied request ID or mints one, echoes it on
// the response, and binds it to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" || len(reqID) > requestIDMaxLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
