package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// DefaultMaxBodySize caps webhook deliveries; command payloads are tiny, so
// anything near this limit is garbage or abuse.
const DefaultMaxBodySize = 64 << 10

type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > m.maxSize {
			log.Warn().
				Int64("content_length", r.ContentLength).
				Int64("limit", m.maxSize).
				Msg("oversized webhook delivery rejected")
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body too large",
			})
			return
		}

		// MaxBytesReader guards against deliveries that lie about their
		// Content-Length.
		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
