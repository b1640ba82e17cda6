package roster

import (
	"net/http"
	"time"
)

type Option func(*settings)

type settings struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient replaces the underlying client. A timeout given via
// WithTimeout still applies, regardless of option order.
func WithHTTPClient(h *http.Client) Option {
	return func(s *settings) { s.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}
