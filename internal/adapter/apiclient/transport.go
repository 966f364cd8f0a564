package apiclient

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// loggingTransport logs every round trip at debug level
type loggingTransport struct {
	base http.RoundTripper
	log  zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Warn().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("API request failed")
		return nil, err
	}

	t.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")
	return resp, nil
}
