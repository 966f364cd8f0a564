package mockapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// NewServer wires the mock API handler behind its middleware chain
// Order (outermost first): recovery, request id, logging, CORS, simulated latency.
func NewServer(backend *Backend, latency time.Duration, log zerolog.Logger) http.Handler {
	handler := NewHandler(backend, log)

	return Recovery(log)(
		RequestID(log)(
			AccessLog(
				CORS(
					Latency(latency)(handler.Routes()),
				),
			),
		),
	)
}
