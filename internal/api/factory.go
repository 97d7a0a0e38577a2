package api

import (
	"net/http"

	"github.com/abhisek/classquiz/internal/logger"
)

// New creates an HTTPGateway whose transport is wrapped with retry and
// logging: client → retry → logging → http.DefaultTransport, so every
// attempt is recorded separately. recorder may be nil.
func New(cfg Config, creds Credentials, recorder CallRecorder, log *logger.Logger) (*HTTPGateway, error) {
	var rt http.RoundTripper = http.DefaultTransport
	rt = WithLogging(rt, recorder, log)
	rt = WithRetry(rt, cfg.Retry)
	return NewHTTPGateway(cfg, creds, WithTransport(rt))
}
