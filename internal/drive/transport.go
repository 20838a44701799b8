package drive

import (
	"net/http"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/metrics"
	"go.uber.org/zap"
)

// keyTransport appends the API key to every outgoing request and records
// request metrics. It never retries.
type keyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func newKeyTransport(apiKey string, base http.RoundTripper) *keyTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	logging.RegisterSecret(apiKey)
	return &keyTransport{apiKey: apiKey, base: base}
}

// RoundTrip implements http.RoundTripper
func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Work on a clone; RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.apiKey)
	r.URL.RawQuery = q.Encode()

	start := time.Now()
	res, err := t.base.RoundTrip(r)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordDriveRequest(0, elapsed)
		logging.Debug("drive request failed",
			zap.String("path", r.URL.Path),
			zap.Duration("duration", elapsed),
			zap.String("error", logging.Redact(err.Error())))
		return nil, err
	}

	metrics.RecordDriveRequest(res.StatusCode, elapsed)
	logging.Debug("drive request",
		zap.String("path", r.URL.Path),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", elapsed))
	return res, nil
}
