package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/zerobalance/internal/common"
	"github.com/dmitrijs2005/zerobalance/internal/logging"
	"github.com/google/uuid"
)

// newTransport wraps next with the client-wide request hooks: a request id
// on every request, then request/response logging.
func newTransport(next http.RoundTripper, log logging.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &requestIDTransport{next: &loggingTransport{next: next, log: log}}
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	return t.next.RoundTrip(req)
}

type loggingTransport struct {
	next http.RoundTripper
	log  logging.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := t.log.With(
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get(common.RequestIDHeader),
	)

	log.Debug(ctx, "api request")
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Error(ctx, "api request failed: no response received", "error", err, "duration", time.Since(start))
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn(ctx, "api error response", "status", resp.StatusCode, "duration", time.Since(start))
	} else {
		log.Info(ctx, "api response", "status", resp.StatusCode, "duration", time.Since(start))
	}
	return resp, nil
}
