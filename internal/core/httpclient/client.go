package httpclient

import (
	"net/http"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/proxy"

	"go.uber.org/zap"
)

// UserAgent is sent on every outbound request.
const UserAgent = "shipdesk/1.0"

// LoggingRoundTripper logs outbound requests. Credentials are never logged.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := req.URL.Redacted()

	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}

	log := logger.Named("httpclient")
	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Bool("authenticated", req.Header.Get("Authorization") != ""),
	)

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware, optionally
// routed through an outbound proxy.
func NewClient(timeout time.Duration, p proxy.Settings) *http.Client {
	var base http.RoundTripper = http.DefaultTransport
	if u := p.URL(); u != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyURL(u)
		base = transport
		logger.Named("httpclient").Info("Outbound proxy enabled", zap.String("proxy", p.Redacted()))
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{Proxied: base},
		Timeout:   timeout,
	}
}
