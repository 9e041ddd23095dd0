package easypost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shipdesk/internal/core/config"
	"shipdesk/internal/core/httpclient"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/proxy"

	"go.uber.org/zap"
)

// Client is a minimal EasyPost REST client covering shipments and scan forms.
type Client struct {
	// httpClient executes requests; it carries the logging transport.
	httpClient *http.Client
	// baseURL is the API root without a trailing slash.
	baseURL string
	// apiKey is sent as the basic auth username.
	apiKey string
	// mode is the credential set in use, for logging only.
	mode string
}

// NewClient builds a client for the configured mode. The mode is fixed for
// the lifetime of the client.
func NewClient(cfg config.EasyPostConfig, p proxy.Settings) (*Client, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	c := New(cfg.BaseURL, key, httpclient.NewClient(cfg.Timeout(), p))
	c.mode = cfg.Mode
	return c, nil
}

// New creates a client against baseURL. Tests point it at an httptest server.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Mode returns the credential set the client was built with.
func (c *Client) Mode() string {
	return c.mode
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp)
		logger.Named("easypost").Warn("EasyPost request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.StatusCode),
			zap.String("code", apiErr.Code),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// logPartialPage notes that older records exist beyond the returned page.
func logPartialPage(path string, returned int) {
	logger.Named("easypost").Info("EasyPost page truncated, older records not fetched",
		zap.String("path", path),
		zap.Int("returned", returned),
	)
}
