package license

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultLemonSqueezyEndpoint is the public license validation endpoint.
const DefaultLemonSqueezyEndpoint = "https://api.lemonsqueezy.com/v1/licenses/validate"

// maxValidationResponse caps the response body read from the provider.
const maxValidationResponse = 64 * 1024

// LemonSqueezy validates license keys against the LemonSqueezy license API.
type LemonSqueezy struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewLemonSqueezy returns a checker posting to endpoint. Empty or nil
// arguments select the defaults.
func NewLemonSqueezy(endpoint string, client *http.Client, logger *slog.Logger) *LemonSqueezy {
	if endpoint == "" {
		endpoint = DefaultLemonSqueezyEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LemonSqueezy{endpoint: endpoint, client: client, logger: logger}
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

// Verify posts the trimmed key and reports the provider's "valid" flag.
// The API answers 404 for unknown keys, so any status with a decodable body
// is a verdict; other failures are errors.
func (l *LemonSqueezy) Verify(ctx context.Context, key string) (bool, error) {
	form := url.Values{"license_key": {strings.TrimSpace(key)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to create license request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := l.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("license request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxValidationResponse))
	if err != nil {
		return false, fmt.Errorf("failed to read license response: %w", err)
	}

	var vr validateResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return false, fmt.Errorf("unexpected license response (status %d): %w", resp.StatusCode, err)
	}
	if !vr.Valid {
		l.logger.Debug("license refused by provider", "status", resp.StatusCode, "reason", vr.Error)
	}
	return vr.Valid, nil
}
