package license

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ErrInvalidKey is returned by Redeem-style callers when a key fails verification.
var ErrInvalidKey = errors.New("invalid license key")

// Checker is an entitlement authority.
// Verify reports whether key grants a subscription. An error means the
// authority could not be asked; a false result means the key was refused.
type Checker interface {
	Verify(ctx context.Context, key string) (bool, error)
}

// Provider names accepted by NewChecker.
const (
	ProviderDemo         = "demo"
	ProviderLemonSqueezy = "lemonsqueezy"
)

// ErrUnknownProvider is returned by NewChecker for an unsupported provider name.
var ErrUnknownProvider = errors.New("unknown license provider")

// Settings selects and configures a Checker.
type Settings struct {
	Provider       string
	AllowDevPrefix bool
	Delay          time.Duration
	Endpoint       string
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// NewChecker builds the Checker named by s.Provider.
func NewChecker(s Settings) (Checker, error) {
	switch s.Provider {
	case ProviderDemo, "":
		return NewDemoAuthority(
			WithDevPrefix(s.AllowDevPrefix),
			WithDelay(s.Delay),
			WithDemoLogger(s.Logger),
		), nil
	case ProviderLemonSqueezy:
		return NewLemonSqueezy(s.Endpoint, s.HTTPClient, s.Logger), nil
	default:
		return nil, ErrUnknownProvider
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
