package license

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Redemption codes SUMO-1001 through SUMO-1500.
const (
	codePrefix = "SUMO-"
	firstCode  = 1001
	codeCount  = 500
)

// devPrefix marks development keys. Such a key is accepted when its raw
// length exceeds devMinLength.
const (
	devPrefix    = "DEEP-"
	devMinLength = 8
)

// redemptionCodes is the set of built-in codes.
var redemptionCodes = func() map[string]struct{} {
	m := make(map[string]struct{}, codeCount)
	for i := range codeCount {
		m[fmt.Sprintf("%s%d", codePrefix, firstCode+i)] = struct{}{}
	}
	return m
}()

// DemoAuthority is the built-in entitlement authority. It accepts the
// redemption codes and, when enabled, development keys.
type DemoAuthority struct {
	allowDevPrefix bool
	delay          time.Duration
	logger         *slog.Logger
}

// DemoOption configures a DemoAuthority.
type DemoOption func(*DemoAuthority)

// WithDevPrefix toggles the DEEP- development key rule.
func WithDevPrefix(allow bool) DemoOption {
	return func(a *DemoAuthority) {
		a.allowDevPrefix = allow
	}
}

// WithDelay sets the simulated verification delay.
func WithDelay(d time.Duration) DemoOption {
	return func(a *DemoAuthority) {
		a.delay = d
	}
}

// WithDemoLogger sets the logger. A nil logger keeps the default.
func WithDemoLogger(logger *slog.Logger) DemoOption {
	return func(a *DemoAuthority) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewDemoAuthority returns an authority with the development rule enabled
// and an 800ms delay.
func NewDemoAuthority(opts ...DemoOption) *DemoAuthority {
	a := &DemoAuthority{
		allowDevPrefix: true,
		delay:          800 * time.Millisecond,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Verify waits for the configured delay, then reports Valid(key).
// It returns ctx.Err() if the context ends first.
func (a *DemoAuthority) Verify(ctx context.Context, key string) (bool, error) {
	if err := sleep(ctx, a.delay); err != nil {
		return false, err
	}
	return a.Valid(key), nil
}

// Valid reports whether key is accepted. It depends on nothing but key and
// the authority's settings.
func (a *DemoAuthority) Valid(key string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(key))
	if IsRedemptionCode(normalized) {
		return true
	}
	if a.allowDevPrefix && strings.HasPrefix(normalized, devPrefix) && len(key) > devMinLength {
		a.logger.Warn("license accepted by development prefix rule; disable license.allowDevPrefix in production")
		return true
	}
	return false
}

// IsRedemptionCode reports whether code, after trimming and upper-casing,
// is one of the built-in redemption codes.
func IsRedemptionCode(code string) bool {
	_, ok := redemptionCodes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
