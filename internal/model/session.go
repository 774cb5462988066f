package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Display values for the two kinds of session.
const (
	GuestName    = "Guest"
	MemberName   = "Elite Member"
	TierStandard = "Standard"
	TierLifetime = "Lifetime Pro"

	unlimitedCredits = "Unlimited"
)

// Credits is either a finite count or the unlimited marker.
// It marshals to a JSON number, or to the string "Unlimited".
type Credits struct {
	count     int
	unlimited bool
}

// UnlimitedCredits returns the credits granted by an active license.
func UnlimitedCredits() Credits {
	return Credits{unlimited: true}
}

// CreditCount returns a finite credit balance.
func CreditCount(n int) Credits {
	return Credits{count: n}
}

// Unlimited reports whether the balance is unlimited.
func (c Credits) Unlimited() bool {
	return c.unlimited
}

// Count returns the finite balance; it is zero for unlimited credits.
func (c Credits) Count() int {
	return c.count
}

// String implements fmt.Stringer.
func (c Credits) String() string {
	if c.unlimited {
		return unlimitedCredits
	}
	return strconv.Itoa(c.count)
}

// MarshalJSON implements json.Marshaler.
func (c Credits) MarshalJSON() ([]byte, error) {
	if c.unlimited {
		return json.Marshal(unlimitedCredits)
	}
	return json.Marshal(c.count)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Credits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != unlimitedCredits {
			return fmt.Errorf("invalid credits value %q", s)
		}
		*c = UnlimitedCredits()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid credits value: %w", err)
	}
	*c = CreditCount(n)
	return nil
}

// User is the session the views are rendered for.
type User struct {
	Name         string  `json:"name"`
	Credits      Credits `json:"credits"`
	Tier         string  `json:"tier"`
	IsSubscribed bool    `json:"isSubscribed"`
	LicenseKey   string  `json:"licenseKey,omitempty"`
}

// GuestUser returns the default unauthenticated session.
func GuestUser() User {
	return User{
		Name:    GuestName,
		Credits: CreditCount(0),
		Tier:    TierStandard,
	}
}

// MemberUser returns the session unlocked by a valid license key.
func MemberUser(licenseKey string) User {
	return User{
		Name:         MemberName,
		Credits:      UnlimitedCredits(),
		Tier:         TierLifetime,
		IsSubscribed: true,
		LicenseKey:   licenseKey,
	}
}

// Initial returns the first letter of the display name, used as an avatar.
func (u User) Initial() string {
	for _, r := range u.Name {
		return string(r)
	}
	return "?"
}

// SessionState is the bootstrap state machine of a session.
// The only transitions are unchecked -> checking -> guest|authenticated,
// then guest <-> authenticated through redemption and sign-out.
type SessionState int

const (
	// SessionUnchecked is the state before the persisted key was read.
	SessionUnchecked SessionState = iota
	// SessionChecking is the state while a persisted key is being verified.
	SessionChecking
	// SessionGuest is an unauthenticated session.
	SessionGuest
	// SessionAuthenticated is a session backed by a valid license key.
	SessionAuthenticated
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case SessionUnchecked:
		return "unchecked"
	case SessionChecking:
		return "checking"
	case SessionGuest:
		return "guest"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SessionState) UnmarshalText(text []byte) error {
	for _, candidate := range []SessionState{SessionUnchecked, SessionChecking, SessionGuest, SessionAuthenticated} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid session state %q", text)
}

// ScanStatus is the lifecycle of the active scan.
type ScanStatus string

// Scan statuses.
const (
	ScanIdle     ScanStatus = "idle"
	ScanScanning ScanStatus = "scanning"
	ScanSuccess  ScanStatus = "success"
	ScanError    ScanStatus = "error"
)
