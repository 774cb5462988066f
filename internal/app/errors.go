package app

import "errors"

// User-facing failures. Their text is shown verbatim in the views and the CLI.
var (
	// ErrMissingInputs is returned when a scan lacks a target or home turf URL.
	ErrMissingInputs = errors.New("Critical Inputs Missing: Provide Target and Home Turf URLs.") //nolint:staticcheck // shown to the user as is

	// ErrMissingTarget is returned when a news lookup lacks a target URL.
	ErrMissingTarget = errors.New("Critical Inputs Missing: Provide a Target URL.") //nolint:staticcheck // shown to the user as is

	// ErrMissingKey is returned when a blank license key is redeemed.
	ErrMissingKey = errors.New("Enter a license key to redeem.") //nolint:staticcheck // shown to the user as is

	// ErrEngineFailure replaces every intelligence engine error.
	ErrEngineFailure = errors.New("Intelligence Engine failure. Please re-run scan.") //nolint:staticcheck // shown to the user as is

	// ErrRedeemFailed is returned when a license key is refused.
	ErrRedeemFailed = errors.New("Redemption failed: Invalid license key.") //nolint:staticcheck // shown to the user as is
)

var (
	// ErrNotSubscribed is returned when a guest session runs a paid action.
	ErrNotSubscribed = errors.New("an active license is required: redeem a key or upgrade")

	// ErrScanInProgress is returned when a scan is requested while another runs.
	ErrScanInProgress = errors.New("a scan is already in progress")

	// ErrNotFound is returned when a history entry does not exist.
	ErrNotFound = errors.New("scan not found in history")

	// ErrNoPhoto is returned when no founder photo was uploaded.
	ErrNoPhoto = errors.New("no founder photo uploaded")
)
