package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate and Config.ValidateScan so
// callers can use errors.Is.
var (
	// ErrNoTarget is returned when a scan names no competitor URL.
	ErrNoTarget = errors.New("no target specified: provide a competitor URL or use --list")

	// ErrNoAPIKey is returned when no Gemini API key was found in flags,
	// GEMINI_API_KEY, API_KEY or the configuration file.
	ErrNoAPIKey = errors.New("no Gemini API key: set GEMINI_API_KEY or gemini.apiKey in the configuration file")

	// ErrInvalidTimeout is returned when the model request timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidLicenseDelay is returned when the simulated license delay is negative.
	ErrInvalidLicenseDelay = errors.New("invalid license delay: must be non-negative")

	// ErrInvalidSourceConcurrency is returned when source resolution concurrency is not positive.
	ErrInvalidSourceConcurrency = errors.New("invalid source concurrency: must be positive")

	// ErrInvalidMaxBodySize is returned when a size limit is negative.
	ErrInvalidMaxBodySize = errors.New("invalid size limit: must be non-negative")

	// ErrUnknownLicenseProvider is returned for a license provider other than demo or lemonsqueezy.
	ErrUnknownLicenseProvider = errors.New("unknown license provider: use \"demo\" or \"lemonsqueezy\"")
)
