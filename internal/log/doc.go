// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// # Security Features
//
// The SecureHandler masks:
//   - License keys (license, license_key and any key containing "license")
//   - Gemini API keys, both as attribute values and embedded in messages,
//     error strings and request URLs (?key=...)
//   - HTTP credentials (Authorization, Cookie, X-Goog-Api-Key)
//   - Generic secrets detected by key name or value pattern
//
// Even in verbose mode, sensitive values are masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("license redeemed", "license_key", key) // license_key=***REDACTED***
//
// # Integration with kratos
//
// The dashboard server runs on kratos. NewKratosLogger adapts a *slog.Logger
// to kratos' log.Logger so its middleware logs through the same handler:
//
//	app := kratos.New(kratos.Logger(log.NewKratosLogger(logger)))
package log
