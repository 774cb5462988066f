package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "deepresearch"

	// DefaultScanModel is used for full scans and rebuttal lookups,
	// which need the deeper reasoning model.
	DefaultScanModel = "gemini-3-pro-preview"

	// DefaultNewsModel is used for news lookups.
	DefaultNewsModel = "gemini-3-flash-preview"

	// DefaultLicenseProvider selects the built-in demo authority.
	DefaultLicenseProvider = LicenseProviderDemo

	// DefaultLicenseDelay mimics the round-trip of a remote license check.
	DefaultLicenseDelay = 800 * time.Millisecond

	// DefaultLemonSqueezyEndpoint is the license validation endpoint of the payment provider.
	DefaultLemonSqueezyEndpoint = "https://api.lemonsqueezy.com/v1/licenses/validate"

	// DefaultBatchSize keeps a single scan request outstanding at a time.
	DefaultBatchSize = 1

	// DefaultSourceTimeout bounds each grounding source fetch during resolution.
	DefaultSourceTimeout = 15 * time.Second

	// DefaultSourceConcurrency is the number of grounding sources resolved in parallel.
	DefaultSourceConcurrency = 4

	// DefaultUserAgent identifies DeepResearch when resolving sources.
	DefaultUserAgent = "DeepResearch/1.0 (+https://github.com/nao1215/deepresearch)"

	// DefaultMaxBodySize limits how much of a source page is read.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// DefaultServerAddr is the listen address of the dashboard server.
	DefaultServerAddr = "127.0.0.1:8080"

	// DefaultServerTimeout is the request timeout of the dashboard server.
	// Scans routinely take more than a minute.
	DefaultServerTimeout = 5 * time.Minute

	// DefaultMaxPhotoBytes limits the size of an uploaded founder photo.
	DefaultMaxPhotoBytes = 5 * 1024 * 1024 // 5MB
)

// License providers.
const (
	// LicenseProviderDemo validates keys against the built-in code set.
	LicenseProviderDemo = "demo"

	// LicenseProviderLemonSqueezy validates keys against the LemonSqueezy license API.
	LicenseProviderLemonSqueezy = "lemonsqueezy"
)

// Environment variables consulted for the Gemini API key, in order.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// Config holds all configuration options for DeepResearch.
// It is populated from defaults, then the configuration file, then CLI flags,
// and passed down explicitly.
type Config struct {
	// APIKey is the Gemini API key.
	APIKey string

	// GeminiBaseURL overrides the Gemini API endpoint. Empty means the SDK default.
	GeminiBaseURL string

	// ScanModel is the model used for full scans.
	ScanModel string

	// NewsModel is the model used for news lookups.
	NewsModel string

	// RebuttalModel is the model used for rebuttal lookups.
	RebuttalModel string

	// RequestTimeout bounds a single model request. Zero means no timeout.
	RequestTimeout time.Duration

	// LicenseProvider selects the entitlement authority ("demo" or "lemonsqueezy").
	LicenseProvider string

	// AllowDevPrefix enables the DEEP- development key rule of the demo authority.
	AllowDevPrefix bool

	// LicenseDelay is the simulated verification delay of the demo authority.
	LicenseDelay time.Duration

	// LicenseEndpoint is the validation URL of the lemonsqueezy provider.
	LicenseEndpoint string

	// Industry is the industry used when a scan does not name one.
	Industry string

	// HomeURL is the home turf used when a scan does not name one.
	HomeURL string

	// BatchSize is the number of concurrent scans when scanning a list of targets.
	BatchSize int

	// WithNews attaches live news to every scan result.
	WithNews bool

	// WithRebuttals attaches tactical rebuttals to every scan result.
	WithRebuttals bool

	// ResolveSources follows grounding links and fills in missing titles.
	ResolveSources bool

	// SourceTimeout bounds each source fetch.
	SourceTimeout time.Duration

	// SourceConcurrency is the number of sources resolved in parallel.
	SourceConcurrency int

	// UserAgent is sent when resolving sources.
	UserAgent string

	// MaxBodySize is the maximum number of bytes read from a source page.
	MaxBodySize int64

	// ServerAddr is the listen address of `deepresearch serve`.
	ServerAddr string

	// ServerTimeout is the request timeout of `deepresearch serve`.
	ServerTimeout time.Duration

	// RejectGPS refuses founder photos that carry GPS coordinates.
	RejectGPS bool

	// MaxPhotoBytes limits the size of an uploaded founder photo.
	MaxPhotoBytes int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file given with --config.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory of the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/deepresearch on Linux).
	DBDir string

	// Targets are the competitor URLs to scan.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ScanModel:         DefaultScanModel,
		NewsModel:         DefaultNewsModel,
		RebuttalModel:     DefaultScanModel,
		LicenseProvider:   DefaultLicenseProvider,
		AllowDevPrefix:    true,
		LicenseDelay:      DefaultLicenseDelay,
		LicenseEndpoint:   DefaultLemonSqueezyEndpoint,
		BatchSize:         DefaultBatchSize,
		SourceTimeout:     DefaultSourceTimeout,
		SourceConcurrency: DefaultSourceConcurrency,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		ServerAddr:        DefaultServerAddr,
		ServerTimeout:     DefaultServerTimeout,
		RejectGPS:         true,
		MaxPhotoBytes:     DefaultMaxPhotoBytes,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for DeepResearch.
// On Linux: ~/.local/share/deepresearch
// On macOS: ~/Library/Application Support/deepresearch
// On Windows: %LOCALAPPDATA%\deepresearch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for DeepResearch.
// On Linux: ~/.config/deepresearch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the settings shared by every command.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.LicenseDelay < 0 {
		return ErrInvalidLicenseDelay
	}
	if c.SourceConcurrency <= 0 {
		return ErrInvalidSourceConcurrency
	}
	if c.MaxBodySize < 0 || c.MaxPhotoBytes < 0 {
		return ErrInvalidMaxBodySize
	}
	switch c.LicenseProvider {
	case LicenseProviderDemo, LicenseProviderLemonSqueezy:
	default:
		return ErrUnknownLicenseProvider
	}
	return nil
}

// ValidateScan checks the settings needed to call the model.
// It includes every check of Validate.
func (c *Config) ValidateScan() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// ResolveAPIKey fills APIKey from the environment when neither a flag nor the
// configuration file provided one.
func (c *Config) ResolveAPIKey(lookup func(string) (string, bool)) {
	if c.APIKey != "" {
		return
	}
	for _, name := range apiKeyEnvVars {
		if v, ok := lookup(name); ok && v != "" {
			c.APIKey = v
			return
		}
	}
}
