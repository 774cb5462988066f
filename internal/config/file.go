package config

import "time"

// GeminiSection configures the intelligence engine.
type GeminiSection struct {
	// APIKey is the Gemini API key. GEMINI_API_KEY and API_KEY take precedence.
	APIKey string `yaml:"apiKey,omitempty"`

	// BaseURL overrides the Gemini endpoint, e.g. for a proxy.
	BaseURL string `yaml:"baseURL,omitempty"`

	ScanModel     string `yaml:"scanModel,omitempty"`
	NewsModel     string `yaml:"newsModel,omitempty"`
	RebuttalModel string `yaml:"rebuttalModel,omitempty"`

	// Timeout bounds a single model request, e.g. "3m".
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// LicenseSection configures the entitlement authority.
type LicenseSection struct {
	// Provider is "demo" or "lemonsqueezy".
	Provider string `yaml:"provider,omitempty"`

	// AllowDevPrefix toggles the DEEP- development key rule of the demo provider.
	// A pointer distinguishes "not set" from an explicit false.
	AllowDevPrefix *bool `yaml:"allowDevPrefix,omitempty"`

	// VerifyDelay is the simulated delay of the demo provider, e.g. "800ms".
	VerifyDelay *time.Duration `yaml:"verifyDelay,omitempty"`

	// Endpoint is the validation URL of the lemonsqueezy provider.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// ScanSection holds defaults for the scan form.
type ScanSection struct {
	Industry       string        `yaml:"industry,omitempty"`
	HomeURL        string        `yaml:"homeUrl,omitempty"`
	Batch          int           `yaml:"batch,omitempty"`
	ResolveSources bool          `yaml:"resolveSources,omitempty"`
	SourceTimeout  time.Duration `yaml:"sourceTimeout,omitempty"`
	UserAgent      string        `yaml:"userAgent,omitempty"`
}

// ServerSection configures `deepresearch serve`.
type ServerSection struct {
	Addr    string        `yaml:"addr,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// PhotoSection configures the founder photo audit.
type PhotoSection struct {
	// RejectGPS refuses photos carrying GPS coordinates. Defaults to true.
	RejectGPS *bool `yaml:"rejectGPS,omitempty"`

	// MaxBytes limits the decoded photo size.
	MaxBytes int64 `yaml:"maxBytes,omitempty"`
}

// File represents the structure of the .deepresearch configuration file.
type File struct {
	Gemini  GeminiSection  `yaml:"gemini,omitempty"`
	License LicenseSection `yaml:"license,omitempty"`
	Scan    ScanSection    `yaml:"scan,omitempty"`
	Server  ServerSection  `yaml:"server,omitempty"`
	Photo   PhotoSection   `yaml:"photo,omitempty"`
}

// Apply merges the file's values into cfg. Zero values in the file leave
// the corresponding setting untouched, so it must run after NewConfig and
// before flags are applied.
func (cf *File) Apply(cfg *Config) {
	if cf == nil || cfg == nil {
		return
	}

	g := cf.Gemini
	if g.APIKey != "" {
		cfg.APIKey = g.APIKey
	}
	if g.BaseURL != "" {
		cfg.GeminiBaseURL = g.BaseURL
	}
	if g.ScanModel != "" {
		cfg.ScanModel = g.ScanModel
	}
	if g.NewsModel != "" {
		cfg.NewsModel = g.NewsModel
	}
	if g.RebuttalModel != "" {
		cfg.RebuttalModel = g.RebuttalModel
	}
	if g.Timeout != 0 {
		cfg.RequestTimeout = g.Timeout
	}

	l := cf.License
	if l.Provider != "" {
		cfg.LicenseProvider = l.Provider
	}
	if l.AllowDevPrefix != nil {
		cfg.AllowDevPrefix = *l.AllowDevPrefix
	}
	if l.VerifyDelay != nil {
		cfg.LicenseDelay = *l.VerifyDelay
	}
	if l.Endpoint != "" {
		cfg.LicenseEndpoint = l.Endpoint
	}

	s := cf.Scan
	if s.Industry != "" {
		cfg.Industry = s.Industry
	}
	if s.HomeURL != "" {
		cfg.HomeURL = s.HomeURL
	}
	if s.Batch != 0 {
		cfg.BatchSize = s.Batch
	}
	if s.ResolveSources {
		cfg.ResolveSources = true
	}
	if s.SourceTimeout != 0 {
		cfg.SourceTimeout = s.SourceTimeout
	}
	if s.UserAgent != "" {
		cfg.UserAgent = s.UserAgent
	}

	if cf.Server.Addr != "" {
		cfg.ServerAddr = cf.Server.Addr
	}
	if cf.Server.Timeout != 0 {
		cfg.ServerTimeout = cf.Server.Timeout
	}

	if cf.Photo.RejectGPS != nil {
		cfg.RejectGPS = *cf.Photo.RejectGPS
	}
	if cf.Photo.MaxBytes != 0 {
		cfg.MaxPhotoBytes = cf.Photo.MaxBytes
	}
}
