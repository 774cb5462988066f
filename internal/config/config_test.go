package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional: these tests fail when they drift.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("scan and rebuttals use the pro model", func(t *testing.T) {
		t.Parallel()
		if cfg.ScanModel != "gemini-3-pro-preview" {
			t.Errorf("expected ScanModel gemini-3-pro-preview, got %q", cfg.ScanModel)
		}
		if cfg.RebuttalModel != "gemini-3-pro-preview" {
			t.Errorf("expected RebuttalModel gemini-3-pro-preview, got %q", cfg.RebuttalModel)
		}
	})

	t.Run("news uses the flash model", func(t *testing.T) {
		t.Parallel()
		if cfg.NewsModel != "gemini-3-flash-preview" {
			t.Errorf("expected NewsModel gemini-3-flash-preview, got %q", cfg.NewsModel)
		}
	})

	t.Run("default license provider is demo with an 800ms delay", func(t *testing.T) {
		t.Parallel()
		if cfg.LicenseProvider != LicenseProviderDemo {
			t.Errorf("expected demo provider, got %q", cfg.LicenseProvider)
		}
		if cfg.LicenseDelay != 800*time.Millisecond {
			t.Errorf("expected 800ms, got %v", cfg.LicenseDelay)
		}
		if !cfg.AllowDevPrefix {
			t.Error("expected AllowDevPrefix to be true")
		}
	})

	t.Run("default BatchSize is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 1 {
			t.Errorf("expected BatchSize 1, got %d", cfg.BatchSize)
		}
	})

	t.Run("no request timeout by default", func(t *testing.T) {
		t.Parallel()
		if cfg.RequestTimeout != 0 {
			t.Errorf("expected no timeout, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("GPS photos are rejected by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.RejectGPS {
			t.Error("expected RejectGPS to be true")
		}
	})

	t.Run("DBDir is under the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected %q, got %q", XDGDataDir(), cfg.DBDir)
		}
		if filepath.Base(cfg.DBDir) != AppName {
			t.Errorf("expected DBDir to end with %q, got %q", AppName, cfg.DBDir)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the shared validation rules.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"conflicting formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, ErrInvalidTimeout},
		{"negative license delay", func(c *Config) { c.LicenseDelay = -time.Millisecond }, ErrInvalidLicenseDelay},
		{"zero source concurrency", func(c *Config) { c.SourceConcurrency = 0 }, ErrInvalidSourceConcurrency},
		{"negative photo limit", func(c *Config) { c.MaxPhotoBytes = -1 }, ErrInvalidMaxBodySize},
		{"unknown provider", func(c *Config) { c.LicenseProvider = "stripe" }, ErrUnknownLicenseProvider},
		{"lemonsqueezy provider", func(c *Config) { c.LicenseProvider = LicenseProviderLemonSqueezy }, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestConfigValidateScan tests the checks needed before calling the model.
func TestConfigValidateScan(t *testing.T) {
	t.Parallel()

	t.Run("no target", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.APIKey = "key"
		if err := cfg.ValidateScan(); !errors.Is(err, ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("no API key", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Targets = []string{"https://rival.io"}
		if err := cfg.ValidateScan(); !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("shared rules run first", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.BatchSize = -1
		if err := cfg.ValidateScan(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("complete config", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.APIKey = "key"
		cfg.Targets = []string{"https://rival.io"}
		if err := cfg.ValidateScan(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestResolveAPIKey tests the environment lookup order.
func TestResolveAPIKey(t *testing.T) {
	t.Parallel()

	lookupFrom := func(env map[string]string) func(string) (string, bool) {
		return func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		}
	}

	testCases := []struct {
		name    string
		initial string
		env     map[string]string
		want    string
	}{
		{"existing key wins", "flag", map[string]string{"GEMINI_API_KEY": "env"}, "flag"},
		{"GEMINI_API_KEY before API_KEY", "", map[string]string{"GEMINI_API_KEY": "gemini", "API_KEY": "generic"}, "gemini"},
		{"API_KEY fallback", "", map[string]string{"API_KEY": "generic"}, "generic"},
		{"empty variable is skipped", "", map[string]string{"GEMINI_API_KEY": "", "API_KEY": "generic"}, "generic"},
		{"nothing set", "", map[string]string{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			cfg.APIKey = tc.initial
			cfg.ResolveAPIKey(lookupFrom(tc.env))
			if cfg.APIKey != tc.want {
				t.Errorf("expected %q, got %q", tc.want, cfg.APIKey)
			}
		})
	}
}

// TestLoadConfigFile tests YAML parsing and merging into a Config.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("gemini: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("all sections are applied", func(t *testing.T) {
		t.Parallel()
		content := `gemini:
  baseURL: http://localhost:9999/
  scanModel: custom-pro
  newsModel: custom-flash
  timeout: 3m
license:
  provider: lemonsqueezy
  allowDevPrefix: false
  verifyDelay: 0s
  endpoint: http://localhost:9998/validate
scan:
  industry: Fintech
  homeUrl: https://mine.io
  batch: 3
  resolveSources: true
  sourceTimeout: 5s
server:
  addr: 0.0.0.0:9090
photo:
  rejectGPS: false
  maxBytes: 1024
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.GeminiBaseURL != "http://localhost:9999/" {
			t.Errorf("unexpected base URL %q", cfg.GeminiBaseURL)
		}
		if cfg.ScanModel != "custom-pro" || cfg.NewsModel != "custom-flash" {
			t.Errorf("unexpected models %q %q", cfg.ScanModel, cfg.NewsModel)
		}
		if cfg.RebuttalModel != DefaultScanModel {
			t.Errorf("expected unset rebuttal model to keep default, got %q", cfg.RebuttalModel)
		}
		if cfg.RequestTimeout != 3*time.Minute {
			t.Errorf("expected 3m timeout, got %v", cfg.RequestTimeout)
		}
		if cfg.LicenseProvider != LicenseProviderLemonSqueezy {
			t.Errorf("unexpected provider %q", cfg.LicenseProvider)
		}
		if cfg.AllowDevPrefix {
			t.Error("expected explicit false to disable the dev prefix")
		}
		if cfg.LicenseDelay != 0 {
			t.Errorf("expected explicit zero delay, got %v", cfg.LicenseDelay)
		}
		if cfg.LicenseEndpoint != "http://localhost:9998/validate" {
			t.Errorf("unexpected endpoint %q", cfg.LicenseEndpoint)
		}
		if cfg.Industry != "Fintech" || cfg.HomeURL != "https://mine.io" {
			t.Errorf("unexpected scan defaults %q %q", cfg.Industry, cfg.HomeURL)
		}
		if cfg.BatchSize != 3 || !cfg.ResolveSources || cfg.SourceTimeout != 5*time.Second {
			t.Errorf("unexpected scan settings %d %v %v", cfg.BatchSize, cfg.ResolveSources, cfg.SourceTimeout)
		}
		if cfg.ServerAddr != "0.0.0.0:9090" {
			t.Errorf("unexpected server addr %q", cfg.ServerAddr)
		}
		if cfg.ServerTimeout != DefaultServerTimeout {
			t.Errorf("expected unset server timeout to keep default, got %v", cfg.ServerTimeout)
		}
		if cfg.RejectGPS {
			t.Error("expected RejectGPS false")
		}
		if cfg.MaxPhotoBytes != 1024 {
			t.Errorf("unexpected photo limit %d", cfg.MaxPhotoBytes)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()
		var cf *File
		cfg := NewConfig()
		cf.Apply(cfg)
		if cfg.ScanModel != DefaultScanModel {
			t.Errorf("expected defaults, got %q", cfg.ScanModel)
		}
	})
}

// TestFindConfigFile tests the explicit path branch of the search.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

// TestLoad tests building a Config from an explicit file.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("explicit file is applied", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("scan:\n  industry: EdTech\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Industry != "EdTech" {
			t.Errorf("expected EdTech, got %q", cfg.Industry)
		}
		if cfg.ConfigFilePath != path {
			t.Errorf("expected ConfigFilePath %q, got %q", path, cfg.ConfigFilePath)
		}
	})
}
