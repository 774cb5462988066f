package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadTargetList(t *testing.T) {
	t.Parallel()

	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "targets.txt")
		content := "# competitors\n  https://rival.io  \n\n#https://skipped.io\nhttps://other.io\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		got, err := readTargetList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"https://rival.io", "https://other.io"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := readTargetList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestBuildScanConfig(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "scan:\n  homeUrl: https://file.example\n  industry: Fintech\n  batch: 3\n  resolveSources: true\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("configuration file values are kept without flags", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		scan, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatal(err)
		}
		if err := root.PersistentFlags().Set("config", writeConfig(t)); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildScanConfig(scan, []string{"https://rival.io"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HomeURL != "https://file.example" {
			t.Errorf("expected home from file, got %q", cfg.HomeURL)
		}
		if cfg.Industry != "Fintech" {
			t.Errorf("expected industry from file, got %q", cfg.Industry)
		}
		if cfg.BatchSize != 3 {
			t.Errorf("expected batch 3, got %d", cfg.BatchSize)
		}
		if !cfg.ResolveSources {
			t.Error("expected source resolution from file")
		}
		if !reflect.DeepEqual(cfg.Targets, []string{"https://rival.io"}) {
			t.Errorf("unexpected targets %v", cfg.Targets)
		}
	})

	t.Run("flags override the configuration file", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		scan, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatal(err)
		}
		if err := root.PersistentFlags().Set("config", writeConfig(t)); err != nil {
			t.Fatal(err)
		}
		for name, value := range map[string]string{
			"home":     "https://flag.example",
			"industry": "EdTech",
			"batch":    "1",
			"news":     "true",
		} {
			if err := scan.Flags().Set(name, value); err != nil {
				t.Fatal(err)
			}
		}

		cfg, err := buildScanConfig(scan, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HomeURL != "https://flag.example" {
			t.Errorf("expected home from flag, got %q", cfg.HomeURL)
		}
		if cfg.Industry != "EdTech" {
			t.Errorf("expected industry from flag, got %q", cfg.Industry)
		}
		if cfg.BatchSize != 1 {
			t.Errorf("expected batch 1, got %d", cfg.BatchSize)
		}
		if !cfg.WithNews || !cfg.ResolveSources {
			t.Error("expected news from flag and source resolution from file")
		}
	})
}
