package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "deepresearch" {
			t.Errorf("expected use 'deepresearch', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		testCases := []struct {
			name      string
			shorthand string
		}{
			{name: "verbose", shorthand: "v"},
			{name: "config", shorthand: "c"},
			{name: "db-dir"},
		}
		for _, tc := range testCases {
			flag := cmd.PersistentFlags().Lookup(tc.name)
			if flag == nil {
				t.Errorf("expected %s flag", tc.name)
				continue
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected %s shorthand %q, got %q", tc.name, tc.shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has every subcommand", func(t *testing.T) {
		t.Parallel()
		names := make(map[string]bool)
		for _, sub := range cmd.Commands() {
			names[sub.Name()] = true
		}
		for _, want := range []string{
			"scan", "news", "rebuttals", "history", "compare",
			"redeem", "signout", "whoami", "upgrade",
			"roadmap", "about", "serve", "init", "version",
		} {
			if !names[want] {
				t.Errorf("expected %s subcommand", want)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestNewScanCmd tests the scan command flags.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	testCases := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "home", shorthand: "H", defValue: ""},
		{name: "industry", shorthand: "i", defValue: ""},
		{name: "list", shorthand: "l", defValue: ""},
		{name: "batch", shorthand: "b", defValue: "1"},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "news", defValue: "false"},
		{name: "rebuttals", defValue: "false"},
		{name: "resolve-sources", defValue: "false"},
	}

	for _, tc := range testCases {
		t.Run("has "+tc.name+" flag", func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected shorthand %q, got %q", tc.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("expected default %q, got %q", tc.defValue, flag.DefValue)
			}
		})
	}
}
