// Package config provides configuration structures and utilities for DeepResearch.
// It defines the Gemini engine settings, the entitlement provider, scan form
// defaults, the dashboard server, and report generation preferences, and
// loads them from the .deepresearch YAML file.
package config
