package log

import (
	"bytes"
	"strings"
	"testing"

	klog "github.com/go-kratos/kratos/v2/log"
)

// TestKratosLogger tests the kratos adapter.
func TestKratosLogger(t *testing.T) {
	t.Parallel()

	t.Run("message and attributes are forwarded", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewKratosLogger(NewSecureLogger(&buf, true))

		if err := logger.Log(klog.LevelInfo, "msg", "server started", "addr", "127.0.0.1:8080"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "server started") {
			t.Errorf("expected message, got: %s", output)
		}
		if !strings.Contains(output, "127.0.0.1:8080") {
			t.Errorf("expected addr attribute, got: %s", output)
		}
	})

	t.Run("sensitive values are masked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewKratosLogger(NewSecureLogger(&buf, true))
		_ = logger.Log(klog.LevelWarn, "msg", "redeem", "license_key", "SUMO-1337")
		if strings.Contains(buf.String(), "SUMO-1337") {
			t.Errorf("expected license key to be masked, got: %s", buf.String())
		}
	})

	t.Run("levels map to slog levels", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewKratosLogger(NewSecureLogger(&buf, false))
		_ = logger.Log(klog.LevelInfo, "msg", "hidden_info")
		_ = logger.Log(klog.LevelError, "msg", "shown_error")
		output := buf.String()
		if strings.Contains(output, "hidden_info") {
			t.Errorf("expected info to be filtered, got: %s", output)
		}
		if !strings.Contains(output, "shown_error") {
			t.Errorf("expected error to be logged, got: %s", output)
		}
	})

	t.Run("odd keyvals do not panic", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewKratosLogger(NewSecureLogger(&buf, true))
		_ = logger.Log(klog.LevelInfo, "msg", "odd", "dangling")
		if !strings.Contains(buf.String(), "dangling") {
			t.Errorf("expected dangling value, got: %s", buf.String())
		}
	})
}
