package intel

import (
	"errors"
	"testing"
)

// TestStripFence tests code fence removal.
func TestStripFence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "\n  {\"a\":1}  \n", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose is kept", "Here you go: {}", "Here you go: {}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := stripFence(tc.input); got != tc.want {
				t.Errorf("stripFence(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// TestDecodeChecked tests schema conformance of decoded documents.
func TestDecodeChecked(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid news", `{"news":[{"title":"t","url":"u","snippet":"s"}]}`, false},
		{"optional date may be absent", `{"news":[{"title":"t","url":"u","snippet":"s"}]}`, false},
		{"extra keys are ignored", `{"news":[],"note":"x"}`, false},
		{"missing top-level key", `{}`, true},
		{"null required key", `{"news":null}`, true},
		{"array expected", `{"news":{}}`, true},
		{"object expected in array", `{"news":["t"]}`, true},
		{"string expected", `{"news":[{"title":1,"url":"u","snippet":"s"}]}`, true},
		{"top-level array", `[]`, true},
		{"not JSON", `nope`, true},
		{"empty", ``, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out liveNewsPayload
			err := decodeChecked(tc.text, liveNewsSchema, &out)
			if (err != nil) != tc.wantErr {
				t.Errorf("decodeChecked(%q) error = %v, wantErr %v", tc.text, err, tc.wantErr)
			}
		})
	}

	t.Run("schema error names the path", func(t *testing.T) {
		t.Parallel()
		var out deepScanPayload
		err := decodeChecked(`{"battlecard":{},"killScript":{}}`, deepScanSchema, &out)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %v", err)
		}
		if schemaErr.Path == "" || schemaErr.Path == "$" {
			t.Errorf("expected a nested path, got %q", schemaErr.Path)
		}
	})
}

// TestEngineError tests error matching.
func TestEngineError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := engineError("live news", cause)

	if !errors.Is(err, ErrEngineFailure) {
		t.Error("expected errors.Is(err, ErrEngineFailure)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
	if errors.Is(err, ErrMissingInput) {
		t.Error("did not expect ErrMissingInput")
	}
}
