package intel

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

// fencePattern matches a response wrapped in a Markdown code block: ```json { ... } ```
var fencePattern = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*\\n?(.*?)\\s*```$")

var errEmptyResponse = errors.New("empty response")

// stripFence returns the response text without a surrounding code fence.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return text
}

// decodeChecked parses text, checks it against schema, then decodes it into out.
func decodeChecked(text string, schema *genai.Schema, out any) error {
	raw := stripFence(text)
	if raw == "" {
		return errEmptyResponse
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	if err := conform(schema, doc, "$"); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SchemaError describes where a document departs from its declared schema.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

// conform checks that doc matches s. Object, array and string types are
// enforced; required keys must be present and non-null. Keys not declared
// in the schema are ignored.
func conform(s *genai.Schema, doc any, path string) error {
	if s == nil {
		return nil
	}

	switch s.Type {
	case genai.TypeObject:
		obj, ok := doc.(map[string]any)
		if !ok {
			return &SchemaError{Path: path, Reason: "expected object"}
		}
		for _, name := range s.Required {
			if v, ok := obj[name]; !ok || v == nil {
				return &SchemaError{Path: path + "." + name, Reason: "required field missing"}
			}
		}
		for name, prop := range s.Properties {
			v, ok := obj[name]
			if !ok || v == nil {
				continue
			}
			if err := conform(prop, v, path+"."+name); err != nil {
				return err
			}
		}
	case genai.TypeArray:
		items, ok := doc.([]any)
		if !ok {
			return &SchemaError{Path: path, Reason: "expected array"}
		}
		for i, item := range items {
			if err := conform(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case genai.TypeString:
		if _, ok := doc.(string); !ok {
			return &SchemaError{Path: path, Reason: "expected string"}
		}
	}
	return nil
}
