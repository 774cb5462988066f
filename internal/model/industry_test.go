package model

import "testing"

// TestNormalizeIndustry tests industry label canonicalisation.
func TestNormalizeIndustry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty becomes default", "", "SaaS / Software"},
		{"blank becomes default", "   ", "SaaS / Software"},
		{"exact label is kept", "Fintech / Payments", "Fintech / Payments"},
		{"case is folded", "saas / software", "SaaS / Software"},
		{"whitespace is collapsed", "  Artificial   Intelligence ", "Artificial Intelligence"},
		{"upper case label", "CYBERSECURITY", "Cybersecurity"},
		{"unknown lower case label is title cased", "space logistics", "Space Logistics"},
		{"unknown mixed case label is kept", "GovTech", "GovTech"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeIndustry(tc.input); got != tc.want {
				t.Errorf("NormalizeIndustry(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// TestIndustries tests the selectable list.
func TestIndustries(t *testing.T) {
	t.Parallel()

	if len(Industries) != 11 {
		t.Errorf("expected 11 industries, got %d", len(Industries))
	}
	if Industries[0] != DefaultIndustry {
		t.Errorf("expected default industry first, got %q", Industries[0])
	}
	for _, name := range Industries {
		if !IsKnownIndustry(name) {
			t.Errorf("expected %q to be known", name)
		}
	}
	if IsKnownIndustry("Mining") {
		t.Error("expected Mining to be unknown")
	}
}
