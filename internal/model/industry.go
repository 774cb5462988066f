package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultIndustry is preselected in the scan form.
const DefaultIndustry = "SaaS / Software"

// Industries is the list offered by the scan form, in display order.
var Industries = []string{
	"SaaS / Software",
	"Fintech",
	"EdTech",
	"HealthTech",
	"E-commerce",
	"Cybersecurity",
	"Artificial Intelligence",
	"Agency / Services",
	"CRM / Sales",
	"Productivity / SaaS",
	"Fintech / Payments",
}

// industryIndex maps the case-folded, space-collapsed label to its canonical form.
var industryIndex = func() map[string]string {
	m := make(map[string]string, len(Industries))
	for _, name := range Industries {
		m[industryKey(name)] = name
	}
	return m
}()

// industryKey folds case for lookups. A Caser is stateful, so each call gets its own.
func industryKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// NormalizeIndustry returns the canonical spelling of a known industry label.
// Unknown labels are kept as free text with collapsed whitespace; an empty
// label becomes DefaultIndustry.
func NormalizeIndustry(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return DefaultIndustry
	}
	if canonical, ok := industryIndex[industryKey(collapsed)]; ok {
		return canonical
	}
	if collapsed == strings.ToLower(collapsed) {
		return cases.Title(language.English).String(collapsed)
	}
	return collapsed
}

// IsKnownIndustry reports whether s matches one of Industries.
func IsKnownIndustry(s string) bool {
	_, ok := industryIndex[industryKey(s)]
	return ok
}
