package model

import "fmt"

// Risk ranks how much a piece of photo metadata reveals about its author.
type Risk int

const (
	// RiskLow covers metadata that is rarely identifying on its own, such as timestamps.
	RiskLow Risk = iota
	// RiskMedium covers device and workstation details.
	RiskMedium
	// RiskHigh covers unique identifiers and names.
	RiskHigh
	// RiskCritical covers physical location.
	RiskCritical
)

// String implements fmt.Stringer.
func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Risk) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Risk) UnmarshalText(text []byte) error {
	for _, candidate := range []Risk{RiskLow, RiskMedium, RiskHigh, RiskCritical} {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid risk %q", text)
}

// PhotoFinding is one EXIF entry worth telling the uploader about.
type PhotoFinding struct {
	// Kind groups related tags, e.g. "gps" or "serial".
	Kind string `json:"kind"`

	// Tag is the EXIF tag name.
	Tag string `json:"tag"`

	// Value is the formatted tag value.
	Value string `json:"value"`

	Risk Risk `json:"risk"`

	// Description explains what the tag discloses.
	Description string `json:"description"`
}

// PhotoAudit summarises the metadata found in an uploaded photo.
type PhotoAudit struct {
	// MIMEType is the detected content type of the image.
	MIMEType string `json:"mimeType"`

	// Size is the decoded image size in bytes.
	Size int `json:"size"`

	Findings []PhotoFinding `json:"findings"`
}

// MaxRisk returns the highest risk among the findings and false when there are none.
func (a *PhotoAudit) MaxRisk() (Risk, bool) {
	if a == nil || len(a.Findings) == 0 {
		return RiskLow, false
	}
	highest := a.Findings[0].Risk
	for _, f := range a.Findings[1:] {
		if f.Risk > highest {
			highest = f.Risk
		}
	}
	return highest, true
}

// HasLocation reports whether the photo carries GPS coordinates.
func (a *PhotoAudit) HasLocation() bool {
	if a == nil {
		return false
	}
	for _, f := range a.Findings {
		if f.Kind == "gps" {
			return true
		}
	}
	return false
}
