package model

// NewsItem is a news article, press release or blog post about a company.
// News is fetched independently and is not tied to a particular scan.
type NewsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`

	// Date is free text as reported by the model, e.g. "2025-03-14" or "March 2025".
	Date string `json:"date,omitempty"`
}

// NewsReport is the result of a live news lookup.
type NewsReport struct {
	TargetURL string     `json:"targetUrl"`
	Items     []NewsItem `json:"news"`
	Sources   []Source   `json:"sources"`
}

// TacticalRebuttal is a short objection handler for a sales call.
type TacticalRebuttal struct {
	Objection string `json:"objection"`
	Rebuttal  string `json:"rebuttal"`

	// Strategy names the angle the rebuttal exploits (pricing, integrations, support, ...).
	Strategy string `json:"strategy"`
}

// RebuttalReport is the result of a tactical rebuttal lookup.
type RebuttalReport struct {
	Target
	Rebuttals []TacticalRebuttal `json:"rebuttals"`
	Sources   []Source           `json:"sources"`
}
