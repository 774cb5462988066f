package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResearchResult is the outcome of one deep scan.
// It is only built from a schema-valid model response, so Battlecard and
// KillScript are never nil on a result that reached the history.
type ResearchResult struct {
	// ID is a random UUID assigned when the result is created.
	ID string `json:"id"`

	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// TargetURL is the competitor the scan was run against.
	// The history keeps at most one result per TargetURL.
	TargetURL string `json:"targetUrl"`

	// HomeURL is the user's own company ("home turf").
	HomeURL string `json:"homeUrl"`

	// Industry is the sector label the scan was framed in.
	Industry string `json:"industry"`

	// Battlecard is the competitive comparison returned by the model.
	Battlecard *Battlecard `json:"battlecard"`

	// KillScript is the sales dialogue returned by the model.
	KillScript *KillScript `json:"killScript"`

	// Sources are the grounding citations attached to the model response.
	Sources []Source `json:"sources"`

	// News is filled in when the news enrichment ran after the scan.
	News []NewsItem `json:"news,omitempty"`

	// Rebuttals is filled in when the rebuttal enrichment ran after the scan.
	Rebuttals []TacticalRebuttal `json:"rebuttals,omitempty"`
}

// NewResearchResult creates a result with a fresh ID and the given creation time.
func NewResearchResult(target Target, battlecard *Battlecard, killScript *KillScript, sources []Source, now time.Time) *ResearchResult {
	if sources == nil {
		sources = []Source{}
	}
	return &ResearchResult{
		ID:         uuid.NewString(),
		Timestamp:  now.UnixMilli(),
		TargetURL:  target.TargetURL,
		HomeURL:    target.HomeURL,
		Industry:   target.Industry,
		Battlecard: battlecard,
		KillScript: killScript,
		Sources:    sources,
	}
}

// CreatedAt returns Timestamp as a time.Time.
func (r *ResearchResult) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// CompanyName returns the battlecard company name, or the target URL when
// the battlecard is missing.
func (r *ResearchResult) CompanyName() string {
	if r.Battlecard == nil || r.Battlecard.CompanyName == "" {
		return r.TargetURL
	}
	return r.Battlecard.CompanyName
}

// Battlecard is a structured competitive comparison.
type Battlecard struct {
	CompanyName  string        `json:"companyName"`
	Tagline      string        `json:"tagline"`
	Overview     string        `json:"overview"`
	Strengths    []string      `json:"strengths"`
	Weaknesses   []string      `json:"weaknesses"`
	KeyFeatures  []FeatureNote `json:"keyFeatures"`
	PricingModel string        `json:"pricingModel"`
}

// FeatureNote is one {feature, description} pair on a battlecard.
type FeatureNote struct {
	Feature     string `json:"feature"`
	Description string `json:"description"`
}

// KillScript is a scripted sales dialogue for countering a competitor.
type KillScript struct {
	OpeningHook     string      `json:"openingHook"`
	Objections      []Objection `json:"objections"`
	ClosingQuestion string      `json:"closingQuestion"`
}

// Objection pairs what a prospect says with the prepared answer.
type Objection struct {
	ProspectSaying string `json:"prospectSaying"`
	YourRebuttal   string `json:"yourRebuttal"`
}

// Source is a grounding citation returned by a search-augmented model call.
// Every field may be empty.
type Source struct {
	// URI is the citation link as returned by the model. Grounding links are
	// usually redirect URLs.
	URI string `json:"uri,omitempty"`

	// Title is the citation title as returned by the model, or the page
	// title found while resolving the source.
	Title string `json:"title,omitempty"`

	// ResolvedURL is the final URL after following redirects.
	// It is only set when source resolution ran.
	ResolvedURL string `json:"resolvedUrl,omitempty"`
}

// Link returns the best URL to show for the source.
func (s Source) Link() string {
	if s.ResolvedURL != "" {
		return s.ResolvedURL
	}
	return s.URI
}

// Label returns the title, falling back to the link.
func (s Source) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Link()
}

// Target is the validated input triple for a scan or rebuttal lookup.
type Target struct {
	TargetURL string `json:"targetUrl"`
	HomeURL   string `json:"homeUrl"`
	Industry  string `json:"industry"`
}

// NewTarget trims the inputs and canonicalises the industry label.
// An empty industry becomes DefaultIndustry.
func NewTarget(targetURL, homeURL, industry string) Target {
	return Target{
		TargetURL: strings.TrimSpace(targetURL),
		HomeURL:   strings.TrimSpace(homeURL),
		Industry:  NormalizeIndustry(industry),
	}
}

// Complete reports whether both URLs are present.
func (t Target) Complete() bool {
	return t.TargetURL != "" && t.HomeURL != ""
}
