package report

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/nao1215/deepresearch/internal/model"
)

// Comparison is the difference between two battlecards.
// Left and Right are usually two competitors, or two scans of one competitor
// taken at different times.
type Comparison struct {
	Left  CompetitorSummary `json:"left"`
	Right CompetitorSummary `json:"right"`

	Strengths  ListDiff `json:"strengths"`
	Weaknesses ListDiff `json:"weaknesses"`

	// Features compares key features by name.
	Features ListDiff `json:"features"`

	// PricingChanged reports whether the pricing models differ.
	PricingChanged bool `json:"pricingChanged"`
}

// SameTarget reports whether both sides describe the same competitor.
func (c *Comparison) SameTarget() bool {
	return c.Left.TargetURL == c.Right.TargetURL
}

// CompetitorSummary identifies one side of a comparison.
type CompetitorSummary struct {
	ID           string    `json:"id"`
	TargetURL    string    `json:"targetUrl"`
	CompanyName  string    `json:"companyName"`
	Tagline      string    `json:"tagline"`
	PricingModel string    `json:"pricingModel"`
	ScannedAt    time.Time `json:"scannedAt"`
}

// ListDiff splits two lists into shared and one-sided entries.
// Entries are matched ignoring case and whitespace; the left spelling wins
// for shared entries.
type ListDiff struct {
	Shared    []string `json:"shared"`
	OnlyLeft  []string `json:"onlyLeft"`
	OnlyRight []string `json:"onlyRight"`
}

// Changed reports whether the lists differ.
func (d ListDiff) Changed() bool {
	return len(d.OnlyLeft) > 0 || len(d.OnlyRight) > 0
}

// Compare builds the comparison of left and right.
func Compare(left, right *model.ResearchResult) *Comparison {
	lb, rb := battlecardOf(left), battlecardOf(right)
	return &Comparison{
		Left:           summarize(left, lb),
		Right:          summarize(right, rb),
		Strengths:      diffLists(lb.Strengths, rb.Strengths),
		Weaknesses:     diffLists(lb.Weaknesses, rb.Weaknesses),
		Features:       diffLists(featureNames(lb), featureNames(rb)),
		PricingChanged: compareKey(lb.PricingModel) != compareKey(rb.PricingModel),
	}
}

func battlecardOf(r *model.ResearchResult) *model.Battlecard {
	if r.Battlecard == nil {
		return &model.Battlecard{}
	}
	return r.Battlecard
}

func summarize(r *model.ResearchResult, b *model.Battlecard) CompetitorSummary {
	return CompetitorSummary{
		ID:           r.ID,
		TargetURL:    r.TargetURL,
		CompanyName:  r.CompanyName(),
		Tagline:      b.Tagline,
		PricingModel: b.PricingModel,
		ScannedAt:    r.CreatedAt(),
	}
}

func featureNames(b *model.Battlecard) []string {
	names := make([]string, 0, len(b.KeyFeatures))
	for _, f := range b.KeyFeatures {
		names = append(names, f.Feature)
	}
	return names
}

func diffLists(left, right []string) ListDiff {
	d := ListDiff{Shared: []string{}, OnlyLeft: []string{}, OnlyRight: []string{}}

	rightKeys := make(map[string]bool, len(right))
	for _, s := range right {
		rightKeys[compareKey(s)] = true
	}
	leftKeys := make(map[string]bool, len(left))
	for _, s := range left {
		key := compareKey(s)
		if key == "" || leftKeys[key] {
			continue
		}
		leftKeys[key] = true
		if rightKeys[key] {
			d.Shared = append(d.Shared, s)
		} else {
			d.OnlyLeft = append(d.OnlyLeft, s)
		}
	}
	seen := make(map[string]bool, len(right))
	for _, s := range right {
		key := compareKey(s)
		if key == "" || leftKeys[key] || seen[key] {
			continue
		}
		seen[key] = true
		d.OnlyRight = append(d.OnlyRight, s)
	}
	return d
}

// compareKey folds case and collapses whitespace. A Caser is stateful, so
// each call gets its own.
func compareKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
