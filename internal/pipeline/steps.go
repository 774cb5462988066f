package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/deepresearch/internal/model"
)

// Step names.
const (
	StepNews           = "news"
	StepRebuttals      = "rebuttals"
	StepResolveSources = "resolve-sources"
)

// errNilSource is returned by a step built without its dependency.
var errNilSource = errors.New("step has no source configured")

// NewsSource looks up recent news about a company.
// *intel.Client implements it.
type NewsSource interface {
	LiveNews(ctx context.Context, targetURL string) (*model.NewsReport, error)
}

// RebuttalSource generates objection handlers against a competitor.
// *intel.Client implements it.
type RebuttalSource interface {
	TacticalRebuttals(ctx context.Context, target model.Target) (*model.RebuttalReport, error)
}

// SourceResolver follows grounding links and fills in their titles.
// *crawler.Resolver implements it.
type SourceResolver interface {
	Resolve(ctx context.Context, sources []model.Source) ([]model.Source, error)
}

// NewsStep attaches live news about the target to the result.
type NewsStep struct {
	source NewsSource
}

// NewNewsStep creates a news enrichment step.
func NewNewsStep(source NewsSource) *NewsStep {
	return &NewsStep{source: source}
}

// Name returns the step name.
func (s *NewsStep) Name() string {
	return StepNews
}

// Do fetches the news and stores the items on result.
func (s *NewsStep) Do(ctx context.Context, result *model.ResearchResult) error {
	if s.source == nil {
		return errNilSource
	}
	report, err := s.source.LiveNews(ctx, result.TargetURL)
	if err != nil {
		return fmt.Errorf("failed to fetch news: %w", err)
	}
	result.News = report.Items
	return nil
}

// RebuttalStep attaches tactical rebuttals to the result.
type RebuttalStep struct {
	source RebuttalSource
}

// NewRebuttalStep creates a rebuttal enrichment step.
func NewRebuttalStep(source RebuttalSource) *RebuttalStep {
	return &RebuttalStep{source: source}
}

// Name returns the step name.
func (s *RebuttalStep) Name() string {
	return StepRebuttals
}

// Do generates the rebuttals for the result's target triple.
func (s *RebuttalStep) Do(ctx context.Context, result *model.ResearchResult) error {
	if s.source == nil {
		return errNilSource
	}
	report, err := s.source.TacticalRebuttals(ctx, model.Target{
		TargetURL: result.TargetURL,
		HomeURL:   result.HomeURL,
		Industry:  result.Industry,
	})
	if err != nil {
		return fmt.Errorf("failed to generate rebuttals: %w", err)
	}
	result.Rebuttals = report.Rebuttals
	return nil
}

// ResolveSourcesStep replaces the grounding sources with resolved ones.
type ResolveSourcesStep struct {
	resolver SourceResolver
}

// NewResolveSourcesStep creates a source resolution step.
func NewResolveSourcesStep(resolver SourceResolver) *ResolveSourcesStep {
	return &ResolveSourcesStep{resolver: resolver}
}

// Name returns the step name.
func (s *ResolveSourcesStep) Name() string {
	return StepResolveSources
}

// Do resolves every source. Sources that could not be fetched are kept
// as returned by the model.
func (s *ResolveSourcesStep) Do(ctx context.Context, result *model.ResearchResult) error {
	if s.resolver == nil {
		return errNilSource
	}
	if len(result.Sources) == 0 {
		return nil
	}
	resolved, err := s.resolver.Resolve(ctx, result.Sources)
	if err != nil {
		return fmt.Errorf("failed to resolve sources: %w", err)
	}
	result.Sources = resolved
	return nil
}
