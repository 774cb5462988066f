package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nao1215/deepresearch/internal/database"
	"github.com/nao1215/deepresearch/internal/model"
)

// Limit is the number of results kept in the history.
const Limit = 10

// Backend persists the history list. *database.Store implements it.
type Backend interface {
	LoadHistory(ctx context.Context) ([]*model.ResearchResult, error)
	SaveHistory(ctx context.Context, results []*model.ResearchResult) error
}

// Archiver keeps every recorded result. *database.Store implements it.
type Archiver interface {
	ArchiveResult(ctx context.Context, r *model.ResearchResult) error
}

// Recorder is the scan history: at most Limit results, most recent first,
// one per target URL. The full list is persisted after every change.
type Recorder struct {
	mu       sync.RWMutex
	results  []*model.ResearchResult
	backend  Backend
	archiver Archiver
	logger   *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithArchiver also archives every added result.
func WithArchiver(a Archiver) Option {
	return func(r *Recorder) {
		r.archiver = a
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Load reads the persisted history from backend. A corrupt stored list is
// logged and treated as empty; other read errors are returned.
func Load(ctx context.Context, backend Backend, opts ...Option) (*Recorder, error) {
	r := &Recorder{backend: backend, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	results, err := backend.LoadHistory(ctx)
	switch {
	case errors.Is(err, database.ErrCorruptValue):
		r.logger.Error("history parse failed, starting with an empty history", "error", err)
		results = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	r.results = normalize(results)
	return r, nil
}

// normalize drops nil entries and duplicate targets, then truncates to Limit.
func normalize(results []*model.ResearchResult) []*model.ResearchResult {
	out := make([]*model.ResearchResult, 0, min(len(results), Limit))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r == nil || seen[r.TargetURL] {
			continue
		}
		seen[r.TargetURL] = true
		out = append(out, r)
		if len(out) == Limit {
			break
		}
	}
	return out
}

// Add records result: it is prepended, any earlier result for the same
// target URL is dropped, and the list is truncated to Limit and persisted.
// The in-memory history is only updated once the list was saved.
func (r *Recorder) Add(ctx context.Context, result *model.ResearchResult) error {
	if result == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]*model.ResearchResult, 0, Limit)
	next = append(next, result)
	for _, existing := range r.results {
		if existing.TargetURL == result.TargetURL {
			continue
		}
		next = append(next, existing)
		if len(next) == Limit {
			break
		}
	}

	if err := r.backend.SaveHistory(ctx, next); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	r.results = next

	if r.archiver != nil {
		if err := r.archiver.ArchiveResult(ctx, result); err != nil {
			r.logger.Warn("failed to archive result", "id", result.ID, "error", err)
		}
	}
	r.logger.Debug("history updated", "target", result.TargetURL, "entries", len(next))
	return nil
}

// List returns a copy of the history, most recent first.
func (r *Recorder) List() []*model.ResearchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.results)
}

// Len returns the number of results in the history.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

// Find returns the result with the given id.
func (r *Recorder) Find(id string) (*model.ResearchResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.results {
		if result.ID == id {
			return result, true
		}
	}
	return nil, false
}

// FindByTarget returns the result for the given target URL.
func (r *Recorder) FindByTarget(targetURL string) (*model.ResearchResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, result := range r.results {
		if result.TargetURL == targetURL {
			return result, true
		}
	}
	return nil, false
}
