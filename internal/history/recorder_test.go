package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/deepresearch/internal/database"
	"github.com/nao1215/deepresearch/internal/model"
)

// memoryBackend is an in-memory Backend and Archiver.
type memoryBackend struct {
	mu       sync.Mutex
	saved    []*model.ResearchResult
	saves    int
	loadErr  error
	saveErr  error
	archived []string
}

func (m *memoryBackend) LoadHistory(context.Context) ([]*model.ResearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, m.loadErr
}

func (m *memoryBackend) SaveHistory(_ context.Context, results []*model.ResearchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = results
	return nil
}

func (m *memoryBackend) ArchiveResult(_ context.Context, r *model.ResearchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = append(m.archived, r.ID)
	return nil
}

func result(target string, ts time.Time) *model.ResearchResult {
	return model.NewResearchResult(
		model.NewTarget(target, "https://mine.com", ""),
		&model.Battlecard{CompanyName: target},
		&model.KillScript{},
		nil,
		ts,
	)
}

func mustLoad(t *testing.T, backend Backend, opts ...Option) *Recorder {
	t.Helper()
	r, err := Load(context.Background(), backend, opts...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return r
}

// TestRecorder_Add tests the history invariants.
func TestRecorder_Add(t *testing.T) {
	t.Parallel()

	t.Run("distinct targets are capped at ten, most recent first", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{}
		r := mustLoad(t, backend)
		base := time.Now()

		for i := range 13 {
			if err := r.Add(context.Background(), result(fmt.Sprintf("https://t%d.io", i), base.Add(time.Duration(i)*time.Second))); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}

		list := r.List()
		if len(list) != Limit {
			t.Fatalf("expected %d entries, got %d", Limit, len(list))
		}
		if list[0].TargetURL != "https://t12.io" {
			t.Errorf("expected most recent first, got %s", list[0].TargetURL)
		}
		if list[9].TargetURL != "https://t3.io" {
			t.Errorf("expected oldest kept to be t3, got %s", list[9].TargetURL)
		}
		seen := map[string]bool{}
		for _, entry := range list {
			if seen[entry.TargetURL] {
				t.Errorf("duplicate target %s", entry.TargetURL)
			}
			seen[entry.TargetURL] = true
		}
		if backend.saves != 13 || len(backend.saved) != Limit {
			t.Errorf("expected a save per add, got %d saves of %d entries", backend.saves, len(backend.saved))
		}
	})

	t.Run("fewer than ten scans keep all", func(t *testing.T) {
		t.Parallel()
		r := mustLoad(t, &memoryBackend{})
		for i := range 4 {
			_ = r.Add(context.Background(), result(fmt.Sprintf("https://t%d.io", i), time.Now()))
		}
		if r.Len() != 4 {
			t.Errorf("expected 4 entries, got %d", r.Len())
		}
	})

	t.Run("rescanning a target replaces its entry", func(t *testing.T) {
		t.Parallel()
		r := mustLoad(t, &memoryBackend{})
		ctx := context.Background()
		first := result("https://rival.io", time.Now())
		_ = r.Add(ctx, first)
		_ = r.Add(ctx, result("https://other.io", time.Now()))
		again := result("https://rival.io", time.Now().Add(time.Minute))
		_ = r.Add(ctx, again)

		list := r.List()
		if len(list) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(list))
		}
		if list[0].ID != again.ID {
			t.Errorf("expected the rescan first, got %s", list[0].ID)
		}
		if list[0].Timestamp <= first.Timestamp {
			t.Error("expected a newer timestamp")
		}
		if _, ok := r.Find(first.ID); ok {
			t.Error("expected the earlier entry to be gone")
		}
	})

	t.Run("save failure leaves the history untouched", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{}
		r := mustLoad(t, backend)
		_ = r.Add(context.Background(), result("https://a.io", time.Now()))

		backend.saveErr = errors.New("disk full")
		if err := r.Add(context.Background(), result("https://b.io", time.Now())); err == nil {
			t.Fatal("expected error")
		}
		if r.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", r.Len())
		}
	})

	t.Run("added results are archived", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{}
		r := mustLoad(t, backend, WithArchiver(backend))
		entry := result("https://a.io", time.Now())
		_ = r.Add(context.Background(), entry)
		if len(backend.archived) != 1 || backend.archived[0] != entry.ID {
			t.Errorf("expected archived id, got %v", backend.archived)
		}
	})

	t.Run("nil result is ignored", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{}
		r := mustLoad(t, backend)
		if err := r.Add(context.Background(), nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if backend.saves != 0 {
			t.Error("expected no save")
		}
	})
}

// TestLoad tests loading the persisted history.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("corrupt history starts empty", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{loadErr: fmt.Errorf("%w: bad", database.ErrCorruptValue)}
		r := mustLoad(t, backend)
		if r.Len() != 0 {
			t.Errorf("expected empty history, got %d", r.Len())
		}
	})

	t.Run("other read errors are returned", func(t *testing.T) {
		t.Parallel()
		backend := &memoryBackend{loadErr: errors.New("io error")}
		if _, err := Load(context.Background(), backend); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("stored duplicates and overflow are normalised", func(t *testing.T) {
		t.Parallel()
		var stored []*model.ResearchResult
		for i := range 12 {
			stored = append(stored, result(fmt.Sprintf("https://t%d.io", i), time.Now()))
		}
		stored = append([]*model.ResearchResult{stored[3]}, stored...)
		r := mustLoad(t, &memoryBackend{saved: stored})
		if r.Len() != Limit {
			t.Errorf("expected %d entries, got %d", Limit, r.Len())
		}
	})

	t.Run("sqlite store round trip", func(t *testing.T) {
		t.Parallel()
		store, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		defer store.Close()

		r := mustLoad(t, store, WithArchiver(store))
		entry := result("https://rival.io", time.Now())
		if err := r.Add(context.Background(), entry); err != nil {
			t.Fatal(err)
		}

		reloaded := mustLoad(t, store)
		got, ok := reloaded.FindByTarget("https://rival.io")
		if !ok || got.ID != entry.ID {
			t.Errorf("expected persisted entry, got %+v", got)
		}
	})
}

// TestRecorder_List tests that List returns a copy.
func TestRecorder_List(t *testing.T) {
	t.Parallel()

	r := mustLoad(t, &memoryBackend{})
	_ = r.Add(context.Background(), result("https://a.io", time.Now()))
	list := r.List()
	list[0] = nil
	if _, ok := r.FindByTarget("https://a.io"); !ok {
		t.Error("mutating the returned slice changed the history")
	}
}
