package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/deepresearch/internal/model"
)

func targets(n int) []model.Target {
	out := make([]model.Target, n)
	for i := range out {
		out[i] = model.NewTarget(fmt.Sprintf("https://t%d.io", i), "https://mine.com", "")
	}
	return out
}

func okScan(_ context.Context, target model.Target) (*model.ResearchResult, error) {
	return model.NewResearchResult(target, &model.Battlecard{CompanyName: target.TargetURL}, &model.KillScript{}, nil, time.Now()), nil
}

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		opts []BatchOption
		want int
	}{
		{"defaults to one scan at a time", nil, 1},
		{"applies WithConcurrency option", []BatchOption{WithConcurrency(5)}, 5},
		{"ignores non-positive concurrency", []BatchOption{WithConcurrency(0)}, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			bp := NewBatchProcessor(okScan, tc.opts...)
			if bp.concurrency != tc.want {
				t.Errorf("expected concurrency %d, got %d", tc.want, bp.concurrency)
			}
			if bp.logger == nil {
				t.Error("expected non-nil logger")
			}
		})
	}
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("maintains result order", func(t *testing.T) {
		t.Parallel()

		in := targets(3)
		results, err := NewBatchProcessor(okScan, WithConcurrency(3)).ProcessBatch(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, r := range results {
			if r.Target.TargetURL != in[i].TargetURL || r.Result == nil || r.Result.TargetURL != in[i].TargetURL {
				t.Errorf("result[%d]: unexpected %+v", i, r)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, maxConcurrent atomic.Int32
		scan := func(ctx context.Context, target model.Target) (*model.ResearchResult, error) {
			n := current.Add(1)
			for {
				m := maxConcurrent.Load()
				if n <= m || maxConcurrent.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return okScan(ctx, target)
		}

		if _, err := NewBatchProcessor(scan, WithConcurrency(2)).ProcessBatch(context.Background(), targets(8)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if maxConcurrent.Load() > 2 {
			t.Errorf("max concurrent was %d, expected <= 2", maxConcurrent.Load())
		}
	})

	t.Run("continues after individual scan failure", func(t *testing.T) {
		t.Parallel()

		var processed atomic.Int32
		scan := func(ctx context.Context, target model.Target) (*model.ResearchResult, error) {
			processed.Add(1)
			if target.TargetURL == "https://t1.io" {
				return nil, errors.New("simulated scan failure")
			}
			return okScan(ctx, target)
		}

		results, err := NewBatchProcessor(scan).ProcessBatch(context.Background(), targets(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed.Load() != 3 {
			t.Errorf("expected 3 processed, got %d", processed.Load())
		}
		if results[1].Err == nil || results[1].Result != nil {
			t.Error("expected error in second result")
		}
		if results[2].Err != nil {
			t.Error("expected third scan to succeed")
		}
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var started atomic.Int32
		scan := func(ctx context.Context, _ model.Target) (*model.ResearchResult, error) {
			started.Add(1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return nil, nil
			}
		}

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		in := targets(10)
		results, err := NewBatchProcessor(scan, WithConcurrency(2)).ProcessBatch(ctx, in)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		//nolint:gosec // small slice
		if started.Load() >= int32(len(in)) {
			t.Error("expected some targets to not start due to cancellation")
		}
		if !errors.Is(results[len(results)-1].Err, context.Canceled) {
			t.Errorf("expected the last target to carry the cancellation, got %v", results[len(results)-1].Err)
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests callback-based processing.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	received := make(map[int]string)

	in := targets(3)
	err := NewBatchProcessor(okScan, WithConcurrency(3)).ProcessBatchWithCallback(
		context.Background(),
		in,
		func(r BatchResult, index int) {
			mu.Lock()
			received[index] = r.Result.TargetURL
			mu.Unlock()
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, target := range in {
		if received[i] != target.TargetURL {
			t.Errorf("missing callback for %q", target.TargetURL)
		}
	}
}
