package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/deepresearch/internal/model"
)

// ScanFunc runs one scan, including any enrichment.
type ScanFunc func(ctx context.Context, target model.Target) (*model.ResearchResult, error)

// BatchResult is the outcome of one target of a batch.
type BatchResult struct {
	Target model.Target
	Result *model.ResearchResult
	Err    error
}

// BatchProcessor scans several targets with a concurrency limit.
type BatchProcessor struct {
	scan ScanFunc

	// concurrency is the maximum number of scans in flight.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Non-positive values keep the default of 1.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that runs scan for every target.
func NewBatchProcessor(scan ScanFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		scan:        scan,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch scans every target and returns the outcomes in input order.
// A failed scan does not stop the others; its error is kept in the
// BatchResult. The returned error is only set when ctx was cancelled, in
// which case targets that never started carry the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []model.Target) ([]BatchResult, error) {
	results := make([]BatchResult, len(targets))
	for i, target := range targets {
		results[i].Target = target
	}

	err := bp.ProcessBatchWithCallback(ctx, targets, func(r BatchResult, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = r
	})
	return results, err
}

// ProcessBatchWithCallback scans every target and calls callback as each
// scan finishes. The callback runs on the scanning goroutine and must be
// safe for concurrent use when the concurrency is above 1.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []model.Target,
	callback func(r BatchResult, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				callback(BatchResult{Target: target, Err: gctx.Err()}, i)
				return gctx.Err()
			default:
			}

			bp.logger.Info("scanning target",
				"target", target.TargetURL,
				"index", i+1,
				"total", len(targets),
			)

			result, err := bp.scan(gctx, target)
			if err != nil {
				bp.logger.Warn("scan failed", "target", target.TargetURL, "error", err)
			} else {
				bp.logger.Info("scan completed", "target", target.TargetURL)
			}
			callback(BatchResult{Target: target, Result: result, Err: err}, i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	bp.logger.Info("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)
	return err
}
