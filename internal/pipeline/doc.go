// Package pipeline enriches research results and runs scans in batches.
//
// A Pipeline is an ordered list of Steps applied to a fresh ResearchResult
// before it is recorded: attaching live news, attaching tactical rebuttals
// and resolving the grounding sources. Enrichment is best effort, so the
// application builds its pipelines with WithContinueOnError(true).
//
// BatchProcessor runs the scan of several targets with a concurrency limit
// using errgroup.
package pipeline
