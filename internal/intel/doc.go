// Package intel is the AI request adapter of DeepResearch.
//
// A Client sends search-grounded, schema-constrained requests to the Gemini
// API through google.golang.org/genai and offers three operations:
//
//   - DeepScan: battlecard and kill script for a competitor (ResearchResult)
//   - LiveNews: the latest 3-5 news items about a company (NewsReport)
//   - TacticalRebuttals: four objection handlers for a sales call (RebuttalReport)
//
// Responses are checked against the same genai.Schema that was declared to
// the service before they are decoded. Every failure, whether transport,
// malformed JSON or a schema violation, is reported as an *EngineError that
// matches ErrEngineFailure:
//
//	result, err := client.DeepScan(ctx, model.NewTarget(target, home, industry))
//	if errors.Is(err, intel.ErrEngineFailure) {
//	    // show the generic failure message
//	}
package intel
