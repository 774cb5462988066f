// Package main provides the entry point for the DeepResearch CLI.
//
// DeepResearch builds sales battlecards for competitor websites with a
// grounded generative model, keeps the last ten scans locally and serves
// the same features as a small web dashboard.
//
// Usage:
//
//	deepresearch redeem <license-key>
//	deepresearch scan <competitor-url> --home <your-url>
//	deepresearch serve
//
// See --help for all available options.
package main

// main is the entry point for DeepResearch.
func main() {
	Execute()
}
