// Package crawler resolves the grounding sources attached to model responses.
//
// Grounding links returned by the search tool are redirect URLs with no
// useful title. The Resolver follows each link to its final page, honouring
// robots.txt on every hop, and reads the page title with the HTML Parser,
// falling back to a readability extraction. Sources are fetched concurrently
// with an errgroup limit, and a source that cannot be fetched is kept as is.
package crawler
