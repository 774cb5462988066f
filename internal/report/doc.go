// Package report renders battlecards, live news, rebuttals, history,
// comparisons and photo audits.
//
// Three formats implement the Writer interface:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: the wire shape of the model types, for tool integration
//   - MarkdownWriter: shareable documents with tables and mermaid charts
//
// MultiWriter fans one call out to several writers, which the CLI uses to
// print to the terminal and save a file in one pass.
package report
