// Package model defines the data shared by every layer of DeepResearch.
//
// This package contains the following main types:
//   - ResearchResult: one deep scan, holding the Battlecard, the KillScript
//     and the grounding Sources
//   - NewsReport and RebuttalReport: lookups that are not kept in the history
//   - User, Credits and SessionState: the license-backed session
//   - PhotoAudit: the metadata findings of a founder photo
//
// Models are kept in their own package so the engine, storage, controller
// and report layers can share them without import cycles. Every type
// serializes to JSON for storage and the HTTP API.
package model
