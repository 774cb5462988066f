// Package history keeps the ten most recent scan results, one per target,
// and persists them through the database package after every change.
package history
