// Package database provides SQLite-based storage for DeepResearch.
//
// The Store keeps the three logical keys of the application in a key/value
// table:
//   - DR_SCANS_HISTORY: the ten most recent scan results, as a JSON array
//   - DR_LICENSE_KEY: the redeemed license key
//   - DR_FOUNDER_PHOTO: the founder photo as a data URI
//
// It also archives every successful scan so older battlecards can be
// listed and compared after they fall out of the history.
//
// The driver is modernc.org/sqlite, which needs no cgo. The database lives
// in the XDG data directory and is opened with a single connection in WAL mode.
package database
