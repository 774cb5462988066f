package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/deepresearch/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "deepresearch.db"

// Logical storage keys.
const (
	KeyScansHistory = "DR_SCANS_HISTORY"
	KeyLicenseKey   = "DR_LICENSE_KEY"
	KeyFounderPhoto = "DR_FOUNDER_PHOTO"
)

// ErrCorruptValue is returned when a stored value cannot be decoded.
var ErrCorruptValue = errors.New("corrupt stored value")

// Store is the local persistent storage of DeepResearch: a key/value table
// holding the scan history, the license key and the founder photo, plus an
// archive of every scan result.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the Store in dbDir.
// With CreateIfNotExists false, a missing database is an error.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		mode = "rw"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and the controller is the only one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	-- Key/value storage for the logical DR_* keys
	CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Every successful scan, kept beyond the ten-entry history
	CREATE TABLE IF NOT EXISTS research_archive (
		id TEXT PRIMARY KEY,
		target_url TEXT NOT NULL,
		company_name TEXT,
		industry TEXT,
		scanned_at INTEGER NOT NULL,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_archive_target ON research_archive(target_url);
	CREATE INDEX IF NOT EXISTS idx_archive_scanned ON research_archive(scanned_at);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO storage (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time if it is absent.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var ts string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM storage WHERE key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return parseTimestamp(ts), nil
}

// LoadHistory returns the stored scan history, most recent first.
// An absent history is empty; an undecodable one returns ErrCorruptValue.
func (s *Store) LoadHistory(ctx context.Context) ([]*model.ResearchResult, error) {
	raw, ok, err := s.Get(ctx, KeyScansHistory)
	if err != nil || !ok {
		return nil, err
	}
	var results []*model.ResearchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptValue, KeyScansHistory, err)
	}
	return results, nil
}

// SaveHistory replaces the stored scan history.
func (s *Store) SaveHistory(ctx context.Context, results []*model.ResearchResult) error {
	if results == nil {
		results = []*model.ResearchResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	return s.Set(ctx, KeyScansHistory, string(data))
}

// LicenseKey returns the persisted license key, exactly as it was redeemed.
func (s *Store) LicenseKey(ctx context.Context) (string, bool, error) {
	return s.Get(ctx, KeyLicenseKey)
}

// SetLicenseKey persists key.
func (s *Store) SetLicenseKey(ctx context.Context, key string) error {
	return s.Set(ctx, KeyLicenseKey, key)
}

// ClearLicenseKey removes the persisted license key.
func (s *Store) ClearLicenseKey(ctx context.Context) error {
	return s.Delete(ctx, KeyLicenseKey)
}

// FounderPhoto returns the founder photo data URI.
func (s *Store) FounderPhoto(ctx context.Context) (string, bool, error) {
	return s.Get(ctx, KeyFounderPhoto)
}

// SetFounderPhoto persists the founder photo data URI.
func (s *Store) SetFounderPhoto(ctx context.Context, dataURI string) error {
	return s.Set(ctx, KeyFounderPhoto, dataURI)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each of timestampFormats and returns the zero time
// if none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
