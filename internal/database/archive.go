package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/deepresearch/internal/model"
)

// ArchiveEntry summarises an archived scan without loading the full result.
type ArchiveEntry struct {
	ID          string
	TargetURL   string
	CompanyName string
	Industry    string
	ScannedAt   time.Time
	ArchivedAt  time.Time
}

// ArchiveResult stores r in the archive. Archiving the same id twice
// replaces the stored copy, so enrichment added later is kept.
func (s *Store) ArchiveResult(ctx context.Context, r *model.ResearchResult) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO research_archive (id, target_url, company_name, industry, scanned_at, result_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		result_json = excluded.result_json,
		company_name = excluded.company_name,
		archived_at = CURRENT_TIMESTAMP
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		r.TargetURL,
		r.CompanyName(),
		r.Industry,
		r.Timestamp,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to archive result: %w", err)
	}
	return nil
}

// ArchivedTargets returns every archived target URL in alphabetical order.
func (s *Store) ArchivedTargets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT target_url FROM research_archive ORDER BY target_url`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// ArchiveEntries returns the archived scans of targetURL, most recent first.
// An empty targetURL lists every archived scan.
func (s *Store) ArchiveEntries(ctx context.Context, targetURL string) ([]ArchiveEntry, error) {
	query := `
	SELECT id, target_url, company_name, industry, scanned_at, archived_at
	FROM research_archive
	WHERE ? = '' OR target_url = ?
	ORDER BY scanned_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, targetURL, targetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var (
			e          ArchiveEntry
			company    sql.NullString
			industry   sql.NullString
			scannedAt  int64
			archivedAt string
		)
		if err := rows.Scan(&e.ID, &e.TargetURL, &company, &industry, &scannedAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive entry: %w", err)
		}
		e.CompanyName = company.String
		e.Industry = industry.String
		e.ScannedAt = time.UnixMilli(scannedAt)
		e.ArchivedAt = parseTimestamp(archivedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ArchivedResult returns the archived scan with the given id, or nil if there is none.
func (s *Store) ArchivedResult(ctx context.Context, id string) (*model.ResearchResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM research_archive WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archived result: %w", err)
	}

	var r model.ResearchResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("%w: archive %s: %v", ErrCorruptValue, id, err)
	}
	return &r, nil
}
