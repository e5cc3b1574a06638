// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/bandcal/internal/gig"
)

const dateLayout = "2006-01-02"

// SQLite implements gig.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateGig adds a gig to the repository. A gig carrying an ExternalID
// that is already stored replaces the stored row, and g.ID is set to the
// stored row's ID. Overlapping gigs are allowed.
func (s *SQLite) CreateGig(ctx context.Context, g *gig.Gig) error {
	if g.ID == "" {
		g.ID = gig.NewID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO gigs (id, external_id, title, venue, gig_date, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			title      = excluded.title,
			venue      = excluded.venue,
			gig_date   = excluded.gig_date,
			start_time = excluded.start_time,
			end_time   = excluded.end_time
		RETURNING id
	`

	var id string
	err := s.db.QueryRowContext(ctx, query,
		g.ID,
		nullString(g.ExternalID),
		g.Title,
		g.Venue,
		g.Date.Format(dateLayout),
		g.Start,
		nullString(g.End),
		g.CreatedAt.Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("inserting gig: %w", err)
	}
	g.ID = id

	return nil
}

// GetGig retrieves a gig by ID.
func (s *SQLite) GetGig(ctx context.Context, id string) (*gig.Gig, error) {
	query := `
		SELECT id, external_id, title, venue, gig_date, start_time, end_time, created_at
		FROM gigs
		WHERE id = ?
	`

	g, err := scanGig(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gig.ErrGigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying gig: %w", err)
	}
	return g, nil
}

// ListGigsByDateRange returns all gigs dated within the range (inclusive).
func (s *SQLite) ListGigsByDateRange(ctx context.Context, start, end time.Time) ([]*gig.Gig, error) {
	query := `
		SELECT id, external_id, title, venue, gig_date, start_time, end_time, created_at
		FROM gigs
		WHERE gig_date >= ? AND gig_date <= ?
		ORDER BY gig_date, start_time, id
	`

	rows, err := s.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("querying gigs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var gigs []*gig.Gig
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning gig: %w", err)
		}
		gigs = append(gigs, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating gigs: %w", err)
	}

	return gigs, nil
}

// UpdateGigTimes changes a gig's start and end in place.
func (s *SQLite) UpdateGigTimes(ctx context.Context, id, start, end string) error {
	query := `UPDATE gigs SET start_time = ?, end_time = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, start, nullString(end), id)
	if err != nil {
		return fmt.Errorf("updating gig times: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return gig.ErrGigNotFound
	}

	return nil
}

// DeleteGig removes a gig.
func (s *SQLite) DeleteGig(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM gigs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting gig: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return gig.ErrGigNotFound
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGig(row scanner) (*gig.Gig, error) {
	var (
		g          gig.Gig
		externalID sql.NullString
		end        sql.NullString
		gigDate    string
		createdAt  string
	)

	err := row.Scan(
		&g.ID,
		&externalID,
		&g.Title,
		&g.Venue,
		&gigDate,
		&g.Start,
		&end,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	g.ExternalID = externalID.String
	g.End = end.String

	g.Date, err = parseDate(gigDate)
	if err != nil {
		return nil, fmt.Errorf("parsing gig date: %w", err)
	}

	g.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &g, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseDate parses a date string in the formats SQLite might return.
// Date-only values are parsed as local midnight so they compare equal to
// dates derived from time.Now().
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// "2006-01-02T00:00:00Z" placeholders are still local dates.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation(dateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	for _, f := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
