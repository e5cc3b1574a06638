package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS gigs (
			id          TEXT PRIMARY KEY,
			external_id TEXT UNIQUE,
			title       TEXT NOT NULL,
			venue       TEXT NOT NULL DEFAULT '',
			gig_date    TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT,
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_gigs_date ON gigs(gig_date, start_time);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating gigs table: %w", err)
	}

	return nil
}
