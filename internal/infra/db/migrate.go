package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp creates the tables the report flow reads and writes.
// Every statement is idempotent so it is safe to run on each start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS contents (
    id           BIGSERIAL PRIMARY KEY,
    owner_id     BIGINT NOT NULL,
    title        TEXT NOT NULL,
    content_type VARCHAR(20) NOT NULL
                 CHECK (content_type IN ('note', 'problem_set', 'flashcard')),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    deleted_at   TIMESTAMPTZ
)`); err != nil {
		return fmt.Errorf("create contents: %w", err)
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS content_reports (
    id              BIGSERIAL PRIMARY KEY,
    reporter_id     BIGINT NOT NULL,
    content_id      BIGINT NOT NULL REFERENCES contents(id),
    reason_category VARCHAR(20) NOT NULL
                    CHECK (reason_category IN ('spam', 'inappropriate', 'copyright', 'other', 'hate_speech', 'harassment')),
    reason_details  VARCHAR(1000) NOT NULL DEFAULT '',
    status          VARCHAR(20) NOT NULL DEFAULT 'open'
                    CHECK (status IN ('open', 'reviewing', 'resolved', 'dismissed')),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create content_reports: %w", err)
	}

	indexes := []string{
		// Admin review lists reports per content and per status.
		`CREATE INDEX IF NOT EXISTS idx_content_reports_content_id ON content_reports(content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_content_reports_status ON content_reports(status)`,
		`CREATE INDEX IF NOT EXISTS idx_content_reports_reporter_id ON content_reports(reporter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_active ON contents(id) WHERE deleted_at IS NULL`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// MigrateDown drops the report table. contents is owned by the wider
// platform and is left in place.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_content_reports_reporter_id`,
		`DROP INDEX IF EXISTS idx_content_reports_status`,
		`DROP INDEX IF EXISTS idx_content_reports_content_id`,
		`DROP TABLE IF EXISTS content_reports`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
