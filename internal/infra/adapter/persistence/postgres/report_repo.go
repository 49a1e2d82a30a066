package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/domain/entity"
	"studyhub/internal/repository"
)

type ReportRepo struct{ db *sql.DB }

func NewReportRepo(db *sql.DB) repository.ReportRepository {
	return &ReportRepo{db: db}
}

// BeginTx starts a read-committed transaction.
func (repo *ReportRepo) BeginTx(ctx context.Context) (repository.ReportTx, error) {
	tx, err := repo.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("BeginTx: %w", err)
	}
	return &reportTx{tx: tx}, nil
}

type reportTx struct{ tx *sql.Tx }

func (t *reportTx) GetActiveContent(ctx context.Context, id int64) (*entity.Content, error) {
	const query = `
SELECT id, title, content_type, deleted_at
FROM contents
WHERE id = $1
  AND deleted_at IS NULL
LIMIT 1`
	var content entity.Content
	var contentType string
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&content.ID, &content.Title, &contentType, &content.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetActiveContent: %w", err)
	}
	content.Type = entity.ContentType(contentType)
	return &content, nil
}

func (t *reportTx) CreateReport(ctx context.Context, report *entity.Report) error {
	if report.Status == "" {
		report.Status = entity.StatusOpen
	}
	const query = `
INSERT INTO content_reports (reporter_id, content_id, reason_category, reason_details, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`
	err := t.tx.QueryRowContext(ctx, query,
		report.ReporterID, report.ContentID,
		string(report.ReasonCategory), report.ReasonDetails,
		string(report.Status),
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreateReport: %w", err)
	}
	return nil
}

func (t *reportTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("Commit: %w", err)
	}
	return nil
}

// Rollback wraps the driver error; errors.Is(err, sql.ErrTxDone) still holds
// after a successful Commit.
func (t *reportTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("Rollback: %w", err)
	}
	return nil
}
