package repository

import (
	"context"

	"studyhub/internal/domain/entity"
)

// ReportRepository opens transactions for report submission.
type ReportRepository interface {
	BeginTx(ctx context.Context) (ReportTx, error)
}

// ReportTx is a single unit of work over contents and content_reports.
// Callers must end it with exactly one successful Commit, or Rollback.
type ReportTx interface {
	// GetActiveContent returns the content with the given id if it exists and
	// is not soft-deleted. It returns (nil, nil) when no such row exists.
	GetActiveContent(ctx context.Context, id int64) (*entity.Content, error)

	// CreateReport inserts the report and sets its ID, Status and CreatedAt
	// from the stored row.
	CreateReport(ctx context.Context, report *entity.Report) error

	Commit() error
	Rollback() error
}
