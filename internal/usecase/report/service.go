// Package report implements content report submission: validation,
// transactional persistence and best-effort moderator notification.
package report

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studyhub/internal/domain/entity"
	"studyhub/internal/infra/notifier"
	"studyhub/internal/observability/tracing"
	"studyhub/internal/repository"
)

// RequestContext carries the caller identity resolved by the HTTP layer.
type RequestContext struct {
	Method      string
	UserID      int64
	DisplayName string
	TenantID    string
}

// SubmitInput holds the raw form values of a report submission.
type SubmitInput struct {
	ContentID      string
	ReasonCategory string
	ReasonDetails  string
}

// Result describes an accepted report. Notified is informational only.
type Result struct {
	Report   *entity.Report
	Notified bool
	Notifier string
}

// Dispatcher delivers one notification. *notify.Service implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string, details notifier.Details) bool
	NotifierName() string
}

// ServiceFactory returns a freshly resolved Dispatcher for one submission.
type ServiceFactory func() Dispatcher

// Service orchestrates report submission.
type Service struct {
	Repo          repository.ReportRepository
	Notifications ServiceFactory
	Links         Links
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

type validated struct {
	contentID int64
	category  entity.ReasonCategory
	details   string
}

func validate(rc RequestContext, in SubmitInput) (validated, error) {
	if rc.Method != http.MethodPost {
		return validated{}, newError(KindMethodNotAllowed, msgMethodNotAllowed, nil)
	}
	if rc.UserID <= 0 {
		return validated{}, newError(KindUnauthorized, msgUnauthorized, nil)
	}

	contentID, err := entity.ParseContentID(in.ContentID)
	if err != nil {
		return validated{}, validationError(err)
	}
	category, err := entity.ValidateReasonCategory(in.ReasonCategory)
	if err != nil {
		return validated{}, validationError(err)
	}
	if err := entity.ValidateReasonDetails(in.ReasonDetails); err != nil {
		return validated{}, validationError(err)
	}

	return validated{contentID: contentID, category: category, details: in.ReasonDetails}, nil
}

func validationError(err error) *Error {
	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return newError(KindValidation, ve.Message, err)
	}
	return newError(KindValidation, err.Error(), err)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return tracing.GetTracer()
}

// Submit validates and stores a report, then notifies moderators.
// Once the transaction commits the report is accepted; a failed
// notification is logged and reflected in Result.Notified only.
func (s *Service) Submit(ctx context.Context, rc RequestContext, in SubmitInput) (res *Result, err error) {
	ctx, span := s.tracer().Start(ctx, "report.Submit")
	defer func() {
		recordOutcome(err)
		if err != nil {
			span.SetStatus(codes.Error, KindOf(err).String())
		}
		span.End()
	}()

	v, err := validate(rc, in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("content.id", v.contentID))

	report, content, err := s.persist(ctx, rc, v)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("report.id", report.ID))

	res = &Result{Report: report}
	if s.Notifications == nil {
		s.logger().WarnContext(ctx, "no notification factory configured, report not announced",
			slog.Int64("report_id", report.ID))
		span.SetAttributes(attribute.Bool("notified", false))
		return res, nil
	}

	details := buildEnvelope(s.Links, rc, content, report)
	dispatcher := s.Notifications()
	res.Notifier = dispatcher.NotifierName()
	res.Notified = dispatcher.Dispatch(context.WithoutCancel(ctx), NotificationMessage, details)
	span.SetAttributes(attribute.Bool("notified", res.Notified))

	if !res.Notified {
		s.logger().WarnContext(ctx, "report accepted but moderator notification failed",
			slog.Int64("report_id", report.ID),
			slog.String("notifier", res.Notifier),
			slog.String("tenant_id", rc.TenantID))
	}
	return res, nil
}

// persist runs the existence check and insert in one transaction.
func (s *Service) persist(ctx context.Context, rc RequestContext, v validated) (*entity.Report, *entity.Content, error) {
	tx, err := s.Repo.BeginTx(ctx)
	if err != nil {
		s.logger().ErrorContext(ctx, "failed to begin report transaction", slog.Any("error", err))
		return nil, nil, newError(KindPersistence, msgInternal, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger().ErrorContext(ctx, "failed to roll back report transaction",
				slog.Any("error", rbErr))
		}
	}()

	content, err := tx.GetActiveContent(ctx, v.contentID)
	if err != nil {
		s.logger().ErrorContext(ctx, "failed to look up reported content",
			slog.Int64("content_id", v.contentID),
			slog.Any("error", err))
		return nil, nil, newError(KindPersistence, msgInternal, err)
	}
	if content == nil {
		return nil, nil, newError(KindNotFound, msgContentNotFound, entity.ErrNotFound)
	}

	report := entity.NewReport(rc.UserID, v.contentID, v.category, v.details)
	if err := tx.CreateReport(ctx, report); err != nil {
		s.logger().ErrorContext(ctx, "failed to insert report",
			slog.Int64("content_id", v.contentID),
			slog.Any("error", err))
		return nil, nil, newError(KindPersistence, msgInternal, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger().ErrorContext(ctx, "failed to commit report", slog.Any("error", err))
		return nil, nil, newError(KindPersistence, msgInternal, err)
	}
	committed = true

	s.logger().InfoContext(ctx, "content report stored",
		slog.Int64("report_id", report.ID),
		slog.Int64("content_id", report.ContentID),
		slog.Int64("reporter_id", report.ReporterID),
		slog.String("reason_category", string(report.ReasonCategory)),
		slog.String("tenant_id", rc.TenantID))
	return report, content, nil
}
