package report

import (
	"fmt"
	"strings"

	"studyhub/internal/domain/entity"
	"studyhub/internal/infra/notifier"
)

// NotificationMessage is the headline sent with every new report.
const NotificationMessage = "New content report"

// Links builds absolute deep links into the web application.
type Links struct {
	BaseURL string
}

func (l Links) base() string {
	return strings.TrimRight(l.BaseURL, "/")
}

// Content returns the viewer URL for a piece of content.
func (l Links) Content(c *entity.Content) string {
	return fmt.Sprintf("%s/content/%s/%d", l.base(), c.Type, c.ID)
}

// AdminReport returns the moderation review URL for a report.
func (l Links) AdminReport(reportID int64) string {
	return fmt.Sprintf("%s/admin/reports/%d", l.base(), reportID)
}

// buildEnvelope assembles notification details from committed data only.
func buildEnvelope(links Links, rc RequestContext, content *entity.Content, r *entity.Report) notifier.Details {
	reporter := rc.DisplayName
	if reporter == "" {
		reporter = fmt.Sprintf("user #%d", rc.UserID)
	}

	return notifier.Details{
		notifier.KeyReporterName:   reporter,
		notifier.KeyContentID:      content.ID,
		notifier.KeyContentTitle:   content.Title,
		notifier.KeyContentType:    string(content.Type),
		notifier.KeyReportID:       r.ID,
		notifier.KeyReasonCategory: string(r.ReasonCategory),
		notifier.KeyReasonDetails:  r.ReasonDetails,
		notifier.KeyContentLink:    links.Content(content),
		notifier.KeyReportLink:     links.AdminReport(r.ID),
	}
}
