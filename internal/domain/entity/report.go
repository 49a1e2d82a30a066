package entity

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"studyhub/internal/utils/text"
)

// MaxReasonDetailsLength is the maximum number of user-perceived characters
// accepted in a report's free-text details.
const MaxReasonDetailsLength = 1000

// ReasonCategory is the enumerated reason a user gives for reporting content.
type ReasonCategory string

const (
	ReasonSpam          ReasonCategory = "spam"
	ReasonInappropriate ReasonCategory = "inappropriate"
	ReasonCopyright     ReasonCategory = "copyright"
	ReasonOther         ReasonCategory = "other"
	ReasonHateSpeech    ReasonCategory = "hate_speech"
	ReasonHarassment    ReasonCategory = "harassment"
)

var reasonCategories = []ReasonCategory{
	ReasonSpam,
	ReasonInappropriate,
	ReasonCopyright,
	ReasonOther,
	ReasonHateSpeech,
	ReasonHarassment,
}

// ReasonCategories returns the accepted categories in a stable order.
// The returned slice is a copy.
func ReasonCategories() []ReasonCategory {
	return slices.Clone(reasonCategories)
}

// Valid reports whether c is one of the accepted categories.
// Matching is exact: no trimming and no case folding.
func (c ReasonCategory) Valid() bool {
	return slices.Contains(reasonCategories, c)
}

// ReportStatus is the review lifecycle state of a report.
// Only the administrative review flow moves a report past StatusOpen.
type ReportStatus string

const (
	StatusOpen      ReportStatus = "open"
	StatusReviewing ReportStatus = "reviewing"
	StatusResolved  ReportStatus = "resolved"
	StatusDismissed ReportStatus = "dismissed"
)

// Report is one abuse or policy complaint against a piece of content.
// Apart from Status, a report is immutable once persisted.
type Report struct {
	ID             int64
	ReporterID     int64
	ContentID      int64
	ReasonCategory ReasonCategory
	ReasonDetails  string
	Status         ReportStatus
	CreatedAt      time.Time
}

// NewReport builds an unsaved report in the open state.
func NewReport(reporterID, contentID int64, category ReasonCategory, details string) *Report {
	return &Report{
		ReporterID:     reporterID,
		ContentID:      contentID,
		ReasonCategory: category,
		ReasonDetails:  details,
		Status:         StatusOpen,
	}
}

// ParseContentID parses a raw content identifier. It must be a positive
// base-10 integer with no sign, whitespace or fraction.
func ParseContentID(raw string) (int64, error) {
	if raw == "" {
		return 0, &ValidationError{Field: "content_id", Message: "content_id is required"}
	}
	if strings.HasPrefix(raw, "+") {
		return 0, &ValidationError{Field: "content_id", Message: "content_id must be a positive integer"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "content_id", Message: "content_id must be a positive integer"}
	}
	return id, nil
}

// ValidateReasonCategory checks that raw is a known category.
func ValidateReasonCategory(raw string) (ReasonCategory, error) {
	if raw == "" {
		return "", &ValidationError{Field: "reason_category", Message: "reason_category is required"}
	}
	c := ReasonCategory(raw)
	if !c.Valid() {
		return "", &ValidationError{Field: "reason_category", Message: "invalid reason_category"}
	}
	return c, nil
}

// ValidateReasonDetails enforces the details length limit in user-perceived characters.
func ValidateReasonDetails(details string) error {
	if n := text.CountGraphemes(details); n > MaxReasonDetailsLength {
		return &ValidationError{
			Field:   "reason_details",
			Message: fmt.Sprintf("reason_details must be at most %d characters (got %d)", MaxReasonDetailsLength, n),
		}
	}
	return nil
}
