package entity

import "time"

// ContentType identifies the kind of user-authored study content.
type ContentType string

const (
	ContentTypeNote       ContentType = "note"
	ContentTypeProblemSet ContentType = "problem_set"
	ContentTypeFlashcard  ContentType = "flashcard"
)

// Content is a user-authored unit (note, problem set or flashcard deck)
// that can be the target of a report. This package only reads it.
type Content struct {
	ID        int64
	Title     string
	Type      ContentType
	DeletedAt *time.Time
}

// IsDeleted reports whether the content has been soft-deleted.
func (c *Content) IsDeleted() bool {
	return c.DeletedAt != nil
}
