package content

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("content: not found")
	ErrInvalidInput = errors.New("content: invalid input")
)

// Summary is a shared write-up owned by its creator and scoped to one class.
type Summary struct {
	ID            string
	Title         string
	Course        string
	MeetingNumber int
	Description   string
	// FilePath holds the stored attachment path relative to the public root,
	// empty when the summary has no attachment.
	FilePath  string
	UserID    string
	ClassCode string
	// AuthorName is denormalized for display and filled on reads.
	AuthorName string
	CreatedAt  time.Time
}

func (s *Summary) OwnerID() string { return s.UserID }

// Comment is a discussion entry on a summary, owned by its author.
type Comment struct {
	ID         string
	Content    string
	SummaryID  string
	UserID     string
	AuthorName string
	CreatedAt  time.Time
}

func (c *Comment) OwnerID() string { return c.UserID }

// Sort orders accepted by ListFilter.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortMeeting = "meeting"
	SortCourse  = "course"
)

// ListFilter narrows and orders a class-scoped summary listing.
type ListFilter struct {
	// Search matches against title and description, case-insensitive.
	Search string
	Course string
	SortBy string
}

// Store persists summaries and comments.
type Store interface {
	CreateSummary(ctx context.Context, s *Summary) error
	FindSummary(ctx context.Context, id string) (*Summary, error)
	ListSummariesByClass(ctx context.Context, classCode string, f ListFilter) ([]*Summary, error)
	ListCourses(ctx context.Context, classCode string) ([]string, error)
	UpdateSummary(ctx context.Context, s *Summary) error
	DeleteSummary(ctx context.Context, id string) error

	CreateComment(ctx context.Context, c *Comment) error
	FindComment(ctx context.Context, id string) (*Comment, error)
	ListCommentsBySummary(ctx context.Context, summaryID string) ([]*Comment, error)
	UpdateComment(ctx context.Context, id, content string) error
	DeleteComment(ctx context.Context, id string) error
}
