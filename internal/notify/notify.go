package notify

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notify: not found")

// TypeComment tags notifications derived from comment creation.
const TypeComment = "comment"

// Notification is created only as a derived side effect of another write,
// never directly by a client. Immutable except for the read flag, which moves
// false to true exactly once.
type Notification struct {
	ID        string
	UserID    string // recipient
	SummaryID string
	CommentID string
	Type      string
	Message   string
	Read      bool
	// SummaryTitle and SenderName are denormalized at fan-out time so
	// listings need no further lookups.
	SummaryTitle string
	SenderName   string
	CreatedAt    time.Time
}

// Store persists notifications.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	// ListByRecipient returns the recipient's notifications newest-first.
	ListByRecipient(ctx context.Context, userID string) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// MarkRead is idempotent and scoped to the recipient: marking an
	// already-read notification again is a no-op, marking someone else's is
	// ErrNotFound.
	MarkRead(ctx context.Context, id, userID string) error
	// MarkAllRead is idempotent.
	MarkAllRead(ctx context.Context, userID string) error
}
