package notify

import (
	"context"
	"fmt"

	"rangkum.app/internal/audit"
	"rangkum.app/internal/auth"
	"rangkum.app/internal/content"
	"rangkum.app/internal/obs"
)

// Fanout derives notifications from content writes. It runs after the
// triggering write has committed, so a failed notification write is logged
// and swallowed, never surfaced to the client and never retried.
type Fanout struct {
	store Store
}

var _ content.Notifier = (*Fanout)(nil)

func NewFanout(store Store) *Fanout {
	return &Fanout{store: store}
}

// CommentCreated notifies the summary owner about a fresh comment. Authors
// commenting on their own summary are not notified.
func (f *Fanout) CommentCreated(ctx context.Context, summary *content.Summary, comment *content.Comment, author auth.Principal) {
	if summary.UserID == author.ID {
		obs.ObserveFanout("skipped_self")
		return
	}
	n := &Notification{
		UserID:       summary.UserID,
		SummaryID:    summary.ID,
		CommentID:    comment.ID,
		Type:         TypeComment,
		Message:      fmt.Sprintf("%s commented on your summary %q", author.Name, summary.Title),
		SummaryTitle: summary.Title,
		SenderName:   author.Name,
	}
	if err := f.store.Create(ctx, n); err != nil {
		obs.ObserveFanout("failed")
		_ = audit.LogEvent(ctx, "notify.fanout.failed", map[string]any{
			"recipient_id": summary.UserID,
			"summary_id":   summary.ID,
			"comment_id":   comment.ID,
			"error":        err.Error(),
		})
		return
	}
	obs.ObserveFanout("created")
}
