package notify

import (
	"context"
	"errors"
	"testing"
)

func seedNotification(t *testing.T, store *MemoryStore, userID string) *Notification {
	t.Helper()
	n := &Notification{UserID: userID, Type: TypeComment, Message: "msg"}
	if err := store.Create(context.Background(), n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return n
}

func TestMarkReadIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	n := seedNotification(t, store, "u1")

	if err := store.MarkRead(ctx, n.ID, "u1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// Second call is a no-op, not an error.
	if err := store.MarkRead(ctx, n.ID, "u1"); err != nil {
		t.Fatalf("repeat MarkRead: %v", err)
	}
	count, err := store.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread = %d, want 0", count)
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	n := seedNotification(t, store, "u1")

	if err := store.MarkRead(ctx, n.ID, "intruder"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("MarkRead by non-recipient = %v, want ErrNotFound", err)
	}
	count, err := store.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}
}

func TestMarkAllReadAndCounts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedNotification(t, store, "u1")
	seedNotification(t, store, "u1")
	seedNotification(t, store, "u2")

	count, err := store.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	if err := store.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if err := store.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("repeat MarkAllRead: %v", err)
	}

	count, err = store.UnreadCount(ctx, "u1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread after MarkAllRead = %d, want 0", count)
	}

	// Other recipients untouched.
	count, err = store.UnreadCount(ctx, "u2")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("u2 unread = %d, want 1", count)
	}
}

func TestListByRecipientNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	first := seedNotification(t, store, "u1")
	second := seedNotification(t, store, "u1")
	seedNotification(t, store, "u2")

	list, err := store.ListByRecipient(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries, want 2", len(list))
	}
	// ULIDs are monotonic within the process, so the tie-break on equal
	// timestamps still yields newest-first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("order = [%s %s], want [%s %s]", list[0].ID, list[1].ID, second.ID, first.ID)
	}
}
