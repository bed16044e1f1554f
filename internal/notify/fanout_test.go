package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rangkum.app/internal/auth"
	"rangkum.app/internal/content"
)

type failingStore struct {
	Store
}

func (failingStore) Create(ctx context.Context, n *Notification) error {
	return errors.New("db down")
}

func TestFanoutNotifiesOwner(t *testing.T) {
	store := NewMemoryStore()
	fanout := NewFanout(store)
	ctx := context.Background()

	summary := &content.Summary{ID: "s1", Title: "Graph Theory", UserID: "owner-1"}
	comment := &content.Comment{ID: "c1", SummaryID: "s1", UserID: "author-2"}
	author := auth.Principal{ID: "author-2", Name: "Raka"}

	fanout.CommentCreated(ctx, summary, comment, author)

	list, err := store.ListByRecipient(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}
	n := list[0]
	if n.Type != TypeComment || n.SummaryID != "s1" || n.CommentID != "c1" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.SummaryTitle != "Graph Theory" || n.SenderName != "Raka" {
		t.Fatalf("denormalized fields missing: %+v", n)
	}
	if !strings.Contains(n.Message, "Raka") || !strings.Contains(n.Message, `"Graph Theory"`) {
		t.Fatalf("message = %q", n.Message)
	}
	if n.Read {
		t.Fatal("fresh notification must be unread")
	}
}

func TestFanoutSkipsSelfComment(t *testing.T) {
	store := NewMemoryStore()
	fanout := NewFanout(store)
	ctx := context.Background()

	summary := &content.Summary{ID: "s1", Title: "Graph Theory", UserID: "owner-1"}
	comment := &content.Comment{ID: "c1", SummaryID: "s1", UserID: "owner-1"}
	fanout.CommentCreated(ctx, summary, comment, auth.Principal{ID: "owner-1", Name: "Dina"})

	list, err := store.ListByRecipient(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("self-comment produced %d notifications", len(list))
	}
}

func TestFanoutSwallowsStoreFailure(t *testing.T) {
	fanout := NewFanout(failingStore{})
	summary := &content.Summary{ID: "s1", Title: "Graph Theory", UserID: "owner-1"}
	comment := &content.Comment{ID: "c1", SummaryID: "s1", UserID: "author-2"}

	// Must not panic or propagate anything.
	fanout.CommentCreated(context.Background(), summary, comment, auth.Principal{ID: "author-2", Name: "Raka"})
}
