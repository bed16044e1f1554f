package notify

import (
	"context"
	"database/sql"

	"rangkum.app/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = ids.New()
	}
	return s.db.QueryRowContext(ctx,
		`insert into notifications(id, user_id, summary_id, comment_id, type, message, summary_title, sender_name)
		 values($1,$2,$3,$4,$5,$6,$7,$8) returning created_at`,
		n.ID, n.UserID, n.SummaryID, n.CommentID, n.Type, n.Message, n.SummaryTitle, n.SenderName,
	).Scan(&n.CreatedAt)
}

func (s *PGStore) ListByRecipient(ctx context.Context, userID string) ([]*Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, summary_id, comment_id, type, message, is_read, summary_title, sender_name, created_at
		 from notifications where user_id=$1 order by created_at desc, id desc`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.SummaryID, &n.CommentID, &n.Type, &n.Message,
			&n.Read, &n.SummaryTitle, &n.SenderName, &n.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &n)
	}
	return res, rows.Err()
}

func (s *PGStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`select count(*) from notifications where user_id=$1 and is_read=false`, userID).Scan(&count)
	return count, err
}

func (s *PGStore) MarkRead(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`update notifications set is_read=true where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`update notifications set is_read=true where user_id=$1`, userID)
	return err
}
