package content

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

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

// Summaries ----------------------------------------------------------------

func (s *PGStore) CreateSummary(ctx context.Context, sum *Summary) error {
	if sum.ID == "" {
		sum.ID = ids.New()
	}
	return s.db.QueryRowContext(ctx,
		`insert into summaries(id, title, course, meeting_number, description, file_path, user_id, class_code)
		 values($1,$2,$3,$4,$5,nullif($6,''),$7,$8) returning created_at`,
		sum.ID, sum.Title, sum.Course, sum.MeetingNumber, sum.Description, sum.FilePath, sum.UserID, sum.ClassCode,
	).Scan(&sum.CreatedAt)
}

const summarySelect = `
	select s.id, s.title, s.course, s.meeting_number, s.description, coalesce(s.file_path,''),
	       s.user_id, s.class_code, u.name, s.created_at
	from summaries s
	join users u on s.user_id = u.id`

func (s *PGStore) FindSummary(ctx context.Context, id string) (*Summary, error) {
	row := s.db.QueryRowContext(ctx, summarySelect+` where s.id=$1`, id)
	return scanSummary(row.Scan)
}

func (s *PGStore) ListSummariesByClass(ctx context.Context, classCode string, f ListFilter) ([]*Summary, error) {
	query := summarySelect + ` where s.class_code=$1`
	args := []any{classCode}
	if f.Search != "" {
		query += ` and (s.title ilike '%'||$2||'%' or s.description ilike '%'||$2||'%')`
		args = append(args, f.Search)
	}
	if f.Course != "" {
		query += ` and s.course=$` + strconv.Itoa(len(args)+1)
		args = append(args, f.Course)
	}
	query += orderClause(f.SortBy)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Summary
	for rows.Next() {
		sum, err := scanSummary(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, sum)
	}
	return res, rows.Err()
}

// orderClause maps the caller-supplied sort keyword onto a fixed clause;
// anything unrecognized falls back to newest-first.
func orderClause(sortBy string) string {
	switch sortBy {
	case SortOldest:
		return ` order by s.created_at asc`
	case SortMeeting:
		return ` order by s.meeting_number asc`
	case SortCourse:
		return ` order by s.course asc`
	default:
		return ` order by s.created_at desc`
	}
}

func (s *PGStore) ListCourses(ctx context.Context, classCode string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`select distinct course from summaries where class_code=$1 order by course`, classCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *PGStore) UpdateSummary(ctx context.Context, sum *Summary) error {
	res, err := s.db.ExecContext(ctx,
		`update summaries set title=$2, course=$3, meeting_number=$4, description=$5 where id=$1`,
		sum.ID, sum.Title, sum.Course, sum.MeetingNumber, sum.Description)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteSummary(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from summaries where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Comments -----------------------------------------------------------------

func (s *PGStore) CreateComment(ctx context.Context, c *Comment) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	return s.db.QueryRowContext(ctx,
		`insert into comments(id, content, summary_id, user_id) values($1,$2,$3,$4) returning created_at`,
		c.ID, c.Content, c.SummaryID, c.UserID,
	).Scan(&c.CreatedAt)
}

const commentSelect = `
	select c.id, c.content, c.summary_id, c.user_id, u.name, c.created_at
	from comments c
	join users u on c.user_id = u.id`

func (s *PGStore) FindComment(ctx context.Context, id string) (*Comment, error) {
	row := s.db.QueryRowContext(ctx, commentSelect+` where c.id=$1`, id)
	var c Comment
	err := row.Scan(&c.ID, &c.Content, &c.SummaryID, &c.UserID, &c.AuthorName, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PGStore) ListCommentsBySummary(ctx context.Context, summaryID string) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		commentSelect+` where c.summary_id=$1 order by c.created_at desc`, summaryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.SummaryID, &c.UserID, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (s *PGStore) UpdateComment(ctx context.Context, id, content string) error {
	res, err := s.db.ExecContext(ctx, `update comments set content=$2 where id=$1`, id, content)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from comments where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// helpers ------------------------------------------------------------------

func scanSummary(scan func(...any) error) (*Summary, error) {
	var sum Summary
	err := scan(&sum.ID, &sum.Title, &sum.Course, &sum.MeetingNumber, &sum.Description,
		&sum.FilePath, &sum.UserID, &sum.ClassCode, &sum.AuthorName, &sum.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
