package content

import (
	"context"
	"fmt"
	"strings"

	"rangkum.app/internal/auth"
)

// Notifier receives derived side effects of content writes. Implementations
// must swallow their own failures: the triggering write has already committed
// and must not be rolled back or reported as failed.
type Notifier interface {
	CommentCreated(ctx context.Context, summary *Summary, comment *Comment, author auth.Principal)
}

// Service applies validation and ownership authorization in front of the
// content store. Mutations on existing resources follow a fixed order:
// lookup first (NotFound), then ownership (Forbidden), then the write.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// SummaryInput carries the caller-editable fields of a summary.
type SummaryInput struct {
	Title         string
	Course        string
	MeetingNumber int
	Description   string
	FilePath      string
}

func (in SummaryInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Course) == "" {
		return fmt.Errorf("%w: course is required", ErrInvalidInput)
	}
	if in.MeetingNumber <= 0 {
		return fmt.Errorf("%w: meeting_number must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *Service) CreateSummary(ctx context.Context, principal auth.Principal, in SummaryInput) (*Summary, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	sum := &Summary{
		Title:         strings.TrimSpace(in.Title),
		Course:        strings.TrimSpace(in.Course),
		MeetingNumber: in.MeetingNumber,
		Description:   in.Description,
		FilePath:      in.FilePath,
		UserID:        principal.ID,
		ClassCode:     principal.ClassCode,
		AuthorName:    principal.Name,
	}
	if err := s.store.CreateSummary(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *Service) GetSummary(ctx context.Context, id string) (*Summary, error) {
	return s.store.FindSummary(ctx, id)
}

func (s *Service) ListSummaries(ctx context.Context, classCode string, f ListFilter) ([]*Summary, error) {
	return s.store.ListSummariesByClass(ctx, classCode, f)
}

func (s *Service) ListCourses(ctx context.Context, classCode string) ([]string, error) {
	return s.store.ListCourses(ctx, classCode)
}

func (s *Service) UpdateSummary(ctx context.Context, principal auth.Principal, id string, in SummaryInput) (*Summary, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	sum, err := s.store.FindSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(principal, sum); err != nil {
		return nil, err
	}
	sum.Title = strings.TrimSpace(in.Title)
	sum.Course = strings.TrimSpace(in.Course)
	sum.MeetingNumber = in.MeetingNumber
	sum.Description = in.Description
	if err := s.store.UpdateSummary(ctx, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *Service) DeleteSummary(ctx context.Context, principal auth.Principal, id string) error {
	sum, err := s.store.FindSummary(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(principal, sum); err != nil {
		return err
	}
	return s.store.DeleteSummary(ctx, id)
}

// CreateComment persists a comment on an existing summary, then hands the
// already-committed write to the notifier. Notifier failures never propagate.
func (s *Service) CreateComment(ctx context.Context, principal auth.Principal, summaryID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	sum, err := s.store.FindSummary(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	comment := &Comment{
		Content:    strings.TrimSpace(text),
		SummaryID:  sum.ID,
		UserID:     principal.ID,
		AuthorName: principal.Name,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.CommentCreated(ctx, sum, comment, principal)
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, summaryID string) ([]*Comment, error) {
	return s.store.ListCommentsBySummary(ctx, summaryID)
}

func (s *Service) UpdateComment(ctx context.Context, principal auth.Principal, id, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	comment, err := s.store.FindComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(principal, comment); err != nil {
		return nil, err
	}
	if err := s.store.UpdateComment(ctx, id, strings.TrimSpace(text)); err != nil {
		return nil, err
	}
	comment.Content = strings.TrimSpace(text)
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, principal auth.Principal, id string) error {
	comment, err := s.store.FindComment(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(principal, comment); err != nil {
		return err
	}
	return s.store.DeleteComment(ctx, id)
}
