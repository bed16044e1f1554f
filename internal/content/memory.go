package content

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rangkum.app/internal/ids"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	summaries map[string]*Summary
	comments  map[string]*Comment
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		summaries: make(map[string]*Summary),
		comments:  make(map[string]*Comment),
	}
}

func (s *MemoryStore) CreateSummary(ctx context.Context, sum *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sum.ID == "" {
		sum.ID = ids.New()
	}
	sum.CreatedAt = time.Now().UTC()
	cp := *sum
	s.summaries[sum.ID] = &cp
	return nil
}

func (s *MemoryStore) FindSummary(ctx context.Context, id string) (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sum
	return &cp, nil
}

func (s *MemoryStore) ListSummariesByClass(ctx context.Context, classCode string, f ListFilter) ([]*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var res []*Summary
	for _, sum := range s.summaries {
		if sum.ClassCode != classCode {
			continue
		}
		if f.Course != "" && sum.Course != f.Course {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sum.Title), search) &&
			!strings.Contains(strings.ToLower(sum.Description), search) {
			continue
		}
		cp := *sum
		res = append(res, &cp)
	}
	sortSummaries(res, f.SortBy)
	return res, nil
}

func sortSummaries(res []*Summary, sortBy string) {
	switch sortBy {
	case SortOldest:
		sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	case SortMeeting:
		sort.Slice(res, func(i, j int) bool { return res[i].MeetingNumber < res[j].MeetingNumber })
	case SortCourse:
		sort.Slice(res, func(i, j int) bool { return res[i].Course < res[j].Course })
	default:
		sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	}
}

func (s *MemoryStore) ListCourses(ctx context.Context, classCode string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var courses []string
	for _, sum := range s.summaries {
		if sum.ClassCode != classCode {
			continue
		}
		if _, ok := seen[sum.Course]; ok {
			continue
		}
		seen[sum.Course] = struct{}{}
		courses = append(courses, sum.Course)
	}
	sort.Strings(courses)
	return courses, nil
}

func (s *MemoryStore) UpdateSummary(ctx context.Context, sum *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.summaries[sum.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = sum.Title
	existing.Course = sum.Course
	existing.MeetingNumber = sum.MeetingNumber
	existing.Description = sum.Description
	return nil
}

func (s *MemoryStore) DeleteSummary(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.summaries[id]; !ok {
		return ErrNotFound
	}
	delete(s.summaries, id)
	for cid, c := range s.comments {
		if c.SummaryID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *MemoryStore) CreateComment(ctx context.Context, c *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.summaries[c.SummaryID]; !ok {
		return ErrNotFound
	}
	if c.ID == "" {
		c.ID = ids.New()
	}
	c.CreatedAt = time.Now().UTC()
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *MemoryStore) FindComment(ctx context.Context, id string) (*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ListCommentsBySummary(ctx context.Context, summaryID string) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*Comment
	for _, c := range s.comments {
		if c.SummaryID == summaryID {
			cp := *c
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *MemoryStore) UpdateComment(ctx context.Context, id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Content = content
	return nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}
