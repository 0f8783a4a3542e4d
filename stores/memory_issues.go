package stores

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityplus-be/models"
)

// MemoryIssueStore is an in-memory IssueStore used by tests.
type MemoryIssueStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Issue
	seq   map[primitive.ObjectID]int
	next  int
}

func NewMemoryIssueStore() *MemoryIssueStore {
	return &MemoryIssueStore{
		items: make(map[primitive.ObjectID]models.Issue),
		seq:   make(map[primitive.ObjectID]int),
	}
}

func (s *MemoryIssueStore) Create(ctx context.Context, issue models.Issue) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	issue.ID = primitive.NewObjectID()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	s.items[issue.ID] = issue
	s.next++
	s.seq[issue.ID] = s.next
	return issue, nil
}

func (s *MemoryIssueStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.items[id]
	if !ok {
		return models.Issue{}, ErrNotFound
	}
	return issue, nil
}

func (s *MemoryIssueStore) ListRecent(ctx context.Context, limit int64) ([]models.Issue, error) {
	issues := s.collect(func(models.Issue) bool { return true })
	if limit > 0 && int64(len(issues)) > limit {
		issues = issues[:limit]
	}
	return issues, nil
}

func (s *MemoryIssueStore) ListAll(ctx context.Context) ([]models.Issue, error) {
	return s.collect(func(models.Issue) bool { return true }), nil
}

func (s *MemoryIssueStore) ListByReporter(ctx context.Context, reporter primitive.ObjectID) ([]models.Issue, error) {
	return s.collect(func(i models.Issue) bool { return i.Citizen == reporter }), nil
}

func (s *MemoryIssueStore) ListByAssignee(ctx context.Context, assignee primitive.ObjectID) ([]models.Issue, error) {
	return s.collect(func(i models.Issue) bool {
		return i.AssignedTo != nil && *i.AssignedTo == assignee
	}), nil
}

func (s *MemoryIssueStore) collect(keep func(models.Issue) bool) []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issues := []models.Issue{}
	for _, issue := range s.items {
		if keep(issue) {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return s.seq[issues[i].ID] > s.seq[issues[j].ID]
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
	return issues
}

func (s *MemoryIssueStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus, resolvedAt *time.Time) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.items[id]
	if !ok {
		return models.Issue{}, ErrNotFound
	}
	issue.Status = status
	issue.ResolvedAt = resolvedAt
	issue.UpdatedAt = time.Now()
	s.items[id] = issue
	return issue, nil
}

func (s *MemoryIssueStore) Assign(ctx context.Context, id, staffID primitive.ObjectID) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.items[id]
	if !ok {
		return models.Issue{}, ErrNotFound
	}
	issue.AssignedTo = &staffID
	issue.UpdatedAt = time.Now()
	s.items[id] = issue
	return issue, nil
}

func (s *MemoryIssueStore) Counts(ctx context.Context) (models.IssueCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.IssueCounts
	for _, issue := range s.items {
		counts.Total++
		switch issue.Status {
		case models.StatusOpen:
			counts.Open++
		case models.StatusInProgress:
			counts.InProgress++
		case models.StatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}
