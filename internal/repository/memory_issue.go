package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"issuetrack/api/internal/models"
)

// MemoryIssueRepository mirrors the postgres implementation's semantics:
// owner-scoped access, (created_at, id) ordering, atomic patch application.
// Each call works on its own snapshot, so overlapping listings stay
// consistent.
type MemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[string]models.Issue
}

func NewMemoryIssueRepository() *MemoryIssueRepository {
	return &MemoryIssueRepository{issues: make(map[string]models.Issue)}
}

func (r *MemoryIssueRepository) Create(_ context.Context, issue models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.issues[issue.ID] = issue
	return nil
}

func (r *MemoryIssueRepository) GetByOwner(_ context.Context, ownerID, id string) (models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, ok := r.issues[id]
	if !ok || issue.OwnerID != ownerID {
		return models.Issue{}, ErrIssueNotFound
	}
	return issue, nil
}

func (f IssueFilter) matches(issue models.Issue) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(issue.Title), strings.ToLower(f.Title)) {
		return false
	}
	if f.Priority != "" && issue.Priority != f.Priority {
		return false
	}
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	return true
}

func (r *MemoryIssueRepository) ownedSorted(ownerID string) []models.Issue {
	owned := make([]models.Issue, 0)
	for _, issue := range r.issues {
		if issue.OwnerID == ownerID {
			owned = append(owned, issue)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.Before(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})
	return owned
}

func (r *MemoryIssueRepository) ListByOwner(_ context.Context, ownerID string, filter IssueFilter, limit, offset int) ([]models.Issue, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Issue, 0)
	for _, issue := range r.ownedSorted(ownerID) {
		if filter.matches(issue) {
			matched = append(matched, issue)
		}
	}

	total := len(matched)
	if offset >= total {
		return []models.Issue{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := make([]models.Issue, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (r *MemoryIssueRepository) CountByStatus(_ context.Context, ownerID string) (map[models.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.Status]int)
	for _, issue := range r.issues {
		if issue.OwnerID == ownerID {
			counts[issue.Status]++
		}
	}
	return counts, nil
}

func (r *MemoryIssueRepository) CountStatusTotals(_ context.Context) (map[models.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.Status]int)
	for _, issue := range r.issues {
		counts[issue.Status]++
	}
	return counts, nil
}

func (r *MemoryIssueRepository) UpdateByOwner(_ context.Context, ownerID, id string, patch IssuePatch) (models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[id]
	if !ok || issue.OwnerID != ownerID {
		return models.Issue{}, ErrIssueNotFound
	}

	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Severity != nil {
		issue.Severity = *patch.Severity
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}

	r.issues[id] = issue
	return issue, nil
}

func (r *MemoryIssueRepository) DeleteByOwner(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[id]
	if !ok || issue.OwnerID != ownerID {
		return ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}
