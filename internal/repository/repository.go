// Package repository defines the persistence contracts for users and issues
// and ships two implementations: postgres (production) and in-memory (tests).
// Issue access is owner-scoped inside the queries themselves; there is no way
// to reach another owner's record through this layer.
package repository

import (
	"context"
	"errors"

	"issuetrack/api/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrIssueNotFound  = errors.New("issue not found")
)

type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// IssueFilter narrows a listing. Zero values mean "no constraint".
type IssueFilter struct {
	Title    string // case-insensitive substring match
	Priority models.Priority
	Status   models.Status
}

// IssuePatch is a partial update: nil fields keep their stored value.
// Implementations apply the patch as a single atomic write (last write wins
// under concurrent updates; there is no version check).
type IssuePatch struct {
	Title       *string
	Description *string
	Severity    *models.Severity
	Priority    *models.Priority
	Status      *models.Status
}

type IssueRepository interface {
	Create(ctx context.Context, issue models.Issue) error

	// GetByOwner returns ErrIssueNotFound both when the id does not exist
	// and when it belongs to a different owner.
	GetByOwner(ctx context.Context, ownerID, id string) (models.Issue, error)

	// ListByOwner returns one page ordered by (created_at, id) plus the
	// total number of records matching the filter within the owner scope.
	ListByOwner(ctx context.Context, ownerID string, filter IssueFilter, limit, offset int) ([]models.Issue, int, error)

	// CountByStatus aggregates the owner's records per status, ignoring any
	// filter. Statuses with no records are absent from the map.
	CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int, error)

	// CountStatusTotals aggregates across all owners, for operational
	// reporting only. Never exposed through the API.
	CountStatusTotals(ctx context.Context) (map[models.Status]int, error)

	UpdateByOwner(ctx context.Context, ownerID, id string, patch IssuePatch) (models.Issue, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}
