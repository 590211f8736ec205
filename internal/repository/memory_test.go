package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetrack/api/internal/ids"
	"issuetrack/api/internal/models"
)

func seedIssue(t *testing.T, repo *MemoryIssueRepository, ownerID, title string, status models.Status, createdAt time.Time) models.Issue {
	t.Helper()
	issue := models.Issue{
		ID:        ids.New(),
		OwnerID:   ownerID,
		Title:     title,
		Severity:  models.SeverityMedium,
		Priority:  models.PriorityMedium,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), issue))
	return issue
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := models.User{ID: ids.New(), Email: "a@x.com", PasswordHash: []byte("hash"), CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, user))

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.User{ID: ids.New(), Email: "a@x.com"}
		assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "b@x.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", found.Email)

		_, err = repo.GetByID(ctx, ids.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestMemoryIssueOwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()

	ownerA, ownerB := ids.New(), ids.New()
	issue := seedIssue(t, repo, ownerA, "Bug 1", models.StatusOpen, time.Now())

	// Owner B supplies A's exact id and still sees nothing.
	_, err := repo.GetByOwner(ctx, ownerB, issue.ID)
	assert.ErrorIs(t, err, ErrIssueNotFound)

	title := "hijacked"
	_, err = repo.UpdateByOwner(ctx, ownerB, issue.ID, IssuePatch{Title: &title})
	assert.ErrorIs(t, err, ErrIssueNotFound)

	assert.ErrorIs(t, repo.DeleteByOwner(ctx, ownerB, issue.ID), ErrIssueNotFound)

	got, err := repo.GetByOwner(ctx, ownerA, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bug 1", got.Title)
}

func TestMemoryIssueListFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()
	owner := ids.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		seedIssue(t, repo, owner, fmt.Sprintf("Bug %d", i), models.StatusOpen, base.Add(time.Duration(i)*time.Minute))
	}
	seedIssue(t, repo, ids.New(), "someone else's bug", models.StatusOpen, base)

	t.Run("pages sum to total", func(t *testing.T) {
		first, total, err := repo.ListByOwner(ctx, owner, IssueFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 15, total)
		assert.Len(t, first, 10)

		second, _, err := repo.ListByOwner(ctx, owner, IssueFilter{}, 10, 10)
		require.NoError(t, err)
		assert.Len(t, second, 5)

		third, total, err := repo.ListByOwner(ctx, owner, IssueFilter{}, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, third)
		assert.Equal(t, 15, total)
	})

	t.Run("ordering is stable", func(t *testing.T) {
		first, _, err := repo.ListByOwner(ctx, owner, IssueFilter{}, 10, 0)
		require.NoError(t, err)
		again, _, err := repo.ListByOwner(ctx, owner, IssueFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, "Bug 0", first[0].Title)
	})

	t.Run("title filter is case-insensitive substring", func(t *testing.T) {
		matched, total, err := repo.ListByOwner(ctx, owner, IssueFilter{Title: "bug 1"}, 10, 0)
		require.NoError(t, err)
		// Bug 1, Bug 10..14
		assert.Equal(t, 6, total)
		assert.Len(t, matched, 6)
	})

	t.Run("status filter", func(t *testing.T) {
		closed := seedIssue(t, repo, owner, "done", models.StatusClosed, base.Add(time.Hour))
		matched, total, err := repo.ListByOwner(ctx, owner, IssueFilter{Status: models.StatusClosed}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, matched, 1)
		assert.Equal(t, closed.ID, matched[0].ID)
	})
}

func TestMemoryIssueCountByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()
	owner := ids.New()
	now := time.Now()

	seedIssue(t, repo, owner, "a", models.StatusOpen, now)
	seedIssue(t, repo, owner, "b", models.StatusOpen, now)
	seedIssue(t, repo, owner, "c", models.StatusResolved, now)
	seedIssue(t, repo, ids.New(), "other", models.StatusOpen, now)

	counts, err := repo.CountByStatus(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, map[models.Status]int{
		models.StatusOpen:     2,
		models.StatusResolved: 1,
	}, counts)

	totals, err := repo.CountStatusTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, totals[models.StatusOpen])
}

func TestMemoryIssuePatchMergesOntoExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()
	owner := ids.New()
	issue := seedIssue(t, repo, owner, "Bug 1", models.StatusOpen, time.Now())

	status := models.StatusResolved
	updated, err := repo.UpdateByOwner(ctx, owner, issue.ID, IssuePatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, "Bug 1", updated.Title, "unpatched fields keep prior values")
	assert.Equal(t, issue.CreatedAt, updated.CreatedAt)
	assert.Equal(t, owner, updated.OwnerID)
}

func TestMemoryIssueDeleteIsPermanent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()
	owner := ids.New()
	issue := seedIssue(t, repo, owner, "Bug 1", models.StatusOpen, time.Now())

	require.NoError(t, repo.DeleteByOwner(ctx, owner, issue.ID))
	assert.ErrorIs(t, repo.DeleteByOwner(ctx, owner, issue.ID), ErrIssueNotFound)

	_, err := repo.GetByOwner(ctx, owner, issue.ID)
	assert.ErrorIs(t, err, ErrIssueNotFound)
}
