package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"issuetrack/api/internal/apperror"
	"issuetrack/api/internal/ids"
	"issuetrack/api/internal/models"
	"issuetrack/api/internal/repository"
)

const defaultPageSize = 10

// IssueService implements the owner-scoped issue operations. Every method
// takes the authenticated owner id explicitly; nothing here reads ambient
// request state.
type IssueService struct {
	issues repository.IssueRepository
	log    zerolog.Logger
}

func NewIssueService(issues repository.IssueRepository, log zerolog.Logger) *IssueService {
	return &IssueService{issues: issues, log: log}
}

type CreateIssueInput struct {
	Title       string
	Description string
	Severity    models.Severity
	Priority    models.Priority
	Status      models.Status
}

func (in CreateIssueInput) validate() []apperror.Violation {
	var violations []apperror.Violation
	if strings.TrimSpace(in.Title) == "" {
		violations = append(violations, apperror.Violation{Field: "title", Message: "title is required"})
	}
	if in.Severity != "" && !in.Severity.Valid() {
		violations = append(violations, apperror.Violation{Field: "severity", Message: "severity must be Low, Medium, or High"})
	}
	if in.Priority != "" && !in.Priority.Valid() {
		violations = append(violations, apperror.Violation{Field: "priority", Message: "priority must be Low, Medium, or High"})
	}
	if in.Status != "" && !in.Status.Valid() {
		violations = append(violations, apperror.Violation{Field: "status", Message: "status must be Open, In Progress, Resolved, or Closed"})
	}
	return violations
}

func (s *IssueService) Create(ctx context.Context, ownerID string, in CreateIssueInput) (models.Issue, error) {
	if violations := in.validate(); len(violations) > 0 {
		return models.Issue{}, apperror.Validation(violations...)
	}

	issue := models.Issue{
		ID:          ids.New(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Priority:    in.Priority,
		Status:      in.Status,
		CreatedAt:   time.Now().UTC(),
	}
	if issue.Severity == "" {
		issue.Severity = models.SeverityMedium
	}
	if issue.Priority == "" {
		issue.Priority = models.PriorityMedium
	}
	if issue.Status == "" {
		issue.Status = models.StatusOpen
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return models.Issue{}, apperror.Store(err)
	}

	s.log.Debug().Str("issue_id", issue.ID).Str("owner_id", ownerID).Msg("issue created")

	return issue, nil
}

type ListQuery struct {
	Page     int
	Limit    int
	Title    string
	Priority string
	Status   string
}

type ListResult struct {
	Issues       []models.Issue
	TotalPages   int
	StatusCounts map[models.Status]int
}

// List returns one page of the owner's issues under the given filter, plus
// the per-status counts over the owner's full, unfiltered scope. A page past
// the end yields an empty slice, not an error.
func (s *IssueService) List(ctx context.Context, ownerID string, q ListQuery) (ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	// Unknown filter values simply match nothing; they are not an error.
	filter := repository.IssueFilter{
		Title:    q.Title,
		Priority: models.Priority(q.Priority),
		Status:   models.Status(q.Status),
	}

	issues, total, err := s.issues.ListByOwner(ctx, ownerID, filter, limit, (page-1)*limit)
	if err != nil {
		return ListResult{}, apperror.Store(err)
	}

	counts, err := s.issues.CountByStatus(ctx, ownerID)
	if err != nil {
		return ListResult{}, apperror.Store(err)
	}

	if issues == nil {
		issues = []models.Issue{}
	}

	return ListResult{
		Issues:       issues,
		TotalPages:   (total + limit - 1) / limit,
		StatusCounts: counts,
	}, nil
}

func (s *IssueService) Get(ctx context.Context, ownerID, id string) (models.Issue, error) {
	if !ids.Valid(id) {
		return models.Issue{}, apperror.InvalidID(id)
	}

	issue, err := s.issues.GetByOwner(ctx, ownerID, id)
	if err != nil {
		return models.Issue{}, s.issueError(err)
	}
	return issue, nil
}

type UpdateIssueInput struct {
	Title       *string
	Description *string
	Severity    *models.Severity
	Priority    *models.Priority
	Status      *models.Status
}

func (in UpdateIssueInput) validate() []apperror.Violation {
	var violations []apperror.Violation
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		violations = append(violations, apperror.Violation{Field: "title", Message: "title must not be empty"})
	}
	if in.Severity != nil && !in.Severity.Valid() {
		violations = append(violations, apperror.Violation{Field: "severity", Message: "severity must be Low, Medium, or High"})
	}
	if in.Priority != nil && !in.Priority.Valid() {
		violations = append(violations, apperror.Violation{Field: "priority", Message: "priority must be Low, Medium, or High"})
	}
	if in.Status != nil && !in.Status.Valid() {
		violations = append(violations, apperror.Violation{Field: "status", Message: "status must be Open, In Progress, Resolved, or Closed"})
	}
	return violations
}

// Update applies only the supplied fields and returns the record as stored
// afterwards. Owner and creation time are immutable.
func (s *IssueService) Update(ctx context.Context, ownerID, id string, in UpdateIssueInput) (models.Issue, error) {
	if !ids.Valid(id) {
		return models.Issue{}, apperror.InvalidID(id)
	}
	if violations := in.validate(); len(violations) > 0 {
		return models.Issue{}, apperror.Validation(violations...)
	}

	patch := repository.IssuePatch{
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Priority:    in.Priority,
		Status:      in.Status,
	}

	issue, err := s.issues.UpdateByOwner(ctx, ownerID, id, patch)
	if err != nil {
		return models.Issue{}, s.issueError(err)
	}

	s.log.Debug().Str("issue_id", id).Str("owner_id", ownerID).Msg("issue updated")

	return issue, nil
}

func (s *IssueService) Delete(ctx context.Context, ownerID, id string) error {
	if !ids.Valid(id) {
		return apperror.InvalidID(id)
	}

	if err := s.issues.DeleteByOwner(ctx, ownerID, id); err != nil {
		return s.issueError(err)
	}

	s.log.Debug().Str("issue_id", id).Str("owner_id", ownerID).Msg("issue deleted")

	return nil
}

func (s *IssueService) issueError(err error) error {
	if errors.Is(err, repository.ErrIssueNotFound) {
		return apperror.NotFound("issue")
	}
	return apperror.Store(err)
}
