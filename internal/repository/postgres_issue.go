package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"issuetrack/api/internal/models"
)

const issueColumns = "id, owner_id, title, description, severity, priority, status, created_at"

type PostgresIssueRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresIssueRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *PostgresIssueRepository {
	return &PostgresIssueRepository{pool: pool, timeout: queryTimeout}
}

func (r *PostgresIssueRepository) Create(ctx context.Context, issue models.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		INSERT INTO issues (id, owner_id, title, description, severity, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		issue.ID,
		issue.OwnerID,
		issue.Title,
		issue.Description,
		issue.Severity,
		issue.Priority,
		issue.Status,
		issue.CreatedAt,
	)
	return err
}

func (r *PostgresIssueRepository) GetByOwner(ctx context.Context, ownerID, id string) (models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + issueColumns + ` FROM issues WHERE owner_id = $1 AND id = $2`

	return r.scanOne(r.pool.QueryRow(ctx, query, ownerID, id))
}

// escapeLike neutralizes LIKE metacharacters so a title filter is a literal
// substring match.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func (f IssueFilter) where(args []any) (string, []any) {
	clauses := []string{fmt.Sprintf("owner_id = $%d", len(args))}
	if f.Title != "" {
		args = append(args, "%"+escapeLike(f.Title)+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *PostgresIssueRepository) ListByOwner(ctx context.Context, ownerID string, filter IssueFilter, limit, offset int) ([]models.Issue, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	where, args := filter.where([]any{ownerID})

	countQuery := `SELECT COUNT(*) FROM issues WHERE ` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, limit)
	limitPos := len(listArgs)
	listArgs = append(listArgs, offset)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM issues WHERE %s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		issueColumns, where, limitPos, limitPos+1,
	)

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	issues := make([]models.Issue, 0, limit)
	for rows.Next() {
		var issue models.Issue
		if err := rows.Scan(
			&issue.ID,
			&issue.OwnerID,
			&issue.Title,
			&issue.Description,
			&issue.Severity,
			&issue.Priority,
			&issue.Status,
			&issue.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		issues = append(issues, issue)
	}
	return issues, total, rows.Err()
}

func (r *PostgresIssueRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		SELECT status, COUNT(*) FROM issues
		WHERE owner_id = $1
		GROUP BY status
	`
	return r.scanStatusCounts(ctx, query, ownerID)
}

func (r *PostgresIssueRepository) CountStatusTotals(ctx context.Context) (map[models.Status]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `SELECT status, COUNT(*) FROM issues GROUP BY status`
	return r.scanStatusCounts(ctx, query)
}

func (r *PostgresIssueRepository) scanStatusCounts(ctx context.Context, query string, args ...any) (map[models.Status]int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status models.Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// UpdateByOwner applies the patch in a single statement, so a concurrent
// update either fully precedes or fully follows this one.
func (r *PostgresIssueRepository) UpdateByOwner(ctx context.Context, ownerID, id string, patch IssuePatch) (models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE issues SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			severity    = COALESCE($5, severity),
			priority    = COALESCE($6, priority),
			status      = COALESCE($7, status)
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + issueColumns

	return r.scanOne(r.pool.QueryRow(ctx, query,
		ownerID,
		id,
		patch.Title,
		patch.Description,
		(*string)(patch.Severity),
		(*string)(patch.Priority),
		(*string)(patch.Status),
	))
}

func (r *PostgresIssueRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `DELETE FROM issues WHERE owner_id = $1 AND id = $2`
	cmd, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrIssueNotFound
	}
	return nil
}

func (r *PostgresIssueRepository) scanOne(row pgx.Row) (models.Issue, error) {
	var issue models.Issue
	if err := row.Scan(
		&issue.ID,
		&issue.OwnerID,
		&issue.Title,
		&issue.Description,
		&issue.Severity,
		&issue.Priority,
		&issue.Status,
		&issue.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Issue{}, ErrIssueNotFound
		}
		return models.Issue{}, err
	}
	return issue, nil
}
