package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const issueColumns = `
	i.id, i.employee_id, i.title, i.description, i.status, i.priority,
	i.category, i.resolution, i.admin_notes, i.resolved_at, i.created_at, i.updated_at`

type issueRepositoryImpl struct {
	db *database.DB
}

func NewIssueRepository(db *database.DB) issue.IssueRepository {
	return &issueRepositoryImpl{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanIssue(row pgx.Row, withEmployee bool) (issue.Issue, error) {
	var (
		i        issue.Issue
		status   string
		priority string
	)
	dest := []interface{}{
		&i.ID, &i.EmployeeID, &i.Title, &i.Description, &status, &priority,
		&i.Category, &i.Resolution, &i.AdminNotes, &i.ResolvedAt, &i.CreatedAt, &i.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &i.EmployeeName, &i.EmployeeEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return issue.Issue{}, err
	}
	i.Status = issue.Status(status)
	i.Priority = issue.Priority(priority)
	return i, nil
}

// Create implements issue.IssueRepository.
func (r *issueRepositoryImpl) Create(ctx context.Context, newIssue issue.Issue) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO issues AS i (employee_id, title, description, status, priority, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + issueColumns

	created, err := scanIssue(q.QueryRow(ctx, query,
		newIssue.EmployeeID,
		newIssue.Title,
		newIssue.Description,
		string(newIssue.Status),
		string(newIssue.Priority),
		newIssue.Category,
	), false)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("failed to create issue: %w", err)
	}
	return created, nil
}

// GetByID implements issue.IssueRepository.
func (r *issueRepositoryImpl) GetByID(ctx context.Context, id string) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + issueColumns + `, e.name, e.email
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.id = $1
	`

	found, err := scanIssue(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return issue.Issue{}, issue.ErrIssueNotFound
		}
		return issue.Issue{}, fmt.Errorf("failed to get issue: %w", err)
	}
	return found, nil
}

// Update implements issue.IssueRepository.
func (r *issueRepositoryImpl) Update(ctx context.Context, updated issue.Issue) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE issues AS i
		SET status = $2,
			resolution = $3,
			admin_notes = $4,
			resolved_at = $5,
			updated_at = NOW()
		WHERE i.id = $1
		RETURNING ` + issueColumns

	saved, err := scanIssue(q.QueryRow(ctx, query,
		updated.ID,
		string(updated.Status),
		updated.Resolution,
		updated.AdminNotes,
		updated.ResolvedAt,
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return issue.Issue{}, issue.ErrIssueNotFound
		}
		return issue.Issue{}, fmt.Errorf("failed to update issue: %w", err)
	}
	saved.EmployeeName = updated.EmployeeName
	saved.EmployeeEmail = updated.EmployeeEmail
	return saved, nil
}

// Delete implements issue.IssueRepository.
func (r *issueRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return issue.ErrIssueNotFound
	}
	return nil
}

// List implements issue.IssueRepository.
func (r *issueRepositoryImpl) List(ctx context.Context, filter issue.IssueFilter) ([]issue.Issue, int64, error) {
	q := GetQuerier(ctx, r.db)

	var whereClauses []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Priority != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.priority = $%d", argIdx))
		args = append(args, *filter.Priority)
		argIdx++
	}
	if filter.Category != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.category = $%d", argIdx))
		args = append(args, *filter.Category)
		argIdx++
	}
	if filter.Search != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(
			`(i.title ILIKE $%d ESCAPE '\' OR i.description ILIKE $%d ESCAPE '\' OR e.name ILIKE $%d ESCAPE '\' OR i.category ILIKE $%d ESCAPE '\')`,
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Search))+"%")
		argIdx++
	}
	if filter.CreatedFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("i.created_at >= $%d", argIdx))
		args = append(args, *filter.CreatedFrom)
		argIdx++
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		` + whereSQL

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s, e.name, e.email
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		%s
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $%d OFFSET $%d`, issueColumns, whereSQL, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []issue.Issue{}
	for rows.Next() {
		i, err := scanIssue(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate issues: %w", err)
	}

	return issues, total, nil
}

// Stats implements issue.IssueRepository.
func (r *issueRepositoryImpl) Stats(ctx context.Context, topEmployees int) (issue.IssueStats, error) {
	q := GetQuerier(ctx, r.db)

	var stats issue.IssueStats
	countQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE priority = 'high' AND status <> 'resolved'),
			COUNT(*) FILTER (WHERE priority = 'medium' AND status <> 'resolved'),
			COUNT(*) FILTER (WHERE priority = 'low' AND status <> 'resolved')
		FROM issues
	`
	err := q.QueryRow(ctx, countQuery).Scan(
		&stats.Total, &stats.Pending, &stats.InProgress, &stats.Resolved,
		&stats.ByPriority.High, &stats.ByPriority.Medium, &stats.ByPriority.Low,
	)
	if err != nil {
		return issue.IssueStats{}, fmt.Errorf("failed to count issue stats: %w", err)
	}

	byEmployeeQuery := `
		SELECT e.id, e.name, e.email,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE i.status = 'pending'),
			COUNT(*) FILTER (WHERE i.status = 'resolved')
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		GROUP BY e.id, e.name, e.email
		ORDER BY total DESC, e.name ASC
		LIMIT $1
	`
	rows, err := q.Query(ctx, byEmployeeQuery, topEmployees)
	if err != nil {
		return issue.IssueStats{}, fmt.Errorf("failed to aggregate issues by employee: %w", err)
	}
	defer rows.Close()

	stats.ByEmployee = []issue.EmployeeIssueCount{}
	for rows.Next() {
		var c issue.EmployeeIssueCount
		if err := rows.Scan(&c.EmployeeID, &c.EmployeeName, &c.EmployeeEmail, &c.Count, &c.Pending, &c.Resolved); err != nil {
			return issue.IssueStats{}, fmt.Errorf("failed to scan issue count: %w", err)
		}
		stats.ByEmployee = append(stats.ByEmployee, c)
	}
	if err := rows.Err(); err != nil {
		return issue.IssueStats{}, fmt.Errorf("failed to iterate issue counts: %w", err)
	}

	return stats, nil
}
