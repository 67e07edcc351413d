package issue

import "context"

type IssueRepository interface {
	Create(ctx context.Context, issue Issue) (Issue, error)
	GetByID(ctx context.Context, id string) (Issue, error)
	// Update persists status, resolution, admin_notes and resolved_at.
	Update(ctx context.Context, issue Issue) (Issue, error)
	Delete(ctx context.Context, id string) error
	// List returns issues newest first plus the unpaginated total.
	List(ctx context.Context, filter IssueFilter) ([]Issue, int64, error)
	// Stats aggregates over all issues; topEmployees caps ByEmployee.
	Stats(ctx context.Context, topEmployees int) (IssueStats, error)
}
