package issue

import (
	"context"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
)

type IssueService interface {
	Create(ctx context.Context, identity auth.Identity, req CreateIssueRequest) (IssueResponse, error)
	Get(ctx context.Context, identity auth.Identity, id string) (IssueResponse, error)
	// UpdateStatus changes only the supplied fields.
	UpdateStatus(ctx context.Context, identity auth.Identity, req UpdateIssueRequest) (IssueResponse, error)
	// Delete removes a pending issue.
	Delete(ctx context.Context, identity auth.Identity, id string) error
	List(ctx context.Context, identity auth.Identity, filter IssueFilter) (ListIssueResponse, error)
	Stats(ctx context.Context, identity auth.Identity) (IssueStats, error)
}
