package issue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
)

const topReporters = 5

type IssueServiceImpl struct {
	issue.IssueRepository
	txManager postgresql.TxManager
	location  *time.Location
	now       func() time.Time
}

func NewIssueService(issueRepo issue.IssueRepository, txManager postgresql.TxManager, location *time.Location) issue.IssueService {
	return &IssueServiceImpl{
		IssueRepository: issueRepo,
		txManager:       txManager,
		location:        location,
		now:             time.Now,
	}
}

// Create implements issue.IssueService.
func (s *IssueServiceImpl) Create(ctx context.Context, identity auth.Identity, req issue.CreateIssueRequest) (issue.IssueResponse, error) {
	if identity.IsZero() {
		return issue.IssueResponse{}, auth.ErrUnauthorized
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return issue.IssueResponse{}, issue.ErrMissingFields
	}

	priority := issue.PriorityMedium
	if req.Priority != "" {
		priority = issue.Priority(req.Priority)
	}

	created, err := s.IssueRepository.Create(ctx, issue.Issue{
		EmployeeID:  identity.EmployeeID,
		Title:       title,
		Description: description,
		Status:      issue.StatusPending,
		Priority:    priority,
		Category:    req.Category,
	})
	if err != nil {
		slog.Error("failed to create issue", "employee_id", identity.EmployeeID, "error", err)
		return issue.IssueResponse{}, fmt.Errorf("failed to create issue: %w", err)
	}

	return issue.NewIssueResponse(created), nil
}

// authorized loads an issue the caller is allowed to see.
func (s *IssueServiceImpl) authorized(ctx context.Context, identity auth.Identity, id string) (issue.Issue, error) {
	if identity.IsZero() {
		return issue.Issue{}, auth.ErrUnauthorized
	}

	found, err := s.IssueRepository.GetByID(ctx, id)
	if err != nil {
		return issue.Issue{}, err
	}
	if !identity.IsAdmin() && found.EmployeeID != identity.EmployeeID {
		return issue.Issue{}, issue.ErrUnauthorized
	}
	return found, nil
}

// Get implements issue.IssueService.
func (s *IssueServiceImpl) Get(ctx context.Context, identity auth.Identity, id string) (issue.IssueResponse, error) {
	found, err := s.authorized(ctx, identity, id)
	if err != nil {
		return issue.IssueResponse{}, err
	}
	return issue.NewIssueResponse(found), nil
}

// UpdateStatus implements issue.IssueService.
func (s *IssueServiceImpl) UpdateStatus(ctx context.Context, identity auth.Identity, req issue.UpdateIssueRequest) (issue.IssueResponse, error) {
	var updated issue.Issue
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.authorized(txCtx, identity, req.ID)
		if err != nil {
			return err
		}

		if !identity.IsAdmin() {
			if req.AdminNotes != nil {
				return issue.ErrAdminNotesDenied
			}
			if req.Status != nil && !issue.Status(*req.Status).IsForwardOf(current.Status) {
				return issue.ErrBackwardStatus
			}
		}

		if req.Status != nil {
			current.Status = issue.Status(*req.Status)
		}
		if req.Resolution != nil {
			current.Resolution = req.Resolution
		}
		if req.AdminNotes != nil {
			current.AdminNotes = req.AdminNotes
		}
		if resolvedAt := req.ParsedResolvedAt(); resolvedAt != nil {
			current.ResolvedAt = resolvedAt
		} else if req.Status != nil && current.Status == issue.StatusResolved {
			now := s.now()
			current.ResolvedAt = &now
		}

		updated, err = s.IssueRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		return issue.IssueResponse{}, err
	}

	return issue.NewIssueResponse(updated), nil
}

// Delete implements issue.IssueService.
func (s *IssueServiceImpl) Delete(ctx context.Context, identity auth.Identity, id string) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.authorized(txCtx, identity, id)
		if err != nil {
			return err
		}
		if current.Status != issue.StatusPending {
			return issue.ErrIssueNotDeletable
		}
		return s.IssueRepository.Delete(txCtx, id)
	})
}

// List implements issue.IssueService.
func (s *IssueServiceImpl) List(ctx context.Context, identity auth.Identity, filter issue.IssueFilter) (issue.ListIssueResponse, error) {
	if identity.IsZero() {
		return issue.ListIssueResponse{}, auth.ErrUnauthorized
	}

	if !identity.IsAdmin() {
		own := identity.EmployeeID
		filter.EmployeeID = &own
	}
	if filter.Date != nil {
		from := s.createdFrom(issue.DateRange(*filter.Date))
		filter.CreatedFrom = &from
	}

	issues, total, err := s.IssueRepository.List(ctx, filter)
	if err != nil {
		return issue.ListIssueResponse{}, fmt.Errorf("failed to list issues: %w", err)
	}

	return issue.NewListIssueResponse(issues, total, filter.Page, filter.Limit), nil
}

func (s *IssueServiceImpl) createdFrom(r issue.DateRange) time.Time {
	now := s.now().In(s.location)
	switch r {
	case issue.DateToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, s.location)
	case issue.DateWeek:
		return now.AddDate(0, 0, -7)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Stats implements issue.IssueService.
func (s *IssueServiceImpl) Stats(ctx context.Context, identity auth.Identity) (issue.IssueStats, error) {
	if !identity.IsAdmin() {
		return issue.IssueStats{}, auth.ErrForbidden
	}

	stats, err := s.IssueRepository.Stats(ctx, topReporters)
	if err != nil {
		return issue.IssueStats{}, fmt.Errorf("failed to get issue stats: %w", err)
	}
	if stats.ByEmployee == nil {
		stats.ByEmployee = []issue.EmployeeIssueCount{}
	}
	return stats, nil
}
