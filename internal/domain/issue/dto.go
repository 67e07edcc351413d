package issue

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type CreateIssueRequest struct {
	Title       string  `json:"title" validate:"max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
}

// Validate checks field formats. Blank title or description is reported by the
// service as ErrMissingFields.
func (r *CreateIssueRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
	if r.Category != nil {
		trimmed := strings.TrimSpace(*r.Category)
		if trimmed == "" {
			r.Category = nil
		} else {
			r.Category = &trimmed
		}
	}

	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateIssueRequest struct {
	ID         string  `json:"-"`
	Status     *string `json:"status,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
	AdminNotes *string `json:"adminNotes,omitempty"`
	ResolvedAt *string `json:"resolvedAt,omitempty"` // RFC3339
}

func (r *UpdateIssueRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !Status(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, in-progress, resolved",
		})
	}
	if r.ResolvedAt != nil {
		if _, ok := validator.IsValidDateTime(*r.ResolvedAt); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "resolvedAt",
				Message: "resolvedAt must be an RFC3339 timestamp",
			})
		}
	}
	if r.Status == nil && r.Resolution == nil && r.AdminNotes == nil && r.ResolvedAt == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "request",
			Message: "at least one of status, resolution, adminNotes, resolvedAt is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedResolvedAt must only be called after Validate.
func (r *UpdateIssueRequest) ParsedResolvedAt() *time.Time {
	if r.ResolvedAt == nil {
		return nil
	}
	t, _ := validator.IsValidDateTime(*r.ResolvedAt)
	return &t
}

type DateRange string

const (
	DateToday DateRange = "today"
	DateWeek  DateRange = "week"
	DateMonth DateRange = "month"
)

type IssueFilter struct {
	EmployeeID *string `json:"employee,omitempty"`
	Status     *string `json:"status,omitempty"`
	Priority   *string `json:"priority,omitempty"`
	Category   *string `json:"category,omitempty"`
	Search     *string `json:"search,omitempty"`
	Date       *string `json:"date,omitempty"` // today, week, month

	// Resolved by the service from Date.
	CreatedFrom *time.Time `json:"-"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Validate applies pagination defaults and drops "all" selectors.
func (f *IssueFilter) Validate() error {
	var errs validator.ValidationErrors

	f.EmployeeID = normalizeSelector(f.EmployeeID)
	f.Status = normalizeSelector(f.Status)
	f.Priority = normalizeSelector(f.Priority)
	f.Category = normalizeSelector(f.Category)
	f.Date = normalizeSelector(f.Date)
	if f.Search != nil && strings.TrimSpace(*f.Search) == "" {
		f.Search = nil
	}

	if f.EmployeeID != nil {
		if _, err := uuid.Parse(*f.EmployeeID); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "employee",
				Message: "employee must be a valid employee id",
			})
		}
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, in-progress, resolved, all",
		})
	}
	if f.Priority != nil && !Priority(*f.Priority).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: low, medium, high, all",
		})
	}
	if f.Date != nil {
		switch DateRange(*f.Date) {
		case DateToday, DateWeek, DateMonth:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be one of: today, week, month, all",
			})
		}
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func normalizeSelector(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" || strings.EqualFold(s, "all") {
		return nil
	}
	return &s
}

type IssueResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employeeId"`
	EmployeeName  *string  `json:"employeeName,omitempty"`
	EmployeeEmail *string  `json:"employeeEmail,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        Status   `json:"status"`
	Priority      Priority `json:"priority"`
	Category      *string  `json:"category"`
	Resolution    *string  `json:"resolution"`
	AdminNotes    *string  `json:"adminNotes"`
	ResolvedAt    *string  `json:"resolvedAt"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func NewIssueResponse(i Issue) IssueResponse {
	resp := IssueResponse{
		ID:            i.ID,
		EmployeeID:    i.EmployeeID,
		EmployeeName:  i.EmployeeName,
		EmployeeEmail: i.EmployeeEmail,
		Title:         i.Title,
		Description:   i.Description,
		Status:        i.Status,
		Priority:      i.Priority,
		Category:      i.Category,
		Resolution:    i.Resolution,
		AdminNotes:    i.AdminNotes,
		CreatedAt:     i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     i.UpdatedAt.Format(time.RFC3339),
	}
	if i.ResolvedAt != nil {
		resolvedAt := i.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &resolvedAt
	}
	return resp
}

type ListIssueResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Issues     []IssueResponse `json:"issues"`
}

func NewListIssueResponse(issues []Issue, total int64, page, limit int) ListIssueResponse {
	resp := ListIssueResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Issues:     make([]IssueResponse, 0, len(issues)),
	}
	for _, i := range issues {
		resp.Issues = append(resp.Issues, NewIssueResponse(i))
	}

	resp.Showing = fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		resp.Showing = "0 of 0"
	}
	return resp
}

type PriorityCounts struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

type EmployeeIssueCount struct {
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	EmployeeEmail string `json:"employeeEmail"`
	Count         int64  `json:"count"`
	Pending       int64  `json:"pending"`
	Resolved      int64  `json:"resolved"`
}

type IssueStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	// Unresolved issues only.
	ByPriority PriorityCounts       `json:"byPriority"`
	ByEmployee []EmployeeIssueCount `json:"byEmployee"`
}
