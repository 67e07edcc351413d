package issue

import "time"

type Issue struct {
	ID          string
	EmployeeID  string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Category    *string
	Resolution  *string
	AdminNotes  *string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO
	EmployeeName  *string
	EmployeeEmail *string
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

func (s Status) IsValid() bool {
	return s.rank() >= 0
}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusResolved:
		return 2
	}
	return -1
}

// IsForwardOf reports whether moving from prev to s advances the lifecycle
// pending -> in-progress -> resolved. Staying put counts as forward.
func (s Status) IsForwardOf(prev Status) bool {
	return s.IsValid() && s.rank() >= prev.rank()
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
