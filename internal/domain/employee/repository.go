package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// List returns employees in registration order, optionally restricted to one role.
	List(ctx context.Context, role *Role) ([]Employee, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
