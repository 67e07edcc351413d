package auth

import "github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"

// Identity is the authenticated caller, resolved once from the access token
// and handed to every service operation.
type Identity struct {
	EmployeeID string
	Role       employee.Role
	Email      string
	Name       string
}

func (i Identity) IsAdmin() bool {
	return i.Role == employee.RoleAdmin
}

func (i Identity) IsZero() bool {
	return i.EmployeeID == ""
}
