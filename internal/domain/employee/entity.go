package employee

import (
	"time"
)

type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}
