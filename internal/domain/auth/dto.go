package auth

import (
	"strings"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken          string                    `json:"access_token"`
	AccessTokenExpiresIn int64                     `json:"access_token_expires_in"`
	Employee             employee.EmployeeResponse `json:"employee"`
}

type MeResponse struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Role  employee.Role `json:"role"`
}
