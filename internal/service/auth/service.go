package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issueToken(e employee.Employee) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(e.ID, e.Email, e.Name, e.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		Employee:             employee.ToResponse(e),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique email index rejects concurrent duplicates.
	created, err := a.EmployeeRepository.Create(ctx, employee.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         employee.RoleEmployee,
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("employee registered", "employee_id", created.ID)
	return a.issueToken(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	found, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueToken(found)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt int64) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, expiresAt)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, identity auth.Identity) (auth.MeResponse, error) {
	if identity.IsZero() {
		return auth.MeResponse{}, auth.ErrUnauthorized
	}

	found, err := a.EmployeeRepository.GetByID(ctx, identity.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.MeResponse{}, auth.ErrUnauthorized
		}
		return auth.MeResponse{}, err
	}

	return auth.MeResponse{
		ID:    found.ID,
		Name:  found.Name,
		Email: found.Email,
		Role:  found.Role,
	}, nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := a.EmployeeRepository.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if name == "" {
		name = "Administrator"
	}

	created, err := a.EmployeeRepository.Create(ctx, employee.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         employee.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin account seeded", "employee_id", created.ID, "email", created.Email)
	return nil
}
