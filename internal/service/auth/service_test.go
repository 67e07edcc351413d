package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type memoryEmployeeRepo struct {
	mu        sync.Mutex
	employees []employee.Employee
}

func (m *memoryEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.employees {
		if strings.EqualFold(existing.Email, e.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.employees = append(m.employees, e)
	return e, nil
}

func (m *memoryEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployeeRepo) List(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	return m.employees, nil
}

func (m *memoryEmployeeRepo) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	return int64(len(m.employees)), nil
}

func newTestAuthService() (auth.AuthService, *memoryEmployeeRepo, jwt.Service) {
	repo := &memoryEmployeeRepo{}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	return NewAuthService(repo, jwtService), repo, jwtService
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, repo, jwtService := newTestAuthService()

	resp, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "ana@example.com", resp.Employee.Email)
	assert.Equal(t, employee.RoleEmployee, resp.Employee.Role)

	stored, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, auth.RegisterRequest{Name: "Ana Two", Email: "ANA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Greater(t, resp.AccessTokenExpiresIn, time.Now().Unix())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "who@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	svc, _, jwtService := newTestAuthService()

	resp, err := svc.Register(ctx, auth.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken, resp.AccessTokenExpiresIn))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(ctx, "", 0), auth.ErrInvalidToken)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAuthService()

	created, err := repo.Create(ctx, employee.Employee{Name: "Ana", Email: "ana@example.com", Role: employee.RoleAdmin})
	require.NoError(t, err)

	me, err := svc.Me(ctx, auth.Identity{EmployeeID: created.ID, Role: employee.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
	assert.Equal(t, employee.RoleAdmin, me.Role)

	_, err = svc.Me(ctx, auth.Identity{})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.Me(ctx, auth.Identity{EmployeeID: "missing"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestAuthService()

	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
	assert.Empty(t, repo.employees)

	require.NoError(t, svc.EnsureAdmin(ctx, "Boss", " Admin@Example.com ", "changeme"))
	require.NoError(t, svc.EnsureAdmin(ctx, "Boss", "admin@example.com", "changeme"))

	require.Len(t, repo.employees, 1)
	assert.Equal(t, employee.RoleAdmin, repo.employees[0].Role)
	assert.Equal(t, "admin@example.com", repo.employees[0].Email)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "changeme"})
	require.NoError(t, err)
	assert.Equal(t, employee.RoleAdmin, resp.Employee.Role)
}
