package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeEmailKey = "employees_email_key"

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var role string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &role, &e.CreatedAt, &e.UpdatedAt)
	e.Role = employee.Role(role)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.PasswordHash,
		string(newEmployee.Role),
	))
	if err != nil {
		if database.IsUniqueViolation(err, employeeEmailKey) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return e, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`

	e, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []interface{}
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*role))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// CountByRole implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE role = $1`, string(role)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}
