package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when no database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate())

	_, err = db.Exec(ctx, "TRUNCATE TABLE issues, attendances, employees CASCADE")
	require.NoError(t, err)

	return db
}

func createEmployee(t *testing.T, db *database.DB, name, email string, role employee.Role) employee.Employee {
	t.Helper()

	e, err := postgresql.NewEmployeeRepository(db).Create(context.Background(), employee.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return e
}
