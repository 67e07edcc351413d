package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	ana := createEmployee(t, db, "Ana", "ana@example.com", employee.RoleEmployee)
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(8*time.Hour + 30*time.Minute)

	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: ana.ID,
		WorkDate:   day,
		CheckIn:    checkIn,
		IsLate:     true,
	})
	require.NoError(t, err)
	assert.Empty(t, created.Attachments)

	t.Run("one record per day", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Attendance{
			EmployeeID: ana.ID,
			WorkDate:   day,
			CheckIn:    checkIn.Add(time.Hour),
		})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("range lookup", func(t *testing.T) {
		found, err := repo.GetByEmployeeAndRange(ctx, ana.ID, day, day.Add(24*time.Hour-time.Nanosecond))
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = repo.GetByEmployeeAndRange(ctx, ana.ID, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("makeup and check out", func(t *testing.T) {
		updated, err := repo.UpdateMakeupTime(ctx, created.ID, attendance.MakeupEvening)
		require.NoError(t, err)
		require.NotNil(t, updated.MakeupTime)
		assert.Equal(t, attendance.MakeupEvening, *updated.MakeupTime)

		out := checkIn.Add(9 * time.Hour)
		report := "Shipped the export"
		updated.CheckOut = &out
		updated.DailyReport = &report
		updated.OvertimeHours = 1
		updated.Attachments = []attendance.Attachment{
			{Name: "proof.jpg", URL: "http://localhost/uploads/a.jpg", Type: "image/jpeg", PublicID: "attendance/a.jpg"},
		}

		checkedOut, err := repo.CheckOut(ctx, updated)
		require.NoError(t, err)
		require.NotNil(t, checkedOut.CheckOut)
		assert.Equal(t, 1, checkedOut.OvertimeHours)
		assert.Equal(t, updated.Attachments, checkedOut.Attachments)

		_, err = repo.CheckOut(ctx, updated)
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

		ids, err := repo.ListAttachmentPublicIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"attendance/a.jpg"}, ids)
	})

	t.Run("list newest first", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Attendance{
			EmployeeID: ana.ID,
			WorkDate:   day.AddDate(0, 0, 1),
			CheckIn:    checkIn.AddDate(0, 0, 1),
		})
		require.NoError(t, err)

		records, err := repo.ListByEmployee(ctx, ana.ID, nil, nil, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.True(t, records[0].CheckIn.After(records[1].CheckIn))

		limited, err := repo.ListByEmployee(ctx, ana.ID, nil, nil, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("rolled back transaction leaves no record", func(t *testing.T) {
		errRollback := errors.New("rollback")
		err := postgresql.NewTxManager(db).WithinTransaction(ctx, func(txCtx context.Context) error {
			if _, err := repo.Create(txCtx, attendance.Attendance{
				EmployeeID: ana.ID,
				WorkDate:   day.AddDate(0, 0, 5),
				CheckIn:    checkIn.AddDate(0, 0, 5),
			}); err != nil {
				return err
			}
			return errRollback
		})
		assert.ErrorIs(t, err, errRollback)

		_, err = repo.GetByEmployeeAndRange(ctx, ana.ID, day.AddDate(0, 0, 5), day.AddDate(0, 0, 6))
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}
