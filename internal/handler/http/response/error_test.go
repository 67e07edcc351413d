package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind string
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{employee.ErrEmailExists, http.StatusConflict, "CONFLICT"},
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "CONFLICT"},
		{attendance.ErrNoCheckInFound, http.StatusNotFound, "NOT_FOUND"},
		{attendance.ErrReportRequired, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrMakeupTimeRequired, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrInvalidMakeupTime, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrNotLate, http.StatusBadRequest, "BAD_REQUEST"},
		{issue.ErrIssueNotFound, http.StatusNotFound, "NOT_FOUND"},
		{issue.ErrIssueNotDeletable, http.StatusConflict, "CONFLICT"},
		{issue.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{issue.ErrMissingFields, http.StatusBadRequest, "BAD_REQUEST"},
		{file.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{fmt.Errorf("wrapped: %w", attendance.ErrAlreadyCheckedIn), http.StatusConflict, "CONFLICT"},
		{validator.ValidationErrors{{Field: "email", Message: "email is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantKind, body.Error.Code)
		})
	}
}

func TestHandleError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password authentication")
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "attendance-export-2025-03-12.csv", "text/csv", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="attendance-export-2025-03-12.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}
