package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	SetMakeupTime(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	EmployeeAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.CheckIn(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// SetMakeupTime implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetMakeupTime(w http.ResponseWriter, r *http.Request) {
	var req attendance.MakeupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetMakeupTime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.SetMakeupTime(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Makeup time saved", record)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	// An empty body is a check-out without a report, rejected by the service.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.Today(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// data stays null until the first check-in of the day
	response.Success(w, record)
}

// Recent implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	var filter attendance.RecentFilter
	var err error

	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.Recent(r.Context(), middleware.IdentityFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	var filter attendance.MonthlyFilter
	var err error

	if filter.Month, err = queryInt(r, "month"); err != nil {
		response.HandleError(w, err)
		return
	}
	if filter.Year, err = queryInt(r, "year"); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.Monthly(r.Context(), middleware.IdentityFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// EmployeeAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathUUID(w, r, employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	records, err := h.attendanceService.EmployeeAttendance(r.Context(), middleware.IdentityFromContext(r.Context()), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// pathUUID reads the {id} parameter. Malformed ids never match a row, so
// they are answered with notFound.
func pathUUID(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}

// queryInt returns 0 for a missing parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: key, Message: key + " must be a number"}}
	}
	return n, nil
}
