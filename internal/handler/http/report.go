package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

type ReportHandler interface {
	DashboardStats(w http.ResponseWriter, r *http.Request)
	AttendanceStats(w http.ResponseWriter, r *http.Request)
	EmployeeRankings(w http.ResponseWriter, r *http.Request)
	EmployeesOverview(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// DashboardStats handles GET /admin/stats
func (h *reportHandlerImpl) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.DashboardStats(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// AttendanceStats handles GET /admin/attendance-stats
func (h *reportHandlerImpl) AttendanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.AttendanceStats(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// EmployeeRankings handles GET /admin/employee-rankings
func (h *reportHandlerImpl) EmployeeRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.reportService.EmployeeRankings(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rankings)
}

// EmployeesOverview handles GET /admin/employees
func (h *reportHandlerImpl) EmployeesOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reportService.EmployeesOverview(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}

// Export handles GET /admin/export?format=csv|xlsx
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{Format: r.URL.Query().Get("format")}

	file, err := h.reportService.Export(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}
