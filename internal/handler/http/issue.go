package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

type IssueHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type issueHandlerImpl struct {
	issueService issue.IssueService
}

func NewIssueHandler(issueService issue.IssueService) IssueHandler {
	return &issueHandlerImpl{
		issueService: issueService,
	}
}

// Create implements IssueHandler.
func (h *issueHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req issue.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateIssue decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.issueService.Create(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Issue reported successfully", created)
}

// Get implements IssueHandler.
func (h *issueHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, issue.ErrIssueNotFound)
	if !ok {
		return
	}

	found, err := h.issueService.Get(r.Context(), middleware.IdentityFromContext(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements IssueHandler.
func (h *issueHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, issue.ErrIssueNotFound)
	if !ok {
		return
	}

	var req issue.UpdateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateIssue decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.issueService.UpdateStatus(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Issue updated successfully", updated)
}

// Delete implements IssueHandler.
func (h *issueHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, issue.ErrIssueNotFound)
	if !ok {
		return
	}

	if err := h.issueService.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Issue deleted successfully", nil)
}

// List implements IssueHandler.
func (h *issueHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter issue.IssueFilter
	query := r.URL.Query()

	optional := func(key string) *string {
		if v := query.Get(key); v != "" {
			return &v
		}
		return nil
	}
	filter.EmployeeID = optional("employee")
	filter.Status = optional("status")
	filter.Priority = optional("priority")
	filter.Category = optional("category")
	filter.Search = optional("search")
	filter.Date = optional("date")

	var err error
	if filter.Page, err = queryInt(r, "page"); err != nil {
		response.HandleError(w, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	issues, err := h.issueService.List(r.Context(), middleware.IdentityFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, issues)
}

// Stats implements IssueHandler.
func (h *issueHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.issueService.Stats(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
