package http

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	fileService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/file"
)

const (
	maxUploadFiles   = 10
	maxMultipartBody = maxUploadFiles*fileService.MaxUploadBytes + 1<<20
)

type FileHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	Usage(w http.ResponseWriter, r *http.Request)
	Cleanup(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	fileService file.FileService
}

func NewFileHandler(fileService file.FileService) FileHandler {
	return &fileHandlerImpl{
		fileService: fileService,
	}
}

// Upload handles multipart POST /upload with one or more "files" parts.
func (h *fileHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, file.ErrFileTooLarge)
			return
		}
		slog.Error("Upload parse error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.HandleError(w, file.ErrNoFiles)
		return
	}
	if len(headers) > maxUploadFiles {
		response.BadRequest(w, "Too many files", map[string]string{"files": "at most 10 files per upload"})
		return
	}

	inputs := make([]file.UploadInput, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			slog.Error("Upload open error", "filename", header.Filename, "error", err)
			response.BadRequest(w, "Failed to read uploaded file", nil)
			return
		}
		opened = append(opened, f)
		inputs = append(inputs, file.UploadInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}

	uploaded, err := h.fileService.Upload(r.Context(), middleware.IdentityFromContext(r.Context()), inputs)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Files uploaded successfully", uploaded)
}

// Usage handles GET /storage/usage
func (h *fileHandlerImpl) Usage(w http.ResponseWriter, r *http.Request) {
	usage, err := h.fileService.Usage(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, usage)
}

// Cleanup handles POST /storage/cleanup
func (h *fileHandlerImpl) Cleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.fileService.Cleanup(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Storage cleanup finished", "scanned", result.Scanned, "deleted", result.TotalDeleted, "failed", len(result.Failed))
	response.Success(w, result)
}
