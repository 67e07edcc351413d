package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/file"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/issue"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	authService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

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
	m.employees = append(m.employees, e)
	return e, nil
}

func (m *memoryEmployeeRepo) find(match func(employee.Employee) bool) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memoryEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return m.find(func(e employee.Employee) bool { return e.ID == id })
}

func (m *memoryEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return m.find(func(e employee.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (m *memoryEmployeeRepo) List(ctx context.Context, role *employee.Role) ([]employee.Employee, error) {
	return m.employees, nil
}

func (m *memoryEmployeeRepo) CountByRole(ctx context.Context, role employee.Role) (int64, error) {
	return int64(len(m.employees)), nil
}

type stubAttendanceService struct {
	attendance.AttendanceService
	checkInErr    error
	monthlyFilter *attendance.MonthlyFilter
}

func (s *stubAttendanceService) CheckIn(ctx context.Context, identity auth.Identity) (attendance.AttendanceResponse, error) {
	if s.checkInErr != nil {
		return attendance.AttendanceResponse{}, s.checkInErr
	}
	return attendance.AttendanceResponse{ID: "att-1", EmployeeID: identity.EmployeeID}, nil
}

func (s *stubAttendanceService) Monthly(ctx context.Context, identity auth.Identity, filter attendance.MonthlyFilter) ([]attendance.AttendanceResponse, error) {
	s.monthlyFilter = &filter
	return []attendance.AttendanceResponse{}, nil
}

type stubIssueService struct {
	issue.IssueService
}

type stubReportService struct {
	report.ReportService
}

func (stubReportService) DashboardStats(ctx context.Context, identity auth.Identity) (report.DashboardStats, error) {
	return report.DashboardStats{TotalEmployees: 3}, nil
}

func (stubReportService) Export(ctx context.Context, identity auth.Identity, req report.ExportRequest) (report.ExportFile, error) {
	return report.ExportFile{Filename: "attendance-export-2025-03-12.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n")}, nil
}

type stubFileService struct {
	file.FileService
	received []string
}

func (s *stubFileService) Upload(ctx context.Context, identity auth.Identity, files []file.UploadInput) ([]file.UploadedFile, error) {
	var out []file.UploadedFile
	for _, f := range files {
		body, _ := io.ReadAll(f.Content)
		s.received = append(s.received, f.Filename+":"+string(body))
		out = append(out, file.UploadedFile{Name: f.Filename, PublicID: file.ObjectPrefix(identity.EmployeeID) + f.Filename})
	}
	return out, nil
}

type testServer struct {
	handler    http.Handler
	jwtService jwt.Service
	attendance *stubAttendanceService
	files      *stubFileService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	employees := &memoryEmployeeRepo{}

	ts := &testServer{
		jwtService: jwtService,
		attendance: &stubAttendanceService{},
		files:      &stubFileService{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts.handler = NewRouter(logger, RouterConfig{AllowedOrigins: []string{"*"}}, jwtService, Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(employees, jwtService)),
		Attendance: NewAttendanceHandler(ts.attendance),
		Issue:      NewIssueHandler(stubIssueService{}),
		Report:     NewReportHandler(stubReportService{}),
		File:       NewFileHandler(ts.files),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, role employee.Role) string {
	t.Helper()
	token, _, err := ts.jwtService.GenerateAccessToken(uuid.NewString(), "someone@example.com", "Someone", role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	return ts.do(method, path, token, body, "application/json")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) response.Response {
	t.Helper()
	var envelope struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.Response
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Ana", "email": "Ana@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.doJSON(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens auth.TokenResponse
	decode(t, rec, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, employee.RoleEmployee, tokens.Employee.Role)

	rec = ts.doJSON(http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me auth.MeResponse
	decode(t, rec, &me)
	assert.Equal(t, "ana@example.com", me.Email)

	rec = ts.doJSON(http.MethodPost, "/api/v1/auth/logout", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.doJSON(http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Ana", "email": "not-an-email", "password": "123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", "", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceRoutes(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, employee.RoleEmployee)

	assert.Equal(t, http.StatusUnauthorized, ts.doJSON(http.MethodPost, "/api/v1/attendance/check-in", "", nil).Code)

	rec := ts.doJSON(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	ts.attendance.checkInErr = attendance.ErrAlreadyCheckedIn
	rec = ts.doJSON(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.doJSON(http.MethodGet, "/api/v1/attendance/monthly?month=13", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = ts.doJSON(http.MethodGet, "/api/v1/attendance/monthly?month=abc", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Nil(t, ts.attendance.monthlyFilter)

	rec = ts.doJSON(http.MethodGet, "/api/v1/attendance/monthly?month=2&year=2025", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.attendance.monthlyFilter)
	assert.Equal(t, attendance.MonthlyFilter{Month: 2, Year: 2025}, *ts.attendance.monthlyFilter)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	employeeToken := ts.token(t, employee.RoleEmployee)
	adminToken := ts.token(t, employee.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, ts.doJSON(http.MethodGet, "/api/v1/admin/stats", employeeToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.doJSON(http.MethodPost, "/api/v1/storage/cleanup", employeeToken, nil).Code)

	rec := ts.doJSON(http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats report.DashboardStats
	decode(t, rec, &stats)
	assert.Equal(t, int64(3), stats.TotalEmployees)

	rec = ts.doJSON(http.MethodGet, "/api/v1/admin/export?format=csv", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-export-2025-03-12.csv")
	assert.Equal(t, "a,b\n", rec.Body.String())

	rec = ts.doJSON(http.MethodGet, "/api/v1/admin/employees/not-a-uuid/attendance", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssueRoutes_MalformedID(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, employee.RoleEmployee)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := ts.doJSON(method, "/api/v1/errors/123", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestIssueRoutes_MalformedEmployeeFilter(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.token(t, employee.RoleAdmin)

	rec := ts.doJSON(http.MethodGet, "/api/v1/errors?employee=abc", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee")
}

func TestUpload(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, employee.RoleEmployee)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"a.txt", "b.txt"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	rec := ts.do(http.MethodPost, "/api/v1/upload", token, &body, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"a.txt:content of a.txt", "b.txt:content of b.txt"}, ts.files.received)

	var uploaded []file.UploadedFile
	decode(t, rec, &uploaded)
	require.Len(t, uploaded, 2)

	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	require.NoError(t, mw.Close())
	rec = ts.do(http.MethodPost, "/api/v1/upload", token, &empty, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
