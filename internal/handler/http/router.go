package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Issue      IssueHandler
	Report     ReportHandler
	File       FileHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	// UploadsDir is served at /uploads when set (local storage only).
	UploadsDir string
}

// NewLogger builds the ECS-formatted JSON logger shared by requests and services.
func NewLogger(app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func NewRouter(logger *slog.Logger, cfg RouterConfig, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/makeup", h.Attendance.SetMakeupTime)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/recent", h.Attendance.Recent)
				r.Get("/monthly", h.Attendance.Monthly)
			})

			r.Route("/errors", func(r chi.Router) {
				r.Get("/", h.Issue.List)
				r.Post("/", h.Issue.Create)
				r.Get("/{id}", h.Issue.Get)
				r.Put("/{id}", h.Issue.Update)
				r.Delete("/{id}", h.Issue.Delete)
			})

			r.Post("/upload", h.File.Upload)
			r.Get("/storage/usage", h.File.Usage)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/storage/cleanup", h.File.Cleanup)

				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", h.Report.DashboardStats)
					r.Get("/attendance-stats", h.Report.AttendanceStats)
					r.Get("/employee-rankings", h.Report.EmployeeRankings)
					r.Get("/export", h.Report.Export)
					r.Get("/employees", h.Report.EmployeesOverview)
					r.Get("/employees/{id}/attendance", h.Attendance.EmployeeAttendance)
					r.Get("/errors/stats", h.Issue.Stats)
				})
			})
		})
	})
	return r
}
