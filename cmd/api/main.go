package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/auth"
	fileService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/file"
	issueService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/issue"
	reportService "github.com/cmlabs-hris/attendance-tracker-go/internal/service/report"
)

const (
	appName         = "attendance-tracker"
	appVersion      = "v1.0.0"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := appHTTP.NewLogger(appName, appVersion, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Error applying migrations: ", err)
	}

	var fileStorage storage.FileStorage
	uploadsDir := ""
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		uploadsDir = cfg.Storage.BasePath
	case "oss":
		oss := cfg.Storage.OSS
		fileStorage, err = storage.NewOSSStorage(oss.Endpoint, oss.AccessKeyID, oss.AccessKeySecret, oss.Bucket, oss.PublicBaseURL)
		if err != nil {
			log.Fatal("Failed to initialize OSS storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	location := cfg.Location()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	issueRepo := postgresql.NewIssueRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := authService.NewAuthService(employeeRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, txManager, location)
	issueSvc := issueService.NewIssueService(issueRepo, txManager, location)
	reportSvc := reportService.NewReportService(reportRepo, employeeRepo, location)
	fileSvc := fileService.NewFileService(fileStorage, attendanceRepo, cfg.Cleanup.MinAge)

	if cfg.Admin.Email != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal("Failed to seed admin account: ", err)
		}
	}

	scheduler := cron.NewScheduler(location)
	if err := cron.NewStorageJobs(fileSvc, cfg.Cleanup.Schedule, cfg.Cleanup.Timeout).RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register cron jobs: ", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     uploadsDir,
	}, jwtService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Issue:      appHTTP.NewIssueHandler(issueSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		File:       appHTTP.NewFileHandler(fileSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Type, "timezone", location.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
