package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := registerReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	tokens, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Employee registered", "employee_id", tokens.Employee.ID)
	response.Created(w, "Registration successful", tokens)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	tokens, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", tokens)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	expiresAt := token.Expiration()
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}

	if err := a.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r), expiresAt.Unix()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	me, err := a.authService.Me(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}
