package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes token until it would have expired on its own.
	Logout(ctx context.Context, token string, expiresAt int64) error
	Me(ctx context.Context, identity Identity) (MeResponse, error)
	// EnsureAdmin creates the seed administrator unless the email is already taken.
	EnsureAdmin(ctx context.Context, name, email, password string) error
}
