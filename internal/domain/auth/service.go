package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	// EnsureAdmin creates the bootstrap administrator when missing.
	EnsureAdmin(ctx context.Context, email, password string) (created bool, err error)
}
