package company

import (
	"context"
	"io"
)

type ProfileService interface {
	GetProfile(ctx context.Context) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (ProfileResponse, error)
	UploadLogo(ctx context.Context, file io.Reader, filename string) (ProfileResponse, error)
}
