package company

import "context"

type ProfileRepository interface {
	Get(ctx context.Context) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	UpdateLogo(ctx context.Context, logoPath string) (Profile, error)
}
