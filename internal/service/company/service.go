package company

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/file"
)

type CompanyServiceImpl struct {
	profileRepo company.ProfileRepository
	fileService file.FileService
}

func NewCompanyService(profileRepo company.ProfileRepository, fileService file.FileService) *CompanyServiceImpl {
	return &CompanyServiceImpl{
		profileRepo: profileRepo,
		fileService: fileService,
	}
}

var _ company.ProfileService = (*CompanyServiceImpl)(nil)

// GetProfile implements company.ProfileService.
func (c *CompanyServiceImpl) GetProfile(ctx context.Context) (company.ProfileResponse, error) {
	profile, err := c.profileRepo.Get(ctx)
	if err != nil {
		return company.ProfileResponse{}, err
	}
	return c.toResponse(ctx, profile), nil
}

// UpdateProfile implements company.ProfileService. Empty optional strings
// clear the stored value.
func (c *CompanyServiceImpl) UpdateProfile(ctx context.Context, req company.UpdateProfileRequest) (company.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return company.ProfileResponse{}, err
	}

	profile, err := c.profileRepo.Get(ctx)
	if err != nil && !errors.Is(err, company.ErrProfileNotFound) {
		return company.ProfileResponse{}, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subtitle != nil {
		profile.Subtitle = optional(*req.Subtitle)
	}
	if req.Address != nil {
		profile.Address = optional(*req.Address)
	}
	if req.FooterText != nil {
		profile.FooterText = optional(*req.FooterText)
	}
	if req.Currency != nil {
		profile.Currency = strings.ToUpper(*req.Currency)
	}
	if profile.Name == "" {
		return company.ProfileResponse{}, company.ErrProfileNotFound
	}
	if profile.Currency == "" {
		profile.Currency = "INR"
	}

	updated, err := c.profileRepo.Update(ctx, profile)
	if err != nil {
		return company.ProfileResponse{}, err
	}
	return c.toResponse(ctx, updated), nil
}

// UploadLogo implements company.ProfileService.
func (c *CompanyServiceImpl) UploadLogo(ctx context.Context, f io.Reader, filename string) (company.ProfileResponse, error) {
	current, err := c.profileRepo.Get(ctx)
	if err != nil {
		return company.ProfileResponse{}, err
	}

	logoPath, err := c.fileService.UploadCompanyLogo(ctx, f, filename)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrUnsupportedImage):
			return company.ProfileResponse{}, company.ErrInvalidLogo
		case errors.Is(err, file.ErrImageTooLarge):
			return company.ProfileResponse{}, company.ErrLogoTooLarge
		}
		return company.ProfileResponse{}, fmt.Errorf("failed to upload company logo: %w", err)
	}

	updated, err := c.profileRepo.UpdateLogo(ctx, logoPath)
	if err != nil {
		if delErr := c.fileService.DeleteFile(ctx, logoPath); delErr != nil {
			slog.Warn("failed to remove unused logo", "path", logoPath, "error", delErr)
		}
		return company.ProfileResponse{}, err
	}

	if current.LogoPath != nil && *current.LogoPath != logoPath {
		if err := c.fileService.DeleteFile(ctx, *current.LogoPath); err != nil {
			slog.Warn("failed to remove previous logo", "path", *current.LogoPath, "error", err)
		}
	}

	return c.toResponse(ctx, updated), nil
}

// Branding returns the profile as printed on payslips. A logo that cannot be
// read is left out rather than failing generation.
func (c *CompanyServiceImpl) Branding(ctx context.Context) (pdf.CompanyProfile, error) {
	profile, err := c.profileRepo.Get(ctx)
	if err != nil {
		return pdf.CompanyProfile{}, err
	}

	branding := pdf.CompanyProfile{
		Name:       profile.Name,
		Subtitle:   deref(profile.Subtitle),
		Address:    deref(profile.Address),
		FooterText: deref(profile.FooterText),
	}
	if profile.LogoPath != nil && *profile.LogoPath != "" {
		logo, err := c.fileService.ReadFile(ctx, *profile.LogoPath)
		if err != nil {
			slog.Warn("company logo unavailable", "path", *profile.LogoPath, "error", err)
		} else {
			branding.Logo = logo
			branding.LogoType = "PNG"
		}
	}
	return branding, nil
}

func (c *CompanyServiceImpl) toResponse(ctx context.Context, p company.Profile) company.ProfileResponse {
	resp := company.ProfileResponse{
		Name:       p.Name,
		Subtitle:   p.Subtitle,
		Address:    p.Address,
		FooterText: p.FooterText,
		Currency:   p.Currency,
		UpdatedAt:  p.UpdatedAt,
	}
	// Generate logo URL if exists
	if p.LogoPath != nil && *p.LogoPath != "" {
		if url, err := c.fileService.GetFileURL(ctx, *p.LogoPath, 0); err == nil {
			resp.LogoURL = &url
		}
	}
	return resp
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
