package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `name, subtitle, address, footer_text, currency, logo_path, updated_at`

type profileRepositoryImpl struct {
	db *database.DB
}

func NewCompanyProfileRepository(db *database.DB) company.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (company.Profile, error) {
	var p company.Profile
	err := row.Scan(&p.Name, &p.Subtitle, &p.Address, &p.FooterText, &p.Currency, &p.LogoPath, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Profile{}, company.ErrProfileNotFound
		}
		return company.Profile{}, err
	}
	return p, nil
}

// Get implements company.ProfileRepository.
func (r *profileRepositoryImpl) Get(ctx context.Context) (company.Profile, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProfile(q.QueryRow(ctx, "SELECT "+profileColumns+" FROM company_profile WHERE id = 1"))
	if err != nil && !errors.Is(err, company.ErrProfileNotFound) {
		return company.Profile{}, fmt.Errorf("failed to get company profile: %w", err)
	}
	return p, err
}

// Update implements company.ProfileRepository.
func (r *profileRepositoryImpl) Update(ctx context.Context, p company.Profile) (company.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO company_profile (id, name, subtitle, address, footer_text, currency)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, subtitle = EXCLUDED.subtitle, address = EXCLUDED.address,
			footer_text = EXCLUDED.footer_text, currency = EXCLUDED.currency, updated_at = NOW()
		RETURNING ` + profileColumns

	updated, err := scanProfile(q.QueryRow(ctx, query, p.Name, p.Subtitle, p.Address, p.FooterText, p.Currency))
	if err != nil {
		return company.Profile{}, fmt.Errorf("failed to update company profile: %w", err)
	}
	return updated, nil
}

// UpdateLogo implements company.ProfileRepository.
func (r *profileRepositoryImpl) UpdateLogo(ctx context.Context, logoPath string) (company.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE company_profile SET logo_path = $1, updated_at = NOW() WHERE id = 1 RETURNING ` + profileColumns

	updated, err := scanProfile(q.QueryRow(ctx, query, logoPath))
	if err != nil && !errors.Is(err, company.ErrProfileNotFound) {
		return company.Profile{}, fmt.Errorf("failed to update company logo: %w", err)
	}
	return updated, err
}
