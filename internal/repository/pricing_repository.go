package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// PricingRepository provides data access methods for the pricing_company and size_price tables.
type PricingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPricingRepository creates a new PricingRepository with the provided database connection.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// WithTx returns a new PricingRepository scoped to the provided transaction.
func (r *PricingRepository) WithTx(tx *sql.Tx) *PricingRepository {
	return &PricingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PricingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetCompanies retrieves all pricing companies ordered by name.
func (r *PricingRepository) GetCompanies(ctx context.Context) ([]model.PricingCompany, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT id, name FROM pricing_company ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing_company table: %w", err)
	}
	defer rows.Close()

	companies := []model.PricingCompany{}
	for rows.Next() {
		var c model.PricingCompany
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pricing_company table results: %w", err)
		}
		companies = append(companies, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pricing_company table: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a single pricing company.
// Returns ErrPricingCompanyNotFound if no company with the given ID exists.
func (r *PricingRepository) GetCompany(ctx context.Context, companyID string) (model.PricingCompany, error) {
	var c model.PricingCompany
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, name FROM pricing_company WHERE id = ?`, companyID,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PricingCompany{}, apperrors.ErrPricingCompanyNotFound
	}
	if err != nil {
		return model.PricingCompany{}, fmt.Errorf("failed to query pricing company: %w", err)
	}
	return c, nil
}

// InsertCompany creates a pricing company.
func (r *PricingRepository) InsertCompany(ctx context.Context, c model.PricingCompany) error {
	if _, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO pricing_company (id, name) VALUES (?, ?)`, c.ID, c.Name,
	); err != nil {
		return fmt.Errorf("failed to insert pricing company: %w", err)
	}
	return nil
}

// GetSizeGroups retrieves a company's size groups ordered by size.
func (r *PricingRepository) GetSizeGroups(ctx context.Context, companyID string) ([]allocation.SizeGroup, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, size, unit_count, unit_price
		FROM size_price
		WHERE company_id = ?
		ORDER BY size ASC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query size_price table: %w", err)
	}
	defer rows.Close()

	groups := []allocation.SizeGroup{}
	for rows.Next() {
		var g allocation.SizeGroup
		if err := rows.Scan(&g.ID, &g.Size, &g.UnitCount, &g.PerUnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan size_price table results: %w", err)
		}
		groups = append(groups, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating size_price table: %w", err)
	}
	return groups, nil
}

// InsertSizeGroup adds a size group to a company.
func (r *PricingRepository) InsertSizeGroup(ctx context.Context, companyID string, g allocation.SizeGroup) error {
	if _, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO size_price (id, company_id, size, unit_count, unit_price)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, companyID, g.Size, g.UnitCount, g.PerUnitPrice); err != nil {
		return fmt.Errorf("failed to insert size group: %w", err)
	}
	return nil
}

// UpdateUnitPrices writes the per-unit price of every given group.
func (r *PricingRepository) UpdateUnitPrices(ctx context.Context, groups []allocation.SizeGroup) error {
	for _, g := range groups {
		if _, err := r.getQuerier().ExecContext(ctx,
			`UPDATE size_price SET unit_price = ? WHERE id = ?`, g.PerUnitPrice, g.ID,
		); err != nil {
			return fmt.Errorf("failed to update unit price of %s: %w", g.Size, err)
		}
	}
	return nil
}
