package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// BillboardRepository provides data access methods for the billboard table.
type BillboardRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewBillboardRepository creates a new BillboardRepository with the provided database connection.
func NewBillboardRepository(db *sql.DB) *BillboardRepository {
	return &BillboardRepository{db: db}
}

// WithTx returns a new BillboardRepository scoped to the provided transaction.
func (r *BillboardRepository) WithTx(tx *sql.Tx) *BillboardRepository {
	return &BillboardRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *BillboardRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const billboardColumns = `
	id, name, size, location, municipality, is_partnership, partner_names,
	total_capital, capital_remaining, company_pre_pct, capital_deduction_pct,
	company_post_pct, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBillboard(s rowScanner) (model.Billboard, error) {
	var b model.Billboard
	var partnerNames, createdAt string

	err := s.Scan(
		&b.ID,
		&b.Name,
		&b.Size,
		&b.Location,
		&b.Municipality,
		&b.IsPartnership,
		&partnerNames,
		&b.TotalCapital,
		&b.CapitalRemaining,
		&b.CompanyPrePct,
		&b.CapitalDeductionPct,
		&b.CompanyPostPct,
		&createdAt,
	)
	if err != nil {
		return model.Billboard{}, err
	}

	if err := json.Unmarshal([]byte(partnerNames), &b.PartnerNames); err != nil {
		return model.Billboard{}, fmt.Errorf("failed to decode partner_names of billboard %s: %w", b.ID, err)
	}
	if b.PartnerNames == nil {
		b.PartnerNames = []string{}
	}

	b.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.Billboard{}, err
	}
	return b, nil
}

// GetBillboards retrieves billboards matching the filter, ordered by name.
// Returns an empty slice if nothing matches.
func (r *BillboardRepository) GetBillboards(ctx context.Context, filter model.BillboardFilter) ([]model.Billboard, error) {
	query := `SELECT ` + billboardColumns + ` FROM billboard WHERE 1=1`
	var args []any

	if filter.OnlyPartnerships {
		query += " AND is_partnership = ?"
		args = append(args, 1)
	}
	if filter.Municipality != "" {
		query += " AND municipality = ?"
		args = append(args, filter.Municipality)
	}
	query += " ORDER BY name ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query billboard table: %w", err)
	}
	defer rows.Close()

	billboards := []model.Billboard{}
	for rows.Next() {
		b, err := scanBillboard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billboard table results: %w", err)
		}
		billboards = append(billboards, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating billboard table: %w", err)
	}

	return billboards, nil
}

// GetBillboard retrieves a single billboard.
// Returns ErrBillboardNotFound if no billboard with the given ID exists.
func (r *BillboardRepository) GetBillboard(ctx context.Context, billboardID string) (model.Billboard, error) {
	query := `SELECT ` + billboardColumns + ` FROM billboard WHERE id = ?`

	b, err := scanBillboard(r.getQuerier().QueryRowContext(ctx, query, billboardID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Billboard{}, apperrors.ErrBillboardNotFound
	}
	if err != nil {
		return model.Billboard{}, fmt.Errorf("failed to query billboard: %w", err)
	}

	return b, nil
}

// InsertBillboard creates a new billboard row.
func (r *BillboardRepository) InsertBillboard(ctx context.Context, b *model.Billboard) error {
	partnerNames, err := json.Marshal(nonNilStrings(b.PartnerNames))
	if err != nil {
		return fmt.Errorf("failed to encode partner names: %w", err)
	}

	query := `
		INSERT INTO billboard (
			id, name, size, location, municipality, is_partnership, partner_names,
			total_capital, capital_remaining, company_pre_pct, capital_deduction_pct,
			company_post_pct, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.getQuerier().ExecContext(ctx, query,
		b.ID,
		b.Name,
		b.Size,
		b.Location,
		b.Municipality,
		b.IsPartnership,
		string(partnerNames),
		b.TotalCapital,
		b.CapitalRemaining,
		b.CompanyPrePct,
		b.CapitalDeductionPct,
		b.CompanyPostPct,
		formatTimestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert billboard: %w", err)
	}

	return nil
}

// UpdatePartnership writes the partnership fields of a billboard: flag, partner
// names, capital account and the three percentage knobs.
// Returns ErrBillboardNotFound if no billboard with the given ID exists.
func (r *BillboardRepository) UpdatePartnership(ctx context.Context, b model.Billboard) error {
	partnerNames, err := json.Marshal(nonNilStrings(b.PartnerNames))
	if err != nil {
		return fmt.Errorf("failed to encode partner names: %w", err)
	}

	query := `
		UPDATE billboard
		SET is_partnership = ?, partner_names = ?, total_capital = ?, capital_remaining = ?,
		    company_pre_pct = ?, capital_deduction_pct = ?, company_post_pct = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		b.IsPartnership,
		string(partnerNames),
		b.TotalCapital,
		b.CapitalRemaining,
		b.CompanyPrePct,
		b.CapitalDeductionPct,
		b.CompanyPostPct,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update billboard partnership: %w", err)
	}

	return requireAffected(result, apperrors.ErrBillboardNotFound)
}

// UpdatePartnershipTerms writes the partnership flag, partner names and the three
// percentage knobs, leaving the capital account as stored.
// Returns ErrBillboardNotFound if no billboard with the given ID exists.
func (r *BillboardRepository) UpdatePartnershipTerms(ctx context.Context, b model.Billboard) error {
	partnerNames, err := json.Marshal(nonNilStrings(b.PartnerNames))
	if err != nil {
		return fmt.Errorf("failed to encode partner names: %w", err)
	}

	query := `
		UPDATE billboard
		SET is_partnership = ?, partner_names = ?,
		    company_pre_pct = ?, capital_deduction_pct = ?, company_post_pct = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		b.IsPartnership,
		string(partnerNames),
		b.CompanyPrePct,
		b.CapitalDeductionPct,
		b.CompanyPostPct,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update billboard partnership terms: %w", err)
	}

	return requireAffected(result, apperrors.ErrBillboardNotFound)
}

// UpdateCapitalRemaining sets the unrecovered capital of a billboard.
// Returns ErrBillboardNotFound if no billboard with the given ID exists.
func (r *BillboardRepository) UpdateCapitalRemaining(ctx context.Context, billboardID string, remaining float64) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE billboard SET capital_remaining = ? WHERE id = ?`,
		remaining, billboardID,
	)
	if err != nil {
		return fmt.Errorf("failed to update capital remaining: %w", err)
	}

	return requireAffected(result, apperrors.ErrBillboardNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
