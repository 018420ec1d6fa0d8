package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/allocation"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// RevenueRepository provides data access methods for the revenue_posting table.
type RevenueRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewRevenueRepository creates a new RevenueRepository with the provided database connection.
func NewRevenueRepository(db *sql.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// WithTx returns a new RevenueRepository scoped to the provided transaction.
func (r *RevenueRepository) WithTx(tx *sql.Tx) *RevenueRepository {
	return &RevenueRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *RevenueRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertPosting stores a revenue posting.
func (r *RevenueRepository) InsertPosting(ctx context.Context, p *model.RevenuePosting) error {
	amounts, err := json.Marshal(p.PartnerAmounts)
	if err != nil {
		return fmt.Errorf("failed to encode partner amounts: %w", err)
	}

	query := `
		INSERT INTO revenue_posting (
			id, billboard_id, posted_on, amount, regime, capital_amount, company_amount,
			partner_amounts, capital_remaining_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.BillboardID,
		p.PostedOn.Format("2006-01-02"),
		p.Amount,
		string(p.Regime),
		p.CapitalAmount,
		p.CompanyAmount,
		string(amounts),
		p.CapitalRemainingAfter,
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert revenue posting: %w", err)
	}
	return nil
}

// GetPostings retrieves a billboard's revenue postings within the filter's date
// range, sorted by posting date and limited to PerPage rows.
func (r *RevenueRepository) GetPostings(ctx context.Context, billboardID string, filters model.PostingFilters) ([]model.RevenuePosting, error) {
	query := `
		SELECT id, billboard_id, posted_on, amount, regime, capital_amount, company_amount,
		       partner_amounts, capital_remaining_after, created_at
		FROM revenue_posting
		WHERE billboard_id = ?
	`
	args := []any{billboardID}

	if filters.StartDate != nil {
		query += " AND posted_on >= ?"
		args = append(args, filters.StartDate.Format("2006-01-02"))
	}
	if filters.EndDate != nil {
		query += " AND posted_on <= ?"
		args = append(args, filters.EndDate.Format("2006-01-02"))
	}

	if filters.SortDir == "asc" {
		query += " ORDER BY posted_on ASC, created_at ASC"
	} else {
		query += " ORDER BY posted_on DESC, created_at DESC"
	}

	if filters.PerPage > 0 {
		query += " LIMIT ?"
		args = append(args, filters.PerPage)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue_posting table: %w", err)
	}
	defer rows.Close()

	postings := []model.RevenuePosting{}
	for rows.Next() {
		var p model.RevenuePosting
		var postedOn, regime, amounts, createdAt string

		err := rows.Scan(
			&p.ID,
			&p.BillboardID,
			&postedOn,
			&p.Amount,
			&regime,
			&p.CapitalAmount,
			&p.CompanyAmount,
			&amounts,
			&p.CapitalRemainingAfter,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue_posting table results: %w", err)
		}

		p.Regime = allocation.Regime(regime)
		if p.PostedOn, err = ParseTime(postedOn); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(amounts), &p.PartnerAmounts); err != nil {
			return nil, fmt.Errorf("failed to decode partner amounts of posting %s: %w", p.ID, err)
		}

		postings = append(postings, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue_posting table: %w", err)
	}

	return postings, nil
}

// SumCapitalRecovered returns the capital recovered through postings for a billboard.
func (r *RevenueRepository) SumCapitalRecovered(ctx context.Context, billboardID string) (float64, error) {
	var sum float64
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(capital_amount), 0) FROM revenue_posting WHERE billboard_id = ?`,
		billboardID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum recovered capital: %w", err)
	}
	return sum, nil
}
