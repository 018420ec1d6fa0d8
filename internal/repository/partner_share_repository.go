package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// PartnerShareRepository provides data access methods for the partner_share table.
type PartnerShareRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPartnerShareRepository creates a new PartnerShareRepository with the provided database connection.
func NewPartnerShareRepository(db *sql.DB) *PartnerShareRepository {
	return &PartnerShareRepository{db: db}
}

// WithTx returns a new PartnerShareRepository scoped to the provided transaction.
func (r *PartnerShareRepository) WithTx(tx *sql.Tx) *PartnerShareRepository {
	return &PartnerShareRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PartnerShareRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetShares retrieves the shares of a billboard with partner names, in the order
// partners were added.
func (r *PartnerShareRepository) GetShares(ctx context.Context, billboardID string) ([]model.PartnerShare, error) {
	query := `
		SELECT ps.id, ps.billboard_id, ps.partner_id, p.name, ps.pre_pct, ps.post_pct
		FROM partner_share ps
		JOIN partner p ON p.id = ps.partner_id
		WHERE ps.billboard_id = ?
		ORDER BY ps.position ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, billboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner_share table: %w", err)
	}
	defer rows.Close()

	shares := []model.PartnerShare{}
	for rows.Next() {
		var s model.PartnerShare
		if err := rows.Scan(&s.ID, &s.BillboardID, &s.PartnerID, &s.PartnerName, &s.PrePct, &s.PostPct); err != nil {
			return nil, fmt.Errorf("failed to scan partner_share table results: %w", err)
		}
		shares = append(shares, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner_share table: %w", err)
	}

	return shares, nil
}

// CountSharesForPartner returns how many billboards the partner holds shares in.
func (r *PartnerShareRepository) CountSharesForPartner(ctx context.Context, partnerID string) (int, error) {
	var n int
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM partner_share WHERE partner_id = ?`, partnerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count partner shares: %w", err)
	}
	return n, nil
}

// DeleteShares removes every share of a billboard.
func (r *PartnerShareRepository) DeleteShares(ctx context.Context, billboardID string) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM partner_share WHERE billboard_id = ?`, billboardID); err != nil {
		return fmt.Errorf("failed to delete partner shares: %w", err)
	}
	return nil
}

// ReplaceShares deletes the billboard's shares and inserts the given set in order.
// Callers wanting atomicity run it inside WithTx.
func (r *PartnerShareRepository) ReplaceShares(ctx context.Context, billboardID string, shares []model.PartnerShare) error {
	if err := r.DeleteShares(ctx, billboardID); err != nil {
		return err
	}

	query := `
		INSERT INTO partner_share (id, billboard_id, partner_id, position, pre_pct, post_pct)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for i, s := range shares {
		id := s.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := r.getQuerier().ExecContext(ctx, query, id, billboardID, s.PartnerID, i, s.PrePct, s.PostPct); err != nil {
			return fmt.Errorf("failed to insert partner share for %s: %w", s.PartnerID, err)
		}
	}
	return nil
}
