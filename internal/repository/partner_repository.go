package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Billboard-Partnership-Backend/internal/apperrors"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// PartnerRepository provides data access methods for the partner table.
type PartnerRepository struct {
	db *sql.DB
}

// NewPartnerRepository creates a new PartnerRepository with the provided database connection.
func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func scanPartner(s rowScanner) (model.Partner, error) {
	var p model.Partner
	var createdAt string
	if err := s.Scan(&p.ID, &p.Name, &p.Phone, &p.BankAccountEnc, &createdAt); err != nil {
		return model.Partner{}, err
	}
	var err error
	p.CreatedAt, err = ParseTime(createdAt)
	if err != nil {
		return model.Partner{}, err
	}
	return p, nil
}

// GetPartners retrieves all partners ordered by name.
func (r *PartnerRepository) GetPartners(ctx context.Context) ([]model.Partner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, bank_account_enc, created_at
		FROM partner
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner table: %w", err)
	}
	defer rows.Close()

	partners := []model.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner table results: %w", err)
		}
		partners = append(partners, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner table: %w", err)
	}

	return partners, nil
}

// GetPartner retrieves a single partner.
// Returns ErrPartnerNotFound if no partner with the given ID exists.
func (r *PartnerRepository) GetPartner(ctx context.Context, partnerID string) (model.Partner, error) {
	p, err := scanPartner(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, bank_account_enc, created_at
		FROM partner
		WHERE id = ?
	`, partnerID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Partner{}, apperrors.ErrPartnerNotFound
	}
	if err != nil {
		return model.Partner{}, fmt.Errorf("failed to query partner: %w", err)
	}
	return p, nil
}

// InsertPartner creates a new partner row.
func (r *PartnerRepository) InsertPartner(ctx context.Context, p *model.Partner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO partner (id, name, phone, bank_account_enc, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Phone, p.BankAccountEnc, formatTimestamp(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert partner: %w", err)
	}
	return nil
}

// UpdatePartner overwrites name, phone and encrypted bank account.
// Returns ErrPartnerNotFound if no partner with the given ID exists.
func (r *PartnerRepository) UpdatePartner(ctx context.Context, p *model.Partner) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE partner SET name = ?, phone = ?, bank_account_enc = ?
		WHERE id = ?
	`, p.Name, p.Phone, p.BankAccountEnc, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return requireAffected(result, apperrors.ErrPartnerNotFound)
}

// DeletePartner removes a partner.
// Returns ErrPartnerNotFound if no partner with the given ID exists.
func (r *PartnerRepository) DeletePartner(ctx context.Context, partnerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM partner WHERE id = ?`, partnerID)
	if err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return requireAffected(result, apperrors.ErrPartnerNotFound)
}

// GetPartnersByIDs retrieves the partners with the given IDs, keyed by ID.
// Unknown IDs are absent from the result.
func (r *PartnerRepository) GetPartnersByIDs(ctx context.Context, partnerIDs []string) (map[string]model.Partner, error) {
	result := make(map[string]model.Partner, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(partnerIDs))
	for i, id := range partnerIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, bank_account_enc, created_at
		FROM partner
		WHERE id IN (`+placeholders(len(partnerIDs))+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner table results: %w", err)
		}
		result[p.ID] = p
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner table: %w", err)
	}

	return result, nil
}
