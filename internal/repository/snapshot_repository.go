package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Billboard-Partnership-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the partnership_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new repository instance.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// UpsertSnapshot stores the snapshot for its billboard and date, replacing any
// snapshot already written for that day.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s model.PartnershipSnapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CalculatedAt.IsZero() {
		s.CalculatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO partnership_snapshot (
			id, billboard_id, date, total_capital, capital_remaining, recovered_pct,
			partner_count, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (billboard_id, date) DO UPDATE SET
			total_capital = excluded.total_capital,
			capital_remaining = excluded.capital_remaining,
			recovered_pct = excluded.recovered_pct,
			partner_count = excluded.partner_count,
			calculated_at = excluded.calculated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.BillboardID,
		s.Date,
		s.TotalCapital,
		s.CapitalRemaining,
		s.RecoveredPct,
		s.PartnerCount,
		formatTimestamp(s.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert partnership snapshot: %w", err)
	}
	return nil
}

// GetSnapshots streams a billboard's snapshots between startDate and endDate
// (inclusive, oldest first) to callback, one record at a time.
//
// Returns an error if the query fails or if the callback returns an error.
func (r *SnapshotRepository) GetSnapshots(
	ctx context.Context,
	billboardID string,
	startDate, endDate time.Time,
	callback func(record model.PartnershipSnapshot) error,
) error {
	query := `
		SELECT id, billboard_id, date, total_capital, capital_remaining, recovered_pct,
		       partner_count, calculated_at
		FROM partnership_snapshot
		WHERE billboard_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		billboardID,
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to query partnership_snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var record model.PartnershipSnapshot
		var calculatedAtStr string

		err := rows.Scan(
			&record.ID,
			&record.BillboardID,
			&record.Date,
			&record.TotalCapital,
			&record.CapitalRemaining,
			&record.RecoveredPct,
			&record.PartnerCount,
			&calculatedAtStr,
		)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		record.CalculatedAt, err = ParseTime(calculatedAtStr)
		if err != nil {
			return fmt.Errorf("failed to parse calculated_at: %w", err)
		}

		if err := callback(record); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}
