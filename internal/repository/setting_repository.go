package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SettingRepository provides access to the system_setting key/value table.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetAll returns every stored setting keyed by name.
func (r *SettingRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT "key", value FROM system_setting`)
	if err != nil {
		return nil, fmt.Errorf("failed to query system_setting table: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan system_setting table results: %w", err)
		}
		settings[key] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating system_setting table: %w", err)
	}
	return settings, nil
}

// Upsert stores the given settings in one transaction.
func (r *SettingRepository) Upsert(ctx context.Context, settings map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := formatTimestamp(time.Now())
	for key, value := range settings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO system_setting ("key", value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT ("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, now); err != nil {
			return fmt.Errorf("failed to store setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}
