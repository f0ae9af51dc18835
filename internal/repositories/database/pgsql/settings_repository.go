package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/konnectsl/wallet_backend/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	pool *pgxpool.Pool
}

// newPgxSettingsRepository creates a new repository for system settings.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{pool: pool}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

// GetSettings returns the raw values for the given keys. Keys absent from
// the table are absent from the map; the caller applies defaults.
func (r *PgxSettingsRepository) GetSettings(ctx context.Context, keys []string) (map[string]string, error) {
	query := `SELECT key, value FROM system_settings WHERE key = ANY($1);`
	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query system settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan system setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating system settings: %w", err)
	}
	return settings, nil
}

// PutSetting upserts one setting value.
func (r *PgxSettingsRepository) PutSetting(ctx context.Context, key, value, updatedBy string) error {
	query := `
		INSERT INTO system_settings (key, value, last_updated_at, last_updated_by)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, last_updated_at = NOW(), last_updated_by = EXCLUDED.last_updated_by;
	`
	if _, err := r.pool.Exec(ctx, query, key, value, updatedBy); err != nil {
		return fmt.Errorf("failed to put system setting %s: %w", key, err)
	}
	return nil
}
