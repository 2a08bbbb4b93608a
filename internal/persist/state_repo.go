package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SystemStateRepo stores the small bits of per-system state that must
// survive a restart. The tick counter starts over on every boot, so the
// firestarter saves how many ticks were left until its next fire.
type SystemStateRepo struct {
	db *DB
}

func NewSystemStateRepo(db *DB) *SystemStateRepo {
	return &SystemStateRepo{db: db}
}

// Load returns the saved ticks-to-fire of systemID. ok is false when nothing
// was saved, or when the save needs a newer build than running.
func (r *SystemStateRepo) Load(ctx context.Context, systemID, running string) (int64, bool, error) {
	var fireIn int64
	var minVersion string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT fire_in_ticks, min_version FROM system_state WHERE system_id = $1`,
		systemID,
	).Scan(&fireIn, &minVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load system state %s: %w", systemID, err)
	}
	if CompareVersions(minVersion, running) > 0 {
		return 0, false, nil
	}
	return fireIn, true, nil
}

// Save upserts the ticks-to-fire of systemID.
func (r *SystemStateRepo) Save(ctx context.Context, systemID string, fireIn int64, minVersion string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO system_state (system_id, fire_in_ticks, min_version, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (system_id) DO UPDATE
		 SET fire_in_ticks = EXCLUDED.fire_in_ticks,
		     min_version = EXCLUDED.min_version,
		     updated_at = NOW()`,
		systemID, fireIn, minVersion,
	)
	if err != nil {
		return fmt.Errorf("save system state %s: %w", systemID, err)
	}
	return nil
}
