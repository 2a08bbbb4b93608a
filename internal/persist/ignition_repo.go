package persist

import (
	"context"
	"fmt"
)

// IgnitionRow is one fire started by the firestarter.
type IgnitionRow struct {
	Tick       int64
	EntityID   uint64
	Name       string
	PosIdx     int
	Candidates int
}

type IgnitionRepo struct {
	db *DB
}

func NewIgnitionRepo(db *DB) *IgnitionRepo {
	return &IgnitionRepo{db: db}
}

// InsertBatch writes rows in one transaction; either all land or none.
func (r *IgnitionRepo) InsertBatch(ctx context.Context, rows []IgnitionRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ignition begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ignition_log (tick, entity_id, name, pos_idx, candidates)
			 VALUES ($1, $2, $3, $4, $5)`,
			row.Tick, int64(row.EntityID), row.Name, row.PosIdx, row.Candidates,
		); err != nil {
			return fmt.Errorf("ignition insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// Recent returns the newest ignitions, newest first.
func (r *IgnitionRepo) Recent(ctx context.Context, limit int) ([]IgnitionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT tick, entity_id, name, pos_idx, candidates
		 FROM ignition_log ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ignition query: %w", err)
	}
	defer rows.Close()

	var out []IgnitionRow
	for rows.Next() {
		var row IgnitionRow
		var entity int64
		if err := rows.Scan(&row.Tick, &entity, &row.Name, &row.PosIdx, &row.Candidates); err != nil {
			return nil, fmt.Errorf("ignition scan: %w", err)
		}
		row.EntityID = uint64(entity)
		out = append(out, row)
	}
	return out, rows.Err()
}
