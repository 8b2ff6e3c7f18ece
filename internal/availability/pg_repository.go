package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	var procedureID *uuid.UUID

	err := row.Scan(
		&s.ID,
		&s.UnitID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.IsProcedureDay,
		&procedureID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ProcedureID = procedureID
	return &s, nil
}

func (r *PgRepository) InsertSlots(ctx context.Context, slots []Slot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin availability batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range slots {
		id := s.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO availabilities (id, unit_id, availability_date, start_time, end_time, is_procedure_day, procedure_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		`, id, s.UnitID, s.Date, s.StartTime, s.EndTime, s.IsProcedureDay, s.ProcedureID)
		if err != nil {
			return fmt.Errorf("insert availability %s: %w", s.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit availability batch: %w", err)
	}

	return nil
}

func (r *PgRepository) UpdateDayWindow(ctx context.Context, unitID uuid.UUID, date time.Time, w Window) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE availabilities
		SET start_time = $3,
		    end_time = $4,
		    updated_at = now()
		WHERE unit_id = $1
		  AND availability_date = $2
	`, unitID, date, w.Start, w.End)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) DeleteDay(ctx context.Context, unitID uuid.UUID, date time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availabilities
		WHERE unit_id = $1
		  AND availability_date = $2
	`, unitID, date)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) ListByUnit(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]Slot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, unit_id, availability_date, start_time, end_time, is_procedure_day, procedure_id, created_at, updated_at
		FROM availabilities
		WHERE unit_id = $1
		  AND availability_date >= $2
		  AND availability_date < $3
		ORDER BY availability_date, procedure_id NULLS FIRST
	`, unitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
