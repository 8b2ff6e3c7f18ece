package leads

import (
	"context"
	"errors"

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

const leadColumns = `id, name, phone, source, stage, position, notes, created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Phone,
		&l.Source,
		&l.Stage,
		&l.Position,
		&l.Notes,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PgRepository) Create(ctx context.Context, l Lead) (*Lead, error) {
	id := l.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (id, name, phone, source, stage, position, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM leads WHERE stage = $5),
			$6, now(), now())
		RETURNING `+leadColumns+`
	`, id, l.Name, l.Phone, l.Source, l.Stage, l.Notes)
	return scanLead(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)
	return scanLead(row)
}

func (r *PgRepository) Update(ctx context.Context, l Lead) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET name = $2, phone = $3, source = $4, notes = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, l.ID, l.Name, l.Phone, l.Source, l.Notes)
	return scanLead(row)
}

func (r *PgRepository) Move(ctx context.Context, id uuid.UUID, stage Stage, position int) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET stage = $2, position = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, stage, position)
	return scanLead(row)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY stage, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}
