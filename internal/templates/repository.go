package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidKind      = errors.New("invalid template kind")
)

type Repository interface {
	Create(ctx context.Context, t Template) (*Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	Update(ctx context.Context, t Template) (*Template, error)
	ListByKind(ctx context.Context, kind Kind) ([]Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const templateColumns = `id, kind, title, body, media_url, tags, created_at, updated_at`

func scanTemplate(row pgx.Row) (*Template, error) {
	var t Template
	err := row.Scan(
		&t.ID,
		&t.Kind,
		&t.Title,
		&t.Body,
		&t.MediaURL,
		&t.Tags,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgRepository) Create(ctx context.Context, t Template) (*Template, error) {
	if !ValidKind(t.Kind) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, t.Kind)
	}

	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO templates (id, kind, title, body, media_url, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+templateColumns+`
	`, id, t.Kind, t.Title, t.Body, t.MediaURL, t.Tags)
	return scanTemplate(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE id = $1
	`, id)
	return scanTemplate(row)
}

func (r *PgRepository) Update(ctx context.Context, t Template) (*Template, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE templates
		SET title = $2, body = $3, media_url = $4, tags = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns+`
	`, t.ID, t.Title, t.Body, t.MediaURL, t.Tags)
	return scanTemplate(row)
}

func (r *PgRepository) ListByKind(ctx context.Context, kind Kind) ([]Template, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, kind)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE kind = $1
		ORDER BY title
	`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
