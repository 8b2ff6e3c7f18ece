package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrInvalidStage = errors.New("invalid kanban stage")
)

type Repository interface {
	Create(ctx context.Context, l Lead) (*Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	Update(ctx context.Context, l Lead) (*Lead, error)
	Move(ctx context.Context, id uuid.UUID, stage Stage, position int) (*Lead, error)
	ListAll(ctx context.Context) ([]Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
