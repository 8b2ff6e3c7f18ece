package leads

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, l Lead) (*Lead, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("lead name is required")
	}
	if l.Stage == "" {
		l.Stage = StageNew
	}
	if !ValidStage(l.Stage) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStage, l.Stage)
	}

	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, l Lead) (*Lead, error) {
	updated, err := s.repo.Update(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return updated, nil
}

// Move drags a card to another column and position.
func (s *Service) Move(ctx context.Context, id uuid.UUID, stage Stage, position int) (*Lead, error) {
	if !ValidStage(stage) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStage, stage)
	}
	if position < 0 {
		position = 0
	}

	moved, err := s.repo.Move(ctx, id, stage, position)
	if err != nil {
		return nil, fmt.Errorf("move lead: %w", err)
	}
	return moved, nil
}

// Board groups every lead by stage, ordered by position within each column.
func (s *Service) Board(ctx context.Context) (Board, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lead board: %w", err)
	}

	board := make(Board)
	for _, l := range all {
		board[l.Stage] = append(board[l.Stage], l)
	}
	for stage := range board {
		column := board[stage]
		sort.Slice(column, func(i, j int) bool { return column[i].Position < column[j].Position })
		board[stage] = column
	}

	return board, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}
