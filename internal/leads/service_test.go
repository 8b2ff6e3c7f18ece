package leads

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadRepo struct {
	byID map[uuid.UUID]*Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{byID: make(map[uuid.UUID]*Lead)}
}

func (f *fakeLeadRepo) Create(_ context.Context, l Lead) (*Lead, error) {
	l.ID = uuid.New()
	l.Position = len(f.byID)
	f.byID[l.ID] = &l
	cp := l
	return &cp, nil
}

func (f *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (*Lead, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLeadRepo) Update(_ context.Context, l Lead) (*Lead, error) {
	existing, ok := f.byID[l.ID]
	if !ok {
		return nil, ErrLeadNotFound
	}
	existing.Name = l.Name
	existing.Notes = l.Notes
	cp := *existing
	return &cp, nil
}

func (f *fakeLeadRepo) Move(_ context.Context, id uuid.UUID, stage Stage, position int) (*Lead, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	l.Stage = stage
	l.Position = position
	cp := *l
	return &cp, nil
}

func (f *fakeLeadRepo) ListAll(_ context.Context) ([]Lead, error) {
	var out []Lead
	for _, l := range f.byID {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLeadRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return ErrLeadNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestCreate_DefaultsToNewStage(t *testing.T) {
	svc := NewService(newFakeLeadRepo())

	l, err := svc.Create(context.Background(), Lead{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, StageNew, l.Stage)
}

func TestCreate_RejectsInvalid(t *testing.T) {
	svc := NewService(newFakeLeadRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Lead{})
	assert.Error(t, err)

	_, err = svc.Create(ctx, Lead{Name: "Ana", Stage: Stage("archived")})
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestMove_AndBoardGrouping(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, Lead{Name: "Ana"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, Lead{Name: "Bruno"})
	require.NoError(t, err)

	_, err = svc.Move(ctx, b.ID, StageContacted, 0)
	require.NoError(t, err)

	board, err := svc.Board(ctx)
	require.NoError(t, err)

	require.Len(t, board[StageNew], 1)
	assert.Equal(t, a.ID, board[StageNew][0].ID)
	require.Len(t, board[StageContacted], 1)
	assert.Equal(t, b.ID, board[StageContacted][0].ID)
}

func TestMove_InvalidStage(t *testing.T) {
	svc := NewService(newFakeLeadRepo())

	_, err := svc.Move(context.Background(), uuid.New(), Stage("trash"), 0)
	assert.ErrorIs(t, err, ErrInvalidStage)
}
