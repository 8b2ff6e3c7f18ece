package leads

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a kanban column of the lead-tracking board.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageScheduled Stage = "scheduled"
	StageConverted Stage = "converted"
	StageLost      Stage = "lost"
)

var stages = map[Stage]struct{}{
	StageNew:       {},
	StageContacted: {},
	StageScheduled: {},
	StageConverted: {},
	StageLost:      {},
}

func ValidStage(s Stage) bool {
	_, ok := stages[s]
	return ok
}

type Lead struct {
	ID        uuid.UUID
	Name      string
	Phone     *string
	Source    *string
	Stage     Stage
	Position  int
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Board is the kanban view: leads grouped per stage, ordered by position.
type Board map[Stage][]Lead
