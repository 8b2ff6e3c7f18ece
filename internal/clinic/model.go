package clinic

import (
	"time"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/exams"
)

type Patient struct {
	ID        uuid.UUID
	Name      string
	CPF       string
	Gender    string
	BirthDate *time.Time
	Phone     *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID        uuid.UUID
	Name      string
	CRM       string
	Specialty *string
	UnitID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Unit struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Procedure carries its exam-requirement rules, stored as JSONB and decoded
// into typed structs at the repository boundary.
type Procedure struct {
	ID               uuid.UUID
	Name             string
	Description      *string
	ExamRequirements []exams.Rule
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
