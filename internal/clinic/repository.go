package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrUnitNotFound      = errors.New("unit not found")
	ErrProcedureNotFound = errors.New("procedure not found")
	ErrDuplicateCPF      = errors.New("a patient with this CPF already exists")
)

// Repository is the directory surface: patients, doctors, units and the
// procedure catalog.
type Repository interface {
	CreatePatient(ctx context.Context, p Patient) (*Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*Patient, error)
	ListPatients(ctx context.Context, limit, offset int) ([]Patient, error)
	UpdatePatient(ctx context.Context, p Patient) (*Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error

	CreateUnit(ctx context.Context, u Unit) (*Unit, error)
	GetUnitByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	ListUnits(ctx context.Context) ([]Unit, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error

	CreateProcedure(ctx context.Context, p Procedure) (*Procedure, error)
	GetProcedureByID(ctx context.Context, id uuid.UUID) (*Procedure, error)
	ListProcedures(ctx context.Context) ([]Procedure, error)
	UpdateProcedure(ctx context.Context, p Procedure) (*Procedure, error)
	DeleteProcedure(ctx context.Context, id uuid.UUID) error
}
