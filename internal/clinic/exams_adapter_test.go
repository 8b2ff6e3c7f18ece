package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claromed/clinic-api/internal/exams"
)

type fakeDirectory struct {
	Repository
	patient   *Patient
	procedure *Procedure
}

func (f *fakeDirectory) GetPatientByCPF(_ context.Context, cpf string) (*Patient, error) {
	if f.patient == nil || f.patient.CPF != cpf {
		return nil, ErrPatientNotFound
	}
	return f.patient, nil
}

func (f *fakeDirectory) GetProcedureByID(_ context.Context, id uuid.UUID) (*Procedure, error) {
	if f.procedure == nil || f.procedure.ID != id {
		return nil, ErrProcedureNotFound
	}
	return f.procedure, nil
}

func TestExamsAdapter_TranslatesRecords(t *testing.T) {
	birth := time.Date(1990, time.May, 2, 0, 0, 0, 0, time.UTC)
	procID := uuid.New()

	adapter := NewExamsAdapter(&fakeDirectory{
		patient: &Patient{Name: "João Lima", CPF: "11144477735", Gender: "male", BirthDate: &birth},
		procedure: &Procedure{ID: procID, Name: "Rinoplastia", ExamRequirements: []exams.Rule{
			{ID: "r1", Gender: exams.GenderAll, Exams: []string{"Coagulograma"}},
		}},
	})
	ctx := context.Background()

	patient, err := adapter.PatientByCPF(ctx, "11144477735")
	require.NoError(t, err)
	assert.Equal(t, "João Lima", patient.Name)
	require.NotNil(t, patient.BirthDate)

	proc, err := adapter.ProcedureByID(ctx, procID)
	require.NoError(t, err)
	assert.Equal(t, "Rinoplastia", proc.Name)
	require.Len(t, proc.Rules, 1)
}

func TestExamsAdapter_TranslatesNotFound(t *testing.T) {
	adapter := NewExamsAdapter(&fakeDirectory{})
	ctx := context.Background()

	_, err := adapter.PatientByCPF(ctx, "00000000000")
	assert.ErrorIs(t, err, exams.ErrPatientNotFound)

	_, err = adapter.ProcedureByID(ctx, uuid.New())
	assert.ErrorIs(t, err, exams.ErrProcedureNotFound)
}
