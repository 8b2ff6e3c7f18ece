package exams

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePatientSource struct {
	patients map[string]*PatientInfo
}

func (f *fakePatientSource) PatientByCPF(_ context.Context, cpf string) (*PatientInfo, error) {
	p, ok := f.patients[cpf]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

type fakeProcedureSource struct {
	procedures map[uuid.UUID]*ProcedureInfo
}

func (f *fakeProcedureSource) ProcedureByID(_ context.Context, id uuid.UUID) (*ProcedureInfo, error) {
	p, ok := f.procedures[id]
	if !ok {
		return nil, ErrProcedureNotFound
	}
	return p, nil
}

func newTestService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()

	birth := time.Date(1998, time.February, 10, 0, 0, 0, 0, time.UTC)
	procID := uuid.New()

	svc := NewService(
		&fakePatientSource{patients: map[string]*PatientInfo{
			"52998224725": {Name: "Maria Souza", Gender: GenderFemale, BirthDate: &birth},
		}},
		&fakeProcedureSource{procedures: map[uuid.UUID]*ProcedureInfo{
			procID: {Name: "Implante Capilar", Rules: []Rule{
				{ID: "adult", Gender: GenderAll, AgeMin: intPtr(18), Exams: []string{"Hemograma completo"}},
				{ID: "female", Gender: GenderFemale, Conditions: []string{"sexual_activity"}, Exams: []string{"Beta HCG"}},
			}},
		}},
	)
	svc.now = func() time.Time { return time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC) }

	return svc, procID
}

func TestGenerateExamRequest(t *testing.T) {
	svc, procID := newTestService(t)

	res, err := svc.GenerateExamRequest(context.Background(), Request{
		CPF:         "52998224725",
		ProcedureID: procID,
		Conditions:  []string{"sexual_activity"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria Souza", res.PatientName)
	assert.Equal(t, "Implante Capilar", res.ProcedureName)
	assert.Equal(t, []string{"Hemograma completo", "Beta HCG"}, res.Exams)
	assert.True(t, strings.Contains(res.HTML, "Maria Souza"))
	assert.True(t, strings.Contains(res.HTML, "Beta HCG"))
}

func TestGenerateExamRequest_GenderOverride(t *testing.T) {
	svc, procID := newTestService(t)

	// Caller-supplied gender takes precedence over the record.
	res, err := svc.GenerateExamRequest(context.Background(), Request{
		CPF:         "52998224725",
		ProcedureID: procID,
		Gender:      GenderMale,
		Conditions:  []string{"sexual_activity"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hemograma completo"}, res.Exams)
}

func TestGenerateExamRequest_Errors(t *testing.T) {
	svc, procID := newTestService(t)
	ctx := context.Background()

	_, err := svc.GenerateExamRequest(ctx, Request{ProcedureID: procID})
	assert.ErrorIs(t, err, ErrMissingCPF)

	_, err = svc.GenerateExamRequest(ctx, Request{CPF: "52998224725"})
	assert.ErrorIs(t, err, ErrMissingProcedureID)

	_, err = svc.GenerateExamRequest(ctx, Request{CPF: "00000000000", ProcedureID: procID})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = svc.GenerateExamRequest(ctx, Request{CPF: "52998224725", ProcedureID: uuid.New()})
	assert.ErrorIs(t, err, ErrProcedureNotFound)
}
