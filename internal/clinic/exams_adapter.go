package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/exams"
)

// ExamsAdapter exposes the directory as the narrow sources the exam
// resolver consumes, translating sentinel errors across the boundary.
type ExamsAdapter struct {
	repo Repository
}

func NewExamsAdapter(repo Repository) *ExamsAdapter {
	return &ExamsAdapter{repo: repo}
}

func (a *ExamsAdapter) PatientByCPF(ctx context.Context, cpf string) (*exams.PatientInfo, error) {
	p, err := a.repo.GetPatientByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, exams.ErrPatientNotFound
		}
		return nil, err
	}
	return &exams.PatientInfo{
		Name:      p.Name,
		Gender:    p.Gender,
		BirthDate: p.BirthDate,
	}, nil
}

func (a *ExamsAdapter) ProcedureByID(ctx context.Context, id uuid.UUID) (*exams.ProcedureInfo, error) {
	p, err := a.repo.GetProcedureByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProcedureNotFound) {
			return nil, exams.ErrProcedureNotFound
		}
		return nil, err
	}
	return &exams.ProcedureInfo{
		Name:  p.Name,
		Rules: p.ExamRequirements,
	}, nil
}
