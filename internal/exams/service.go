package exams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingCPF         = errors.New("cpf is required")
	ErrMissingProcedureID = errors.New("procedure_id is required")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrProcedureNotFound  = errors.New("procedure not found")
)

// PatientInfo is the slice of the patient record the resolver needs.
type PatientInfo struct {
	Name      string
	Gender    string
	BirthDate *time.Time
}

// ProcedureInfo is a procedure's name plus its exam-requirement rules.
type ProcedureInfo struct {
	Name  string
	Rules []Rule
}

// PatientSource looks up patients by CPF.
type PatientSource interface {
	PatientByCPF(ctx context.Context, cpf string) (*PatientInfo, error)
}

// ProcedureSource looks up procedures and their rules.
type ProcedureSource interface {
	ProcedureByID(ctx context.Context, id uuid.UUID) (*ProcedureInfo, error)
}

type Service struct {
	patients   PatientSource
	procedures ProcedureSource
	now        func() time.Time
}

func NewService(patients PatientSource, procedures ProcedureSource) *Service {
	return &Service{
		patients:   patients,
		procedures: procedures,
		now:        time.Now,
	}
}

// Request is the exam-document generation input. Gender and Conditions are
// supplied at resolution time; gender falls back to the patient record when
// absent.
type Request struct {
	CPF         string
	ProcedureID uuid.UUID
	Gender      string
	Conditions  []string
}

type Result struct {
	PatientName   string
	ProcedureName string
	Exams         []string
	HTML          string
}

// GenerateExamRequest resolves the required exams for a patient/procedure
// pair and renders the printable request document.
func (s *Service) GenerateExamRequest(ctx context.Context, req Request) (*Result, error) {
	if req.CPF == "" {
		return nil, ErrMissingCPF
	}
	if req.ProcedureID == uuid.Nil {
		return nil, ErrMissingProcedureID
	}

	patient, err := s.patients.PatientByCPF(ctx, req.CPF)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	proc, err := s.procedures.ProcedureByID(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, ErrProcedureNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load procedure: %w", err)
	}

	now := s.now()

	profile := Profile{
		Gender:     patient.Gender,
		Conditions: req.Conditions,
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
	}
	if patient.BirthDate != nil {
		age := AgeAt(*patient.BirthDate, now)
		profile.Age = &age
	}

	resolved := Resolve(profile, proc.Rules)

	html, err := RenderDocument(Document{
		PatientName:   patient.Name,
		ProcedureName: proc.Name,
		Exams:         resolved,
		IssuedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		PatientName:   patient.Name,
		ProcedureName: proc.Name,
		Exams:         resolved,
		HTML:          html,
	}, nil
}
