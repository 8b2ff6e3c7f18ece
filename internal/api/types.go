package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/exams"
)

var validate = validator.New()

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	return true
}

// Auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin reception"`
}

type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Active bool      `json:"active"`
}

// Appointments

type BookAppointmentRequest struct {
	PatientID   string  `json:"patient_id" validate:"required,uuid"`
	DoctorID    string  `json:"doctor_id" validate:"required,uuid"`
	UnitID      string  `json:"unit_id" validate:"required,uuid"`
	ProcedureID *string `json:"procedure_id,omitempty" validate:"omitempty,uuid"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string  `json:"end_time" validate:"required,datetime=15:04"`
	Notes       *string `json:"notes,omitempty"`
	AmountPaid  *int64  `json:"amount_paid,omitempty" validate:"omitempty,min=0"`
}

type RescheduleRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled no_show"`
}

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   uuid.UUID  `json:"patient_id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	UnitID      uuid.UUID  `json:"unit_id"`
	ProcedureID *uuid.UUID `json:"procedure_id,omitempty"`
	Date        string     `json:"date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	AmountPaid  *int64     `json:"amount_paid,omitempty"`
}

// Availability

type TimeWindow struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

type MaterializeRequest struct {
	UnitID          string                `json:"unit_id" validate:"required,uuid"`
	AttendanceDates []string              `json:"attendance_dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	ProcedureDates  []string              `json:"procedure_dates,omitempty" validate:"omitempty,dive,datetime=2006-01-02"`
	Overrides       map[string]TimeWindow `json:"overrides,omitempty"`
	ProcedureIDs    []string              `json:"procedure_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type MaterializeResponse struct {
	SlotsCreated int `json:"slots_created"`
}

type SuggestDatesResponse struct {
	Dates []string `json:"dates"`
}

type SlotResponse struct {
	ID             uuid.UUID  `json:"id"`
	UnitID         uuid.UUID  `json:"unit_id"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	IsProcedureDay bool       `json:"is_procedure_day"`
	ProcedureID    *uuid.UUID `json:"procedure_id,omitempty"`
}

// Directory

type PatientRequest struct {
	Name      string  `json:"name" validate:"required"`
	CPF       string  `json:"cpf" validate:"required,len=11,numeric"`
	Gender    string  `json:"gender" validate:"required,oneof=male female other"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Gender    string    `json:"gender"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
}

type DoctorRequest struct {
	Name      string  `json:"name" validate:"required"`
	CRM       string  `json:"crm" validate:"required"`
	Specialty *string `json:"specialty,omitempty"`
	UnitID    *string `json:"unit_id,omitempty" validate:"omitempty,uuid"`
}

type DoctorResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CRM       string     `json:"crm"`
	Specialty *string    `json:"specialty,omitempty"`
	UnitID    *uuid.UUID `json:"unit_id,omitempty"`
}

type UnitRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type UnitResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address *string   `json:"address,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
}

type ExamRuleRequest struct {
	ID         string   `json:"id" validate:"required"`
	Gender     string   `json:"gender" validate:"required,oneof=all male female other"`
	AgeMin     *int     `json:"age_min,omitempty" validate:"omitempty,min=0"`
	AgeMax     *int     `json:"age_max,omitempty" validate:"omitempty,min=0"`
	Conditions []string `json:"conditions,omitempty"`
	Exams      []string `json:"exams" validate:"required,min=1"`
}

type ProcedureRequest struct {
	Name             string            `json:"name" validate:"required"`
	Description      *string           `json:"description,omitempty"`
	ExamRequirements []ExamRuleRequest `json:"exam_requirements,omitempty" validate:"omitempty,dive"`
}

type ProcedureResponse struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Description      *string      `json:"description,omitempty"`
	ExamRequirements []exams.Rule `json:"exam_requirements"`
}

// Leads

type LeadRequest struct {
	Name   string  `json:"name" validate:"required"`
	Phone  *string `json:"phone,omitempty"`
	Source *string `json:"source,omitempty"`
	Stage  string  `json:"stage,omitempty" validate:"omitempty,oneof=new contacted scheduled converted lost"`
	Notes  *string `json:"notes,omitempty"`
}

type MoveLeadRequest struct {
	Stage    string `json:"stage" validate:"required,oneof=new contacted scheduled converted lost"`
	Position int    `json:"position" validate:"min=0"`
}

type LeadResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    *string   `json:"phone,omitempty"`
	Source   *string   `json:"source,omitempty"`
	Stage    string    `json:"stage"`
	Position int       `json:"position"`
	Notes    *string   `json:"notes,omitempty"`
}

// Templates

type TemplateRequest struct {
	Kind     string   `json:"kind" validate:"required,oneof=message media"`
	Title    string   `json:"title" validate:"required"`
	Body     *string  `json:"body,omitempty"`
	MediaURL *string  `json:"media_url,omitempty" validate:"omitempty,url"`
	Tags     []string `json:"tags,omitempty"`
}

type TemplateResponse struct {
	ID       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Body     *string   `json:"body,omitempty"`
	MediaURL *string   `json:"media_url,omitempty"`
	Tags     []string  `json:"tags"`
}

// Exam document generation

type ExamDocumentRequest struct {
	CPF         string   `json:"cpf" validate:"required"`
	ProcedureID string   `json:"procedure_id" validate:"required,uuid"`
	Gender      string   `json:"gender,omitempty" validate:"omitempty,oneof=all male female other"`
	Conditions  []string `json:"conditions,omitempty"`
}

type ExamDocumentResponse struct {
	Success       bool     `json:"success"`
	HTML          string   `json:"html"`
	HTMLBase64    string   `json:"html_base64"`
	PatientName   string   `json:"patient_name"`
	ProcedureName string   `json:"procedure_name"`
	ExamCount     int      `json:"exam_count"`
	Exams         []string `json:"exams"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
