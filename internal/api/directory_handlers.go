package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/calendar"
	"github.com/claromed/clinic-api/internal/clinic"
	"github.com/claromed/clinic-api/internal/exams"
)

func patientToResponse(p *clinic.Patient) PatientResponse {
	resp := PatientResponse{
		ID:     p.ID,
		Name:   p.Name,
		CPF:    p.CPF,
		Gender: p.Gender,
		Phone:  p.Phone,
		Email:  p.Email,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(calendar.ISODate)
		resp.BirthDate = &s
	}
	return resp
}

func patientFromRequest(req PatientRequest) (clinic.Patient, error) {
	p := clinic.Patient{
		Name:   req.Name,
		CPF:    req.CPF,
		Gender: req.Gender,
		Phone:  req.Phone,
		Email:  req.Email,
	}
	if req.BirthDate != nil {
		d, err := parseDate(*req.BirthDate)
		if err != nil {
			return clinic.Patient{}, err
		}
		p.BirthDate = &d
	}
	return p, nil
}

func createPatientHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := patientFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_birth_date", "birth_date must be YYYY-MM-DD")
			return
		}

		created, err := repo.CreatePatient(r.Context(), p)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, patientToResponse(created))
	}
}

func updatePatientHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req PatientRequest
		if !decodeBody(w, r, &req) {
			return
		}

		p, err := patientFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_birth_date", "birth_date must be YYYY-MM-DD")
			return
		}
		p.ID = id

		updated, err := repo.UpdatePatient(r.Context(), p)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, patientToResponse(updated))
	}
}

func getPatientHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		p, err := repo.GetPatientByID(r.Context(), id)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, patientToResponse(p))
	}
}

func listPatientsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if limit <= 0 || limit > 100 {
			limit = 50
		}
		if offset < 0 {
			offset = 0
		}

		patients, err := repo.ListPatients(r.Context(), limit, offset)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		out := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			out = append(out, patientToResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deletePatientHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := repo.DeletePatient(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func doctorToResponse(d *clinic.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		Name:      d.Name,
		CRM:       d.CRM,
		Specialty: d.Specialty,
		UnitID:    d.UnitID,
	}
}

func createDoctorHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorRequest
		if !decodeBody(w, r, &req) {
			return
		}

		d := clinic.Doctor{
			Name:      req.Name,
			CRM:       req.CRM,
			Specialty: req.Specialty,
		}
		if req.UnitID != nil {
			unitID := uuid.MustParse(*req.UnitID)
			d.UnitID = &unitID
		}

		created, err := repo.CreateDoctor(r.Context(), d)
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, doctorToResponse(created))
	}
}

func listDoctorsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := repo.ListDoctors(r.Context())
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		out := make([]DoctorResponse, 0, len(doctors))
		for i := range doctors {
			out = append(out, doctorToResponse(&doctors[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteDoctorHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteDoctor(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unitToResponse(u *clinic.Unit) UnitResponse {
	return UnitResponse{
		ID:      u.ID,
		Name:    u.Name,
		Address: u.Address,
		Phone:   u.Phone,
	}
}

func createUnitHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnitRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := repo.CreateUnit(r.Context(), clinic.Unit{
			Name:    req.Name,
			Address: req.Address,
			Phone:   req.Phone,
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, unitToResponse(created))
	}
}

func listUnitsHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		units, err := repo.ListUnits(r.Context())
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		out := make([]UnitResponse, 0, len(units))
		for i := range units {
			out = append(out, unitToResponse(&units[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteUnitHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteUnit(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func rulesFromRequest(reqs []ExamRuleRequest) []exams.Rule {
	rules := make([]exams.Rule, 0, len(reqs))
	for _, req := range reqs {
		rules = append(rules, exams.Rule{
			ID:         req.ID,
			Gender:     req.Gender,
			AgeMin:     req.AgeMin,
			AgeMax:     req.AgeMax,
			Conditions: req.Conditions,
			Exams:      req.Exams,
		})
	}
	return rules
}

func procedureToResponse(p *clinic.Procedure) ProcedureResponse {
	rules := p.ExamRequirements
	if rules == nil {
		rules = []exams.Rule{}
	}
	return ProcedureResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		ExamRequirements: rules,
	}
}

func createProcedureHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcedureRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := repo.CreateProcedure(r.Context(), clinic.Procedure{
			Name:             req.Name,
			Description:      req.Description,
			ExamRequirements: rulesFromRequest(req.ExamRequirements),
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, procedureToResponse(created))
	}
}

func updateProcedureHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req ProcedureRequest
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := repo.UpdateProcedure(r.Context(), clinic.Procedure{
			ID:               id,
			Name:             req.Name,
			Description:      req.Description,
			ExamRequirements: rulesFromRequest(req.ExamRequirements),
		})
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, procedureToResponse(updated))
	}
}

func listProceduresHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		procedures, err := repo.ListProcedures(r.Context())
		if err != nil {
			handleDirectoryError(w, err)
			return
		}

		out := make([]ProcedureResponse, 0, len(procedures))
		for i := range procedures {
			out = append(out, procedureToResponse(&procedures[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteProcedureHandler(repo clinic.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := repo.DeleteProcedure(r.Context(), id); err != nil {
			handleDirectoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrPatientNotFound),
		errors.Is(err, clinic.ErrDoctorNotFound),
		errors.Is(err, clinic.ErrUnitNotFound),
		errors.Is(err, clinic.ErrProcedureNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, clinic.ErrDuplicateCPF):
		writeError(w, http.StatusConflict, "duplicate_cpf", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
