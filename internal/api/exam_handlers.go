package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/exams"
)

// ExamDocumentHandler generates the printable exam request document for a
// patient and procedure. It is mounted on the main API and also served as
// the standalone exam-document function binary, so the response shape is
// part of the public contract: {success, html, html_base64, patient_name,
// procedure_name, exam_count, exams}.
func ExamDocumentHandler(svc *exams.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExamDocumentRequest
		if !decodeBody(w, r, &req) {
			return
		}

		procedureID, err := uuid.Parse(req.ProcedureID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "procedure_id must be a valid UUID")
			return
		}

		result, err := svc.GenerateExamRequest(r.Context(), exams.Request{
			CPF:         req.CPF,
			ProcedureID: procedureID,
			Gender:      req.Gender,
			Conditions:  req.Conditions,
		})
		if err != nil {
			handleExamError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ExamDocumentResponse{
			Success:       true,
			HTML:          result.HTML,
			HTMLBase64:    base64.StdEncoding.EncodeToString([]byte(result.HTML)),
			PatientName:   result.PatientName,
			ProcedureName: result.ProcedureName,
			ExamCount:     len(result.Exams),
			Exams:         result.Exams,
		})
	}
}

func handleExamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exams.ErrMissingCPF), errors.Is(err, exams.ErrMissingProcedureID):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, exams.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, exams.ErrProcedureNotFound):
		writeError(w, http.StatusNotFound, "procedure_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
