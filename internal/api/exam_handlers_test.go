package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claromed/clinic-api/internal/exams"
)

type fakePatientSource struct {
	patients map[string]exams.PatientInfo
}

func (f *fakePatientSource) PatientByCPF(_ context.Context, cpf string) (*exams.PatientInfo, error) {
	p, ok := f.patients[cpf]
	if !ok {
		return nil, exams.ErrPatientNotFound
	}
	return &p, nil
}

type fakeProcedureSource struct {
	procedures map[uuid.UUID]exams.ProcedureInfo
}

func (f *fakeProcedureSource) ProcedureByID(_ context.Context, id uuid.UUID) (*exams.ProcedureInfo, error) {
	p, ok := f.procedures[id]
	if !ok {
		return nil, exams.ErrProcedureNotFound
	}
	return &p, nil
}

func postExamDocument(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/generate-exam-pdf", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestExamDocumentHandler(t *testing.T) {
	procedureID := uuid.New()
	birth := time.Date(1980, 5, 10, 0, 0, 0, 0, time.UTC)

	svc := exams.NewService(
		&fakePatientSource{patients: map[string]exams.PatientInfo{
			"12345678901": {Name: "Maria Souza", Gender: exams.GenderFemale, BirthDate: &birth},
		}},
		&fakeProcedureSource{procedures: map[uuid.UUID]exams.ProcedureInfo{
			procedureID: {
				Name: "Cirurgia de Catarata",
				Rules: []exams.Rule{
					{ID: "base", Gender: exams.GenderAll, Exams: []string{"Hemograma completo", "Glicemia de jejum"}},
					{ID: "ecg-40plus", Gender: exams.GenderAll, AgeMin: intPtr(40), Exams: []string{"Eletrocardiograma"}},
				},
			},
		}},
	)
	handler := ExamDocumentHandler(svc)

	t.Run("generates document", func(t *testing.T) {
		rec := postExamDocument(t, handler, ExamDocumentRequest{
			CPF:         "12345678901",
			ProcedureID: procedureID.String(),
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ExamDocumentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.True(t, resp.Success)
		assert.Equal(t, "Maria Souza", resp.PatientName)
		assert.Equal(t, "Cirurgia de Catarata", resp.ProcedureName)
		assert.Equal(t, 3, resp.ExamCount)
		assert.Equal(t, []string{"Hemograma completo", "Glicemia de jejum", "Eletrocardiograma"}, resp.Exams)
		assert.Contains(t, resp.HTML, "Maria Souza")

		decoded, err := base64.StdEncoding.DecodeString(resp.HTMLBase64)
		require.NoError(t, err)
		assert.Equal(t, resp.HTML, string(decoded))
	})

	t.Run("missing cpf is a 400", func(t *testing.T) {
		rec := postExamDocument(t, handler, ExamDocumentRequest{ProcedureID: procedureID.String()})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed procedure id is a 400", func(t *testing.T) {
		rec := postExamDocument(t, handler, map[string]string{
			"cpf":          "12345678901",
			"procedure_id": "not-a-uuid",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown patient is a 404", func(t *testing.T) {
		rec := postExamDocument(t, handler, ExamDocumentRequest{
			CPF:         "00000000000",
			ProcedureID: procedureID.String(),
		})
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "patient_not_found", resp.Error)
	})

	t.Run("unknown procedure is a 404", func(t *testing.T) {
		rec := postExamDocument(t, handler, ExamDocumentRequest{
			CPF:         "12345678901",
			ProcedureID: uuid.NewString(),
		})
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "procedure_not_found", resp.Error)
	})

	t.Run("invalid body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/generate-exam-pdf", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func intPtr(v int) *int { return &v }
