package api

import (
	"errors"
	"net/http"

	"github.com/claromed/clinic-api/internal/leads"
)

func leadToResponse(l *leads.Lead) LeadResponse {
	return LeadResponse{
		ID:       l.ID,
		Name:     l.Name,
		Phone:    l.Phone,
		Source:   l.Source,
		Stage:    string(l.Stage),
		Position: l.Position,
		Notes:    l.Notes,
	}
}

func createLeadHandler(svc *leads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LeadRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := svc.Create(r.Context(), leads.Lead{
			Name:   req.Name,
			Phone:  req.Phone,
			Source: req.Source,
			Stage:  leads.Stage(req.Stage),
			Notes:  req.Notes,
		})
		if err != nil {
			handleLeadError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, leadToResponse(created))
	}
}

func updateLeadHandler(svc *leads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req LeadRequest
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := svc.Update(r.Context(), leads.Lead{
			ID:     id,
			Name:   req.Name,
			Phone:  req.Phone,
			Source: req.Source,
			Notes:  req.Notes,
		})
		if err != nil {
			handleLeadError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, leadToResponse(updated))
	}
}

func moveLeadHandler(svc *leads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req MoveLeadRequest
		if !decodeBody(w, r, &req) {
			return
		}

		moved, err := svc.Move(r.Context(), id, leads.Stage(req.Stage), req.Position)
		if err != nil {
			handleLeadError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, leadToResponse(moved))
	}
}

func leadBoardHandler(svc *leads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := svc.Board(r.Context())
		if err != nil {
			handleLeadError(w, err)
			return
		}

		out := make(map[string][]LeadResponse, len(board))
		for stage, column := range board {
			col := make([]LeadResponse, 0, len(column))
			for i := range column {
				col = append(col, leadToResponse(&column[i]))
			}
			out[string(stage)] = col
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteLeadHandler(svc *leads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			handleLeadError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleLeadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leads.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "lead_not_found", err.Error())
	case errors.Is(err, leads.ErrInvalidStage):
		writeError(w, http.StatusBadRequest, "invalid_stage", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
