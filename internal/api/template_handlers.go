package api

import (
	"errors"
	"net/http"

	"github.com/claromed/clinic-api/internal/templates"
)

func templateToResponse(t *templates.Template) TemplateResponse {
	return TemplateResponse{
		ID:       t.ID,
		Kind:     string(t.Kind),
		Title:    t.Title,
		Body:     t.Body,
		MediaURL: t.MediaURL,
		Tags:     t.Tags,
	}
}

func createTemplateHandler(repo templates.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TemplateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := repo.Create(r.Context(), templates.Template{
			Kind:     templates.Kind(req.Kind),
			Title:    req.Title,
			Body:     req.Body,
			MediaURL: req.MediaURL,
			Tags:     req.Tags,
		})
		if err != nil {
			handleTemplateError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, templateToResponse(created))
	}
}

func updateTemplateHandler(repo templates.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req TemplateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		updated, err := repo.Update(r.Context(), templates.Template{
			ID:       id,
			Title:    req.Title,
			Body:     req.Body,
			MediaURL: req.MediaURL,
			Tags:     req.Tags,
		})
		if err != nil {
			handleTemplateError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, templateToResponse(updated))
	}
}

func listTemplatesHandler(repo templates.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := templates.Kind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = templates.KindMessage
		}

		list, err := repo.ListByKind(r.Context(), kind)
		if err != nil {
			handleTemplateError(w, err)
			return
		}

		out := make([]TemplateResponse, 0, len(list))
		for i := range list {
			out = append(out, templateToResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteTemplateHandler(repo templates.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			handleTemplateError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTemplateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, templates.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "template_not_found", err.Error())
	case errors.Is(err, templates.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, "invalid_kind", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
