package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/claromed/clinic-api/internal/auth"
	"github.com/claromed/clinic-api/internal/users"
)

func userToResponse(u *users.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Active: u.Active,
	}
}

func loginHandler(svc *users.Service, issuer *auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			handleUserError(w, err)
			return
		}

		token, err := issuer.Issue(u.ID, string(u.Role), time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: userToResponse(u)})
	}
}

func registerUserHandler(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if !decodeBody(w, r, &req) {
			return
		}

		created, err := svc.Register(r.Context(), req.Name, req.Email, req.Password, users.Role(req.Role))
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, userToResponse(created))
	}
}

func listUsersHandler(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			handleUserError(w, err)
			return
		}

		out := make([]UserResponse, 0, len(list))
		for i := range list {
			out = append(out, userToResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func setUserActiveHandler(svc *users.Service, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		u, err := svc.SetActive(r.Context(), id, active)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, userToResponse(u))
	}
}

func deleteUserHandler(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			handleUserError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, users.ErrUserInactive):
		writeError(w, http.StatusForbidden, "user_inactive", err.Error())
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, users.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, users.ErrWeakPassword), errors.Is(err, users.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
