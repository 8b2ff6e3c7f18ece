package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/appointment"
	"github.com/claromed/clinic-api/internal/calendar"
)

func appointmentToResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		UnitID:      a.UnitID,
		ProcedureID: a.ProcedureID,
		Date:        a.Date.Format(calendar.ISODate),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.Status),
		Notes:       a.Notes,
		AmountPaid:  a.AmountPaid,
	}
}

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if !decodeBody(w, r, &req) {
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		booking := appointment.BookingRequest{
			PatientID:  uuid.MustParse(req.PatientID),
			DoctorID:   uuid.MustParse(req.DoctorID),
			UnitID:     uuid.MustParse(req.UnitID),
			Date:       date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Notes:      req.Notes,
			AmountPaid: req.AmountPaid,
		}
		if req.ProcedureID != nil {
			procID := uuid.MustParse(*req.ProcedureID)
			booking.ProcedureID = &procID
		}

		appt, err := svc.Book(r.Context(), booking)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appointmentToResponse(appt))
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentToResponse(appt))
	}
}

func rescheduleAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req RescheduleRequest
		if !decodeBody(w, r, &req) {
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, date, req.StartTime, req.EndTime)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentToResponse(appt))
	}
}

func transitionAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		var req TransitionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		appt, err := svc.Transition(r.Context(), id, appointment.Status(req.Status))
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentToResponse(appt))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleAppointmentError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func dayAgendaHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unitID, ok := parseIDParam(w, r, "unitID")
		if !ok {
			return
		}

		date, err := parseDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter must be YYYY-MM-DD")
			return
		}

		appts, err := svc.DayAgenda(r.Context(), unitID, date)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		out := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			out = append(out, appointmentToResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func patientAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, ok := parseIDParam(w, r, "id")
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		appts, err := svc.ListByPatient(r.Context(), patientID, limit, offset)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		out := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			out = append(out, appointmentToResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	var conflict *appointment.ConflictError

	switch {
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "booking_conflict",
			fmt.Sprintf("requested window overlaps an existing appointment from %s to %s", conflict.ExistingStart, conflict.ExistingEnd))
	case errors.Is(err, appointment.ErrDayBeingBooked):
		writeError(w, http.StatusConflict, "day_being_booked", err.Error())
	case errors.Is(err, appointment.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "invalid_window", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
