package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/claromed/clinic-api/internal/availability"
	"github.com/claromed/clinic-api/internal/calendar"
)

func suggestDatesHandler(svc *availability.Service, horizonMonths int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months := horizonMonths
		if v := r.URL.Query().Get("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 24 {
				writeError(w, http.StatusBadRequest, "invalid_months", "months must be between 1 and 24")
				return
			}
			months = n
		}

		weekdays := calendar.MondayToSaturday()
		if raw, ok := r.URL.Query()["weekday"]; ok {
			var days []time.Weekday
			for _, v := range raw {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 || n > 6 {
					writeError(w, http.StatusBadRequest, "invalid_weekday", "weekday must be 0 (Sunday) through 6 (Saturday)")
					return
				}
				days = append(days, time.Weekday(n))
			}
			weekdays = calendar.NewWeekdaySet(days...)
		}

		dates := svc.SuggestDates(months, weekdays)
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(calendar.ISODate))
		}
		writeJSON(w, http.StatusOK, SuggestDatesResponse{Dates: out})
	}
}

func materializeAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MaterializeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		plan := availability.Plan{
			UnitID:    uuid.MustParse(req.UnitID),
			Overrides: make(map[string]availability.Window, len(req.Overrides)),
		}

		for _, s := range req.AttendanceDates {
			d, err := parseDate(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "attendance date "+s)
				return
			}
			plan.AttendanceDates = append(plan.AttendanceDates, d)
		}
		for _, s := range req.ProcedureDates {
			d, err := parseDate(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "procedure date "+s)
				return
			}
			plan.ProcedureDates = append(plan.ProcedureDates, d)
		}
		for key, win := range req.Overrides {
			if _, err := parseDate(key); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_override_date", key)
				return
			}
			plan.Overrides[key] = availability.Window{Start: win.Start, End: win.End}
		}
		for _, s := range req.ProcedureIDs {
			plan.ProcedureIDs = append(plan.ProcedureIDs, uuid.MustParse(s))
		}

		created, err := svc.Materialize(r.Context(), plan)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, MaterializeResponse{SlotsCreated: created})
	}
}

func updateDayHoursHandler(svc *availability.Service) http.HandlerFunc {
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

		var req TimeWindow
		if !decodeBody(w, r, &req) {
			return
		}

		err = svc.UpdateDayHours(r.Context(), unitID, date, availability.Window{Start: req.Start, End: req.End})
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteDayHandler(svc *availability.Service) http.HandlerFunc {
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

		if err := svc.DeleteDay(r.Context(), unitID, date); err != nil {
			handleAvailabilityError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unitID, ok := parseIDParam(w, r, "unitID")
		if !ok {
			return
		}

		from, err := parseDate(r.URL.Query().Get("from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_from", "from query parameter must be YYYY-MM-DD")
			return
		}
		to, err := parseDate(r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_to", "to query parameter must be YYYY-MM-DD")
			return
		}

		slots, err := svc.ListByUnit(r.Context(), unitID, from, to)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		out := make([]SlotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, SlotResponse{
				ID:             s.ID,
				UnitID:         s.UnitID,
				Date:           s.Date.Format(calendar.ISODate),
				StartTime:      s.StartTime,
				EndTime:        s.EndTime,
				IsProcedureDay: s.IsProcedureDay,
				ProcedureID:    s.ProcedureID,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, "invalid_plan", err.Error())
	case errors.Is(err, availability.ErrDayNotFound):
		writeError(w, http.StatusNotFound, "day_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
