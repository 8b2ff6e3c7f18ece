package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/claromed/clinic-api/internal/appointment"
	"github.com/claromed/clinic-api/internal/auth"
	"github.com/claromed/clinic-api/internal/availability"
	"github.com/claromed/clinic-api/internal/clinic"
	"github.com/claromed/clinic-api/internal/exams"
	"github.com/claromed/clinic-api/internal/leads"
	"github.com/claromed/clinic-api/internal/templates"
	"github.com/claromed/clinic-api/internal/users"
)

type RouterConfig struct {
	Appointments  *appointment.Service
	Availability  *availability.Service
	Exams         *exams.Service
	Leads         *leads.Service
	Users         *users.Service
	Directory     clinic.Repository
	Templates     templates.Repository
	TokenIssuer   *auth.TokenIssuer
	HorizonMonths int
	Log           zerolog.Logger
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(120, time.Minute))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public endpoints
	r.Post("/auth/login", loginHandler(cfg.Users, cfg.TokenIssuer))
	r.Post("/generate-exam-pdf", ExamDocumentHandler(cfg.Exams))

	// Everything else requires a valid session token.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.TokenIssuer))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", registerUserHandler(cfg.Users))
			r.Get("/", listUsersHandler(cfg.Users))
			r.Post("/{id}/activate", setUserActiveHandler(cfg.Users, true))
			r.Post("/{id}/deactivate", setUserActiveHandler(cfg.Users, false))
			r.Delete("/{id}", deleteUserHandler(cfg.Users))
		})

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", createPatientHandler(cfg.Directory))
			r.Get("/", listPatientsHandler(cfg.Directory))
			r.Get("/{id}", getPatientHandler(cfg.Directory))
			r.Put("/{id}", updatePatientHandler(cfg.Directory))
			r.Delete("/{id}", deletePatientHandler(cfg.Directory))
			r.Get("/{id}/appointments", patientAppointmentsHandler(cfg.Appointments))
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Post("/", createDoctorHandler(cfg.Directory))
			r.Get("/", listDoctorsHandler(cfg.Directory))
			r.Delete("/{id}", deleteDoctorHandler(cfg.Directory))
		})

		r.Route("/units", func(r chi.Router) {
			r.Post("/", createUnitHandler(cfg.Directory))
			r.Get("/", listUnitsHandler(cfg.Directory))
			r.Delete("/{id}", deleteUnitHandler(cfg.Directory))

			r.Route("/{unitID}/availability", func(r chi.Router) {
				r.Get("/", listAvailabilityHandler(cfg.Availability))
				r.Put("/day", updateDayHoursHandler(cfg.Availability))
				r.Delete("/day", deleteDayHandler(cfg.Availability))
			})

			r.Get("/{unitID}/agenda", dayAgendaHandler(cfg.Appointments))
		})

		r.Route("/procedures", func(r chi.Router) {
			r.Post("/", createProcedureHandler(cfg.Directory))
			r.Get("/", listProceduresHandler(cfg.Directory))
			r.Put("/{id}", updateProcedureHandler(cfg.Directory))
			r.Delete("/{id}", deleteProcedureHandler(cfg.Directory))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", bookAppointmentHandler(cfg.Appointments))
			r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
			r.Put("/{id}/schedule", rescheduleAppointmentHandler(cfg.Appointments))
			r.Post("/{id}/transition", transitionAppointmentHandler(cfg.Appointments))
			r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
		})

		r.Route("/availability", func(r chi.Router) {
			r.Post("/", materializeAvailabilityHandler(cfg.Availability))
			r.Get("/suggest-dates", suggestDatesHandler(cfg.Availability, cfg.HorizonMonths))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", createLeadHandler(cfg.Leads))
			r.Get("/board", leadBoardHandler(cfg.Leads))
			r.Put("/{id}", updateLeadHandler(cfg.Leads))
			r.Post("/{id}/move", moveLeadHandler(cfg.Leads))
			r.Delete("/{id}", deleteLeadHandler(cfg.Leads))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", createTemplateHandler(cfg.Templates))
			r.Get("/", listTemplatesHandler(cfg.Templates))
			r.Put("/{id}", updateTemplateHandler(cfg.Templates))
			r.Delete("/{id}", deleteTemplateHandler(cfg.Templates))
		})
	})

	return r
}
