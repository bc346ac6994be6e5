package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plantao-ops/internal/cache"
	"plantao-ops/internal/config"
	"plantao-ops/internal/middleware"
	"plantao-ops/internal/models"
)

// NewRouter wires every route. ns may be nil to disable dashboard caching.
func NewRouter(cfg *config.Config, store Store, logger *zap.Logger, ns *cache.Namespace) http.Handler {
	authHandler := NewAuthHandler(cfg, store, logger)
	students := NewStudentsHandler(cfg, store, logger)
	shiftStudents := NewShiftStudentsHandler(cfg, store, logger)
	classes := NewClassesHandler(cfg, store, logger)
	enrollments := NewEnrollmentsHandler(cfg, store, logger)
	finance := NewFinanceHandler(cfg, store, logger)
	shifts := NewShiftsHandler(cfg, store, logger)
	attempts := NewAttemptsHandler(cfg, store, logger)
	afterShift := NewAfterShiftHandler(cfg, store, logger)
	feedback := NewFeedbackHandler(cfg, store, logger)
	dashboard := NewAnalyticsHandler(cfg, store, logger, ns)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Use(dashboard.InvalidateOnWrite)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/students", func(r chi.Router) {
				r.Get("/", students.List)
				r.Post("/", students.Create)
				r.Get("/{id}", students.Get)
				r.Put("/{id}", students.Update)
				r.Patch("/{id}", students.UpdateField)
				r.Delete("/{id}", students.Delete)
			})

			r.Route("/shift-students", func(r chi.Router) {
				r.Get("/", shiftStudents.List)
				r.Post("/", shiftStudents.Create)
				r.With(middleware.RequireRole(models.RoleAdmin)).Post("/reconcile", shiftStudents.Reconcile)
				r.Get("/{id}", shiftStudents.Get)
			})

			r.Route("/classes", func(r chi.Router) {
				r.Get("/", classes.List)
				r.Post("/", classes.Create)
				r.Get("/{id}", classes.Get)
				r.Put("/{id}", classes.Update)
				r.Patch("/{id}", classes.UpdateField)
				r.Delete("/{id}", classes.Delete)
				r.Get("/{id}/students", classes.Students)
				r.Get("/{id}/finance", classes.Finance)
			})

			r.Route("/enrollments", func(r chi.Router) {
				r.Get("/", enrollments.List)
				r.Post("/", enrollments.Create)
				r.Get("/student/{id}", enrollments.ByStudent)
				r.Get("/class/{id}", enrollments.ByClass)
				r.Get("/{id}", enrollments.Get)
				r.Put("/{id}", enrollments.Update)
				r.Delete("/{id}", enrollments.Delete)
			})

			r.Route("/finance", func(r chi.Router) {
				r.Get("/", finance.List)
				r.Post("/", finance.Create)
				r.Get("/resumo", finance.Summary)
				r.Get("/type/{type}", finance.ByType)
				r.Get("/{id}", finance.Get)
				r.Put("/{id}", finance.Update)
				r.Patch("/{id}", finance.UpdateField)
				r.Delete("/{id}", finance.Delete)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shifts.List)
				r.Post("/", shifts.Create)
				r.Put("/{studentId}/{date}", shifts.Update)
				r.Delete("/{studentId}/{date}", shifts.Delete)
			})

			r.Route("/attempts", func(r chi.Router) {
				r.Get("/", attempts.List)
				r.Post("/", attempts.Create)
				r.Get("/count/{studentId}", attempts.Count)
				r.Delete("/{studentId}/{attemptDate}/{desiredDate}", attempts.Delete)
			})

			r.Route("/after-shift", func(r chi.Router) {
				r.Get("/", afterShift.List)
				r.Post("/", afterShift.Create)
				r.Get("/{studentId}/{date}", afterShift.Get)
				r.Put("/{studentId}/{date}", afterShift.Update)
				r.Delete("/{studentId}/{date}", afterShift.Delete)
			})

			r.Get("/feedback", feedback.List)
			r.Get("/analytics/dashboard", dashboard.Dashboard)
		})
	})

	return r
}
