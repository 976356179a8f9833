// Package http exposes the scheduling engine over a JSON API. Identity
// arrives pre-resolved in the X-Actor-Id and X-Actor-Role headers; the
// transport never authenticates, it only carries the actor into the
// services.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"citasmed/internal/metrics"
)

type RouterDeps struct {
	Scheduler Scheduler
	Directory DirectoryManager

	Logger         *slog.Logger
	Collector      *metrics.Collector
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

// NewRouter wires the full API surface. Operational endpoints (/healthz,
// /metrics) sit outside the actor middleware so probes and scrapers need no
// identity headers.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(observe(logger, deps.Collector))
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	appts := &appointmentsHandler{svc: deps.Scheduler, collector: deps.Collector}
	dir := &directoryHandler{svc: deps.Directory}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireActor)

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", appts.request)
			r.Get("/", appts.list)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/reschedule", appts.reschedule)
				r.Post("/confirm", appts.confirm)
				r.Post("/cancel", appts.cancel)
				r.Post("/complete", appts.complete)
			})
		})

		r.Route("/specialties", func(r chi.Router) {
			r.Get("/", dir.listSpecialties)
			r.Post("/", dir.createSpecialty)
			r.Get("/{id}/doctors", appts.doctorsBySpecialty)
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Post("/", dir.createDoctor)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dir.getDoctor)
				r.Put("/", dir.updateDoctor)
				r.Delete("/", dir.deleteDoctor)

				r.Get("/windows", dir.listWindows)
				r.Post("/windows", dir.addWindow)
			})
		})

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", dir.createPatient)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dir.getPatient)
				r.Put("/", dir.updatePatient)
			})
		})

		r.Delete("/windows/{id}", dir.removeWindow)
	})

	return r
}
