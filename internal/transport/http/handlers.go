package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/metrics"
	"citasmed/internal/service/directory"
	"citasmed/internal/service/scheduling"
	"citasmed/internal/store"
)

// Scheduler is the slice of the scheduling service the handlers call.
type Scheduler interface {
	RequestAppointment(ctx context.Context, in scheduling.RequestInput) (domain.Appointment, error)
	Reschedule(ctx context.Context, appointmentID uuid.UUID, newAt time.Time, actor domain.Actor) (domain.Appointment, error)
	Confirm(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error)
	Complete(ctx context.Context, appointmentID uuid.UUID, actor domain.Actor) (domain.Appointment, error)
	ListVisible(ctx context.Context, actor domain.Actor, f scheduling.Filters) ([]store.AppointmentView, error)
	AvailableDoctorsFor(ctx context.Context, specialtyID uuid.UUID) ([]store.DoctorSummary, error)
}

type appointmentsHandler struct {
	svc       Scheduler
	collector *metrics.Collector
}

func (h *appointmentsHandler) request(w http.ResponseWriter, r *http.Request) {
	var req requestAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	appt, err := h.svc.RequestAppointment(r.Context(), scheduling.RequestInput{
		DoctorID:    req.DoctorID,
		PatientID:   req.PatientID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		Actor:       actorFromContext(r.Context()),
	})
	if err != nil {
		h.recordConflict(err)
		writeServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordBooked()
	}
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *appointmentsHandler) reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	appt, err := h.svc.Reschedule(r.Context(), id, req.ScheduledAt, actorFromContext(r.Context()))
	if err != nil {
		h.recordConflict(err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentsHandler) confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Confirm)
}

func (h *appointmentsHandler) cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Cancel)
}

func (h *appointmentsHandler) complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Complete)
}

func (h *appointmentsHandler) transition(w http.ResponseWriter, r *http.Request, do func(context.Context, uuid.UUID, domain.Actor) (domain.Appointment, error)) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	appt, err := do(r.Context(), id, actorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	views, err := h.svc.ListVisible(r.Context(), actorFromContext(r.Context()), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]appointmentViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toAppointmentViewResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *appointmentsHandler) doctorsBySpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	doctors, err := h.svc.AvailableDoctorsFor(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]doctorSummaryResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorSummaryResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *appointmentsHandler) recordConflict(err error) {
	if h.collector == nil {
		return
	}
	var ce *scheduling.ConflictError
	if errors.As(err, &ce) {
		h.collector.RecordBookingConflict(string(ce.Kind))
	}
}

func parseFilters(r *http.Request) (scheduling.Filters, error) {
	var f scheduling.Filters
	q := r.URL.Query()

	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("from must be RFC 3339")
		}
		f.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, errors.New("to must be RFC 3339")
		}
		f.To = &t
	}
	if s := q.Get("status"); s != "" {
		status := domain.AppointmentStatus(s)
		f.Status = &status
	}
	f.DoctorName = q.Get("doctor_name")
	f.PatientName = q.Get("patient_name")
	if s := q.Get("specialty_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, errors.New("specialty_id must be a UUID")
		}
		f.SpecialtyID = &id
	}
	return f, nil
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeServiceError maps a service error to its HTTP shape. Conflicts carry
// the kind as the error code so clients can branch without parsing text.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflictErr *scheduling.ConflictError
	var schedValidation *scheduling.ValidationError
	var dirValidation *directory.ValidationError

	switch {
	case errors.As(err, &schedValidation), errors.As(err, &dirValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "the actor may not perform this action")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "record not found")
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, string(conflictErr.Kind), conflictErr.Error())
	case errors.Is(err, domain.ErrAlreadyTerminal):
		writeError(w, http.StatusConflict, "already_terminal", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, store.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, store.ErrWindowOverlap):
		writeError(w, http.StatusConflict, "window_overlap", err.Error())
	case errors.Is(err, store.ErrDoctorHasAppointments):
		writeError(w, http.StatusConflict, "doctor_has_appointments", err.Error())
	case errors.Is(err, scheduling.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "temporary storage failure, retry later")
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
