package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"citasmed/internal/domain"
)

// DirectoryManager is the slice of the directory service the handlers call.
type DirectoryManager interface {
	CreateSpecialty(ctx context.Context, actor domain.Actor, s domain.Specialty) (domain.Specialty, error)
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)

	CreateDoctor(ctx context.Context, actor domain.Actor, d domain.Doctor) (domain.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (domain.Doctor, error)
	UpdateDoctor(ctx context.Context, actor domain.Actor, d domain.Doctor) (domain.Doctor, error)
	DeleteDoctor(ctx context.Context, actor domain.Actor, id uuid.UUID) error

	CreatePatient(ctx context.Context, actor domain.Actor, p domain.Patient) (domain.Patient, error)
	GetPatient(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Patient, error)
	UpdatePatient(ctx context.Context, actor domain.Actor, p domain.Patient) (domain.Patient, error)

	AddAvailabilityWindow(ctx context.Context, actor domain.Actor, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error)
	RemoveAvailabilityWindow(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	ListAvailabilityWindows(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityWindow, error)
}

type directoryHandler struct {
	svc DirectoryManager
}

func (h *directoryHandler) createSpecialty(w http.ResponseWriter, r *http.Request) {
	var req specialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	sp, err := h.svc.CreateSpecialty(r.Context(), actorFromContext(r.Context()), domain.Specialty{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSpecialtyResponse(sp))
}

func (h *directoryHandler) listSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.svc.ListSpecialties(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]specialtyResponse, 0, len(specialties))
	for _, sp := range specialties {
		out = append(out, toSpecialtyResponse(sp))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *directoryHandler) createDoctor(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	d, err := h.svc.CreateDoctor(r.Context(), actorFromContext(r.Context()), domain.Doctor{
		FullName:      req.FullName,
		LicenseNumber: req.LicenseNumber,
		Email:         req.Email,
		SpecialtyID:   req.SpecialtyID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDoctorResponse(d))
}

func (h *directoryHandler) getDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.svc.GetDoctor(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDoctorResponse(d))
}

func (h *directoryHandler) updateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	d, err := h.svc.UpdateDoctor(r.Context(), actorFromContext(r.Context()), domain.Doctor{
		ID:            id,
		FullName:      req.FullName,
		LicenseNumber: req.LicenseNumber,
		Email:         req.Email,
		SpecialtyID:   req.SpecialtyID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDoctorResponse(d))
}

func (h *directoryHandler) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDoctor(r.Context(), actorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *directoryHandler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	p, err := h.svc.CreatePatient(r.Context(), actorFromContext(r.Context()), domain.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		BirthDate:      req.BirthDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPatientResponse(p))
}

func (h *directoryHandler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPatient(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (h *directoryHandler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	p, err := h.svc.UpdatePatient(r.Context(), actorFromContext(r.Context()), domain.Patient{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		BirthDate:      req.BirthDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (h *directoryHandler) addWindow(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req availabilityWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	win, err := h.svc.AddAvailabilityWindow(r.Context(), actorFromContext(r.Context()), domain.AvailabilityWindow{
		DoctorID:    doctorID,
		Weekday:     req.Weekday,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWindowResponse(win))
}

func (h *directoryHandler) listWindows(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	windows, err := h.svc.ListAvailabilityWindows(r.Context(), doctorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]availabilityWindowResponse, 0, len(windows))
	for _, win := range windows {
		out = append(out, toWindowResponse(win))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *directoryHandler) removeWindow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoveAvailabilityWindow(r.Context(), actorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
