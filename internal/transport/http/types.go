package http

import (
	"time"

	"github.com/google/uuid"

	"citasmed/internal/domain"
	"citasmed/internal/store"
)

type requestAppointmentRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type appointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type appointmentViewResponse struct {
	appointmentResponse

	DoctorName    string `json:"doctor_name,omitempty"`
	SpecialtyName string `json:"specialty_name,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
}

type specialtyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type specialtyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type doctorRequest struct {
	FullName      string    `json:"full_name"`
	LicenseNumber string    `json:"license_number"`
	Email         string    `json:"email"`
	SpecialtyID   uuid.UUID `json:"specialty_id"`
}

type doctorResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	LicenseNumber string    `json:"license_number"`
	Email         string    `json:"email"`
	SpecialtyID   uuid.UUID `json:"specialty_id"`
}

type doctorSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	SpecialtyID   uuid.UUID `json:"specialty_id"`
	SpecialtyName string    `json:"specialty_name"`
}

type patientRequest struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DocumentNumber string     `json:"document_number"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
}

type patientResponse struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	DocumentNumber string     `json:"document_number"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
}

type availabilityWindowRequest struct {
	Weekday     int `json:"weekday"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

type availabilityWindowResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	Weekday     int       `json:"weekday"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAppointmentResponse(a domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAppointmentViewResponse(v store.AppointmentView) appointmentViewResponse {
	return appointmentViewResponse{
		appointmentResponse: toAppointmentResponse(v.Appointment),
		DoctorName:          v.DoctorName,
		SpecialtyName:       v.SpecialtyName,
		PatientName:         v.PatientName,
	}
}

func toSpecialtyResponse(s domain.Specialty) specialtyResponse {
	return specialtyResponse{ID: s.ID, Name: s.Name, Description: s.Description}
}

func toDoctorResponse(d domain.Doctor) doctorResponse {
	return doctorResponse{
		ID:            d.ID,
		FullName:      d.FullName,
		LicenseNumber: d.LicenseNumber,
		Email:         d.Email,
		SpecialtyID:   d.SpecialtyID,
	}
}

func toDoctorSummaryResponse(d store.DoctorSummary) doctorSummaryResponse {
	return doctorSummaryResponse(d)
}

func toPatientResponse(p domain.Patient) patientResponse {
	return patientResponse{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		DocumentNumber: p.DocumentNumber,
		Phone:          p.Phone,
		Email:          p.Email,
		BirthDate:      p.BirthDate,
	}
}

func toWindowResponse(w domain.AvailabilityWindow) availabilityWindowResponse {
	return availabilityWindowResponse{
		ID:          w.ID,
		DoctorID:    w.DoctorID,
		Weekday:     w.Weekday,
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
	}
}
