package store

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Constraint-level booking conflicts. The scheduling service normally
	// detects these before writing; the store raises them when a concurrent
	// writer slips past the optimistic check and hits the unique indexes.
	ErrDoctorDoubleBooked      = errors.New("doctor already booked at that instant")
	ErrDuplicatePatientBooking = errors.New("patient already has an active booking with that doctor on that date")

	// Directory write conflicts.
	ErrAlreadyExists         = errors.New("record already exists")
	ErrWindowOverlap         = errors.New("availability window overlaps an existing one")
	ErrDoctorHasAppointments = errors.New("doctor still has appointments on file")
)
