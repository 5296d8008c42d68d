// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios: ErrConflict signals that an operation cannot proceed
// because of existing state (duplicate airplane name, overlapping
// schedule) and ErrSeatTaken that a confirm lost the race for a
// flight seat.
package repository

import "errors"

// ErrAirplaneNotFound is returned when an airplane lookup yields no rows.
var ErrAirplaneNotFound = errors.New("airplane not found")

// ErrFlightNotFound is returned when a flight lookup yields no rows.
var ErrFlightNotFound = errors.New("flight not found")

// ErrFlightSeatNotFound is returned when a flight seat lookup yields no rows.
var ErrFlightSeatNotFound = errors.New("flight seat not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSeatTaken is returned when a confirm attempts to book a flight
// seat whose is_booked flag has already been flipped.  Handlers
// should translate this into an HTTP 409 response.
var ErrSeatTaken = errors.New("seat already booked")

// ErrConflict is returned when a create or update cannot be performed
// because of conflicting state, such as a duplicate airplane name or
// an overlapping flight schedule.  Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
