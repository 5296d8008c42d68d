package model

import "time"

// Passenger is a traveller attached to a booking, stored in the
// `passengers` table.  Passengers are created while the booking is
// still pending and linked through booking_passengers; deleting a
// superseded pending booking removes its passengers as well.
//
// Fields:
//  ID          – primary key identifier.
//  FullName    – passenger name exactly as on the travel document.
//  Gender      – free-form gender string from the checkout form.
//  DateOfBirth – birth date, stored as DATE.
//  Passport    – passport or ID number (nullable for domestic).
type Passenger struct {
	ID          uint64    `json:"id"`                 // passengers.id
	FullName    string    `json:"full_name"`          // passengers.full_name
	Gender      string    `json:"gender"`             // passengers.gender
	DateOfBirth time.Time `json:"date_of_birth"`      // passengers.date_of_birth
	Passport    *string   `json:"passport,omitempty"` // passengers.passport (nullable)
	CreatedAt   time.Time `json:"created_at"`         // passengers.created_at
}
