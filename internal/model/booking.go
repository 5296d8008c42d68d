package model

import "time"

// Booking statuses.  The lifecycle only moves forward: a pending
// booking becomes confirmed or cancelled, never the other way.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking types.
const (
	BookingTypeOneWay    = "oneWay"
	BookingTypeRoundTrip = "roundTrip"
)

// Flight leg tags used on booking_flights rows.
const (
	FlightTypeOutbound = "outbound"
	FlightTypeInbound  = "inbound"
)

// Booking groups the flight seats and passengers of one checkout
// attempt, stored in the `bookings` table.  A user has at most one
// pending booking at any time; starting a new one supersedes and
// deletes the previous pending booking.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who owns the booking.
//  Reference – opaque UUID handed to support and payment callbacks.
//  Type      – "oneWay" or "roundTrip".
//  Status    – "pending", "confirmed" or "cancelled".
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	UserID    uint64    `json:"user_id"`    // bookings.user_id
	Reference string    `json:"reference"`  // bookings.reference
	Type      string    `json:"type"`       // bookings.type
	Status    string    `json:"status"`     // bookings.status
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time `json:"updated_at"` // bookings.updated_at
}

// BookingFlight joins a booking to one booked flight seat, stored in
// the `booking_flights` table.  Rows are created when the booking is
// confirmed, in the same transaction that flips the seat's is_booked
// flag.
//
// Fields:
//  ID           – primary key identifier.
//  BookingID    – owning booking.
//  FlightSeatID – seat taken by this booking.
//  FlightType   – "outbound" or "inbound".
type BookingFlight struct {
	ID           uint64 `json:"id"`             // booking_flights.id
	BookingID    uint64 `json:"booking_id"`     // booking_flights.booking_id
	FlightSeatID uint64 `json:"flight_seat_id"` // booking_flights.flight_seat_id
	FlightType   string `json:"flight_type"`    // booking_flights.flight_type
}
