// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatStatusEvent is published whenever a flight seat changes
// availability, so seat-map views on other nodes can refresh without
// polling MySQL.  Status is "booked" or "available"; HeldBy carries
// the passenger when the seat was taken.
type SeatStatusEvent struct {
	FlightID     uint64  `json:"flight_id"`
	FlightSeatID uint64  `json:"flight_seat_id"`
	SeatNumber   string  `json:"seat_number"`
	Status       string  `json:"status"`
	HeldBy       *uint64 `json:"held_by,omitempty"`
	ChangedAt    string  `json:"changed_at"`
}

// BookingConfirmedEvent is published when a booking is successfully
// confirmed.  It carries enough denormalized data for downstream
// consumers to log or notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID      uint64   `json:"booking_id"`
	Reference      string   `json:"reference"`
	UserID         uint64   `json:"user_id"`
	BookingType    string   `json:"booking_type"`
	FlightIDs      []uint64 `json:"flight_ids"`
	SeatNumbers    []string `json:"seats"`
	PassengerCount int      `json:"passenger_count"`
	ConfirmedAt    string   `json:"confirmed_at"`
}
