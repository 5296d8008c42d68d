package model

import "time"

// Flight statuses.  A flight counts as active for scheduling purposes
// while it is on-time or delayed; a cancelled flight releases its
// airframe for other schedules.
const (
	FlightStatusOnTime    = "on-time"
	FlightStatusDelayed   = "delayed"
	FlightStatusCancelled = "cancelled"
)

// Flight represents a scheduled flight of one airplane between two
// airports, stored in the `flights` table.  Creating a flight clones
// the airplane's seat template into flight_seats rows exactly once.
//
// Fields:
//  ID               – primary key identifier.
//  AirplaneID       – airframe operating the flight.
//  DepartureAirport – IATA code of the origin airport.
//  ArrivalAirport   – IATA code of the destination airport.
//  DepartureTime    – scheduled departure (UTC).
//  ArrivalTime      – scheduled arrival (UTC).
//  Status           – "on-time", "delayed" or "cancelled".
type Flight struct {
	ID               uint64    `json:"id"`                // flights.id
	AirplaneID       uint64    `json:"airplane_id"`       // flights.airplane_id
	DepartureAirport string    `json:"departure_airport"` // flights.departure_airport
	ArrivalAirport   string    `json:"arrival_airport"`   // flights.arrival_airport
	DepartureTime    time.Time `json:"departure_time"`    // flights.departure_time
	ArrivalTime      time.Time `json:"arrival_time"`      // flights.arrival_time
	Status           string    `json:"status"`            // flights.status
	CreatedAt        time.Time `json:"created_at"`        // flights.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // flights.updated_at
}

// FlightSeat is the allocatable unit of inventory: one Seat
// instantiated for one Flight, stored in the `flight_seats` table.
// IsBooked is true iff the seat is referenced by exactly one
// non-cancelled booking_flights row.
//
// Fields:
//  ID          – primary key identifier.
//  FlightID    – flight this seat belongs to.
//  SeatID      – seat template row being instantiated.
//  IsBooked    – whether the seat has been taken on this flight.
//  PassengerID – passenger assigned to the seat (nullable).
type FlightSeat struct {
	ID          uint64  `json:"id"`                     // flight_seats.id
	FlightID    uint64  `json:"flight_id"`              // flight_seats.flight_id
	SeatID      uint64  `json:"seat_id"`                // flight_seats.seat_id
	IsBooked    bool    `json:"is_booked"`              // flight_seats.is_booked
	PassengerID *uint64 `json:"passenger_id,omitempty"` // flight_seats.passenger_id (nullable)
}
