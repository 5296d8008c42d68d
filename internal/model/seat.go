package model

import "fmt"

// Seat is one seat of an airplane's template, stored in the `seats`
// table.  Seats are immutable once created except for the bulk
// add/remove performed during a capacity resize.  A seat is not
// bookable by itself; it is cloned into a FlightSeat for every flight
// operated by its airplane.
//
// Fields:
//  ID         – primary key identifier.
//  AirplaneID – owning airplane.
//  SeatRow    – 1-based row number; business rows precede economy rows.
//  SeatColumn – column letter (A–D business, A–F economy).
//  Class      – cabin class, "business" or "economy".
type Seat struct {
	ID         uint64 `json:"id"`          // seats.id
	AirplaneID uint64 `json:"airplane_id"` // seats.airplane_id
	SeatRow    uint32 `json:"seat_row"`    // seats.seat_row
	SeatColumn string `json:"seat_column"` // seats.seat_column
	Class      string `json:"class"`       // seats.class
}

// Number renders the seat label as row digits followed by the column
// letter, e.g. "12C".
func (s Seat) Number() string {
	return fmt.Sprintf("%d%s", s.SeatRow, s.SeatColumn)
}
