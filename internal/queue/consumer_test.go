package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBookingLine(t *testing.T) {
	ev := BookingConfirmedEvent{
		BookingID:      12,
		Reference:      "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		UserID:         7,
		BookingType:    "roundTrip",
		FlightIDs:      []uint64{3, 4},
		SeatNumbers:    []string{"1A", "12C"},
		PassengerCount: 2,
		ConfirmedAt:    "2026-03-01T10:00:00Z",
	}
	line := formatBookingLine(ev)
	assert.Equal(t,
		"[2026-03-01T10:00:00Z] Booking confirmed | booking_id=12 | reference=9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d | user_id=7 | type=roundTrip | flights=[3,4] | passengers=2 | seats=[1A,12C]\n",
		line)
}

func TestFormatBookingLineEmptySeats(t *testing.T) {
	line := formatBookingLine(BookingConfirmedEvent{BookingID: 1, ConfirmedAt: "2026-03-01T10:00:00Z"})
	assert.Contains(t, line, "seats=[]")
	assert.Contains(t, line, "flights=[]")
}
