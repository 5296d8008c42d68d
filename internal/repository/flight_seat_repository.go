package repository // repository for flight seat persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// FlightSeatRepo encapsulates database operations for flight_seats,
// the allocatable inventory rows cloned from a seat template when a
// flight is created.
type FlightSeatRepo struct {
	db *sql.DB
}

// NewFlightSeatRepo constructs a FlightSeatRepo given a DB handle.
func NewFlightSeatRepo(db *sql.DB) *FlightSeatRepo {
	return &FlightSeatRepo{db: db}
}

// CreateBulkTx inserts one flight_seat row per seat ID in a single
// statement, all unbooked.  Runs inside the flight-creation
// transaction so the inventory exists exactly once per flight.
func (r *FlightSeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, flightID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO flight_seats (flight_id, seat_id, is_booked) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, sid := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, 0)"
		args = append(args, flightID, sid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// FlightSeatDetail joins a flight seat with the template attributes
// needed to render a seat map.
type FlightSeatDetail struct {
	model.FlightSeat
	SeatRow    uint32 `json:"seat_row"`
	SeatColumn string `json:"seat_column"`
	Class      string `json:"class"`
}

// ListByFlight returns all flight seats of a flight ordered by row
// then column, with their template attributes.
func (r *FlightSeatRepo) ListByFlight(ctx context.Context, flightID uint64) ([]FlightSeatDetail, error) {
	const q = `SELECT fs.id, fs.flight_id, fs.seat_id, fs.is_booked, fs.passenger_id,
	                  s.seat_row, s.seat_column, s.class
	           FROM flight_seats fs
	           JOIN seats s ON s.id = fs.seat_id
	           WHERE fs.flight_id = ?
	           ORDER BY s.seat_row, s.seat_column`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]FlightSeatDetail, 0)
	for rows.Next() {
		var d FlightSeatDetail
		var passengerID sql.NullInt64
		if err := rows.Scan(
			&d.ID, &d.FlightID, &d.SeatID, &d.IsBooked, &passengerID,
			&d.SeatRow, &d.SeatColumn, &d.Class,
		); err != nil {
			return nil, err
		}
		if passengerID.Valid {
			pid := uint64(passengerID.Int64)
			d.PassengerID = &pid
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a single flight seat.  Returns
// ErrFlightSeatNotFound when no row matches.
func (r *FlightSeatRepo) GetByID(ctx context.Context, id uint64) (*model.FlightSeat, error) {
	const q = `SELECT id, flight_id, seat_id, is_booked, passenger_id FROM flight_seats WHERE id = ?`
	var fs model.FlightSeat
	var passengerID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&fs.ID, &fs.FlightID, &fs.SeatID, &fs.IsBooked, &passengerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightSeatNotFound
		}
		return nil, err
	}
	if passengerID.Valid {
		pid := uint64(passengerID.Int64)
		fs.PassengerID = &pid
	}
	return &fs, nil
}

// GetDetailTx retrieves one flight seat with its template attributes
// inside a transaction, so confirmation flows see rows they just
// wrote.  Returns ErrFlightSeatNotFound when no row matches.
func (r *FlightSeatRepo) GetDetailTx(ctx context.Context, tx *sql.Tx, id uint64) (*FlightSeatDetail, error) {
	const q = `SELECT fs.id, fs.flight_id, fs.seat_id, fs.is_booked, fs.passenger_id,
	                  s.seat_row, s.seat_column, s.class
	           FROM flight_seats fs
	           JOIN seats s ON s.id = fs.seat_id
	           WHERE fs.id = ?`
	var d FlightSeatDetail
	var passengerID sql.NullInt64
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.FlightID, &d.SeatID, &d.IsBooked, &passengerID,
		&d.SeatRow, &d.SeatColumn, &d.Class,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightSeatNotFound
		}
		return nil, err
	}
	if passengerID.Valid {
		pid := uint64(passengerID.Int64)
		d.PassengerID = &pid
	}
	return &d, nil
}

// ConfirmTx flips is_booked from false to true for one flight seat as
// a compare-and-swap: the WHERE clause only matches an unbooked seat,
// so under concurrent confirms exactly one caller sees an affected
// row.  Zero rows affected means either the seat does not exist
// (ErrFlightSeatNotFound) or it lost the race (ErrSeatTaken).
func (r *FlightSeatRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, id uint64, passengerID *uint64) error {
	const q = `UPDATE flight_seats SET is_booked = 1, passenger_id = ? WHERE id = ? AND is_booked = 0`
	var pid sql.NullInt64
	if passengerID != nil {
		pid = sql.NullInt64{Int64: int64(*passengerID), Valid: true}
	}
	res, err := tx.ExecContext(ctx, q, pid, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM flight_seats WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFlightSeatNotFound
		}
		return err
	}
	return ErrSeatTaken
}

// ReleaseByBookingTx frees every flight seat held by the given
// booking and returns the released seats so callers can broadcast
// the state change.  Runs inside the cancellation transaction.
func (r *FlightSeatRepo) ReleaseByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]FlightSeatDetail, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT fs.id, fs.flight_id, fs.seat_id, s.seat_row, s.seat_column, s.class
		 FROM flight_seats fs
		 JOIN booking_flights bf ON bf.flight_seat_id = fs.id
		 JOIN seats s ON s.id = fs.seat_id
		 WHERE bf.booking_id = ?`, bookingID)
	if err != nil {
		return nil, err
	}
	var released []FlightSeatDetail
	for rows.Next() {
		var d FlightSeatDetail
		if scanErr := rows.Scan(&d.ID, &d.FlightID, &d.SeatID, &d.SeatRow, &d.SeatColumn, &d.Class); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		released = append(released, d)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}
	if len(released) == 0 {
		return []FlightSeatDetail{}, nil
	}
	const q = `UPDATE flight_seats fs
	           JOIN booking_flights bf ON bf.flight_seat_id = fs.id
	           SET fs.is_booked = 0, fs.passenger_id = NULL
	           WHERE bf.booking_id = ?`
	if _, err = tx.ExecContext(ctx, q, bookingID); err != nil {
		return nil, err
	}
	return released, nil
}
