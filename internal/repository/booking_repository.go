package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their joined
// flight seats.  A booking groups the seats and passengers of one
// checkout attempt; all multi-row mutations expose Tx variants so the
// handler can keep the state machine transitions atomic.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for cross-repository transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// DeletePendingByUserTx removes the user's pending booking, if any,
// together with its attached passengers.  A pending booking is an
// abandoned or superseded checkout flow; it carries no booking_flights
// rows (those only appear on confirm), so only the passenger joins
// need cleanup.  Pending bookings have no TTL — they live until the
// user's next StartBooking supersedes them.
func (r *BookingRepo) DeletePendingByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	const delPassengers = `DELETE p FROM passengers p
	                       JOIN booking_passengers bp ON bp.passenger_id = p.id
	                       JOIN bookings b ON b.id = bp.booking_id
	                       WHERE b.user_id = ? AND b.status = 'pending'`
	if _, err := tx.ExecContext(ctx, delPassengers, userID); err != nil {
		return err
	}
	const delJoins = `DELETE bp FROM booking_passengers bp
	                  JOIN bookings b ON b.id = bp.booking_id
	                  WHERE b.user_id = ? AND b.status = 'pending'`
	if _, err := tx.ExecContext(ctx, delJoins, userID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = ? AND status = 'pending'`, userID)
	return err
}

// CreateTx inserts a new pending booking within the provided
// transaction and populates the generated ID plus DB-default fields
// on the given model.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, reference, type, status) VALUES (?, ?, ?, 'pending')`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.Reference, b.Type)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, user_id, reference, type, status, created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.Reference, &b.Type, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
}

// GetByID retrieves a booking by its ID.  Returns ErrBookingNotFound
// when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, reference, type, status, created_at, updated_at FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.Reference, &b.Type, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx moves a booking from one status to another.  The
// previous status is part of the WHERE clause, so an already-advanced
// booking yields zero affected rows; in that case the row is probed
// to distinguish not-found from an illegal transition (ErrConflict).
// The state machine only moves forward: pending -> confirmed or
// pending -> cancelled.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	return ErrConflict
}

// CreateFlightsBulkTx inserts booking_flights rows joining the
// booking to its confirmed seats, in a single statement inside the
// confirmation transaction.
func (r *BookingRepo) CreateFlightsBulkTx(ctx context.Context, tx *sql.Tx, flights []model.BookingFlight) error {
	if len(flights) == 0 {
		return nil
	}
	query := `INSERT INTO booking_flights (booking_id, flight_seat_id, flight_type) VALUES `
	args := make([]interface{}, 0, len(flights)*3)
	for i, bf := range flights {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, bf.BookingID, bf.FlightSeatID, bf.FlightType)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// BookingSeatDetail describes one booked seat inside a booking
// history entry.
type BookingSeatDetail struct {
	FlightSeatID     uint64 `json:"flight_seat_id"`
	FlightID         uint64 `json:"flight_id"`
	FlightType       string `json:"flight_type"`
	SeatNumber       string `json:"seat_number"`
	Class            string `json:"class"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
}

// BookingDetail is a booking with its nested seats and passengers as
// returned by HistoryByUser.
type BookingDetail struct {
	ID         uint64              `json:"id"`
	Reference  string              `json:"reference"`
	Type       string              `json:"type"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"created_at"`
	Seats      []BookingSeatDetail `json:"seats"`
	Passengers []model.Passenger   `json:"passengers"`
}

// HistoryByUser returns all bookings of a user, newest first, with
// nested booking_flights -> flight_seats data and attached
// passengers.  No status restriction: pending, confirmed and
// cancelled bookings all appear.
func (r *BookingRepo) HistoryByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT id, reference, type, status, created_at
	           FROM bookings
	           WHERE user_id = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.Reference, &d.Type, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Seats = []BookingSeatDetail{}
		d.Passengers = []model.Passenger{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// Fetch seats for all bookings in one query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	in := strings.Join(placeholders, ",")

	seatQuery := `SELECT bf.booking_id, bf.flight_seat_id, bf.flight_type,
	                     fs.flight_id, s.seat_row, s.seat_column, s.class,
	                     f.departure_airport, f.arrival_airport, f.departure_time
	              FROM booking_flights bf
	              JOIN flight_seats fs ON fs.id = bf.flight_seat_id
	              JOIN seats s ON s.id = fs.seat_id
	              JOIN flights f ON f.id = fs.flight_id
	              WHERE bf.booking_id IN (` + in + `)
	              ORDER BY bf.booking_id, bf.flight_type, s.seat_row, s.seat_column`
	srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bid uint64
		var d BookingSeatDetail
		var seat model.Seat
		if err := srows.Scan(
			&bid, &d.FlightSeatID, &d.FlightType,
			&d.FlightID, &seat.SeatRow, &seat.SeatColumn, &seat.Class,
			&d.DepartureAirport, &d.ArrivalAirport, &d.DepartureTime,
		); err != nil {
			return nil, err
		}
		d.SeatNumber = seat.Number()
		d.Class = seat.Class
		idx, ok := index[bid]
		if !ok {
			continue
		}
		details[idx].Seats = append(details[idx].Seats, d)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	// Fetch passengers for all bookings in one query.
	pQuery := `SELECT bp.booking_id, p.id, p.full_name, p.gender, p.date_of_birth, p.passport, p.created_at
	           FROM booking_passengers bp
	           JOIN passengers p ON p.id = bp.passenger_id
	           WHERE bp.booking_id IN (` + in + `)
	           ORDER BY bp.booking_id, p.id`
	prows, err := r.db.QueryContext(ctx, pQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var bid uint64
		var p model.Passenger
		var passport sql.NullString
		if err := prows.Scan(&bid, &p.ID, &p.FullName, &p.Gender, &p.DateOfBirth, &passport, &p.CreatedAt); err != nil {
			return nil, err
		}
		if passport.Valid {
			pp := passport.String
			p.Passport = &pp
		}
		idx, ok := index[bid]
		if !ok {
			continue
		}
		details[idx].Passengers = append(details[idx].Passengers, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
