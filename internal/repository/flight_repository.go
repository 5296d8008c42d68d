// Package repository contains data access logic for flight scheduling
// and per-flight seat inventory.  A Flight owns one flight_seats row
// for every seat of its airplane, created atomically at flight
// creation time.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// FlightRepo manages persistence for flights.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning flight and flight-seat repositories.
func (r *FlightRepo) DB() *sql.DB {
	return r.db
}

// CreateTx inserts a new flight within the provided transaction.  On
// success the generated ID and DB-default fields (status, timestamps)
// are populated on the given Flight.  The caller must commit or roll
// back the transaction.
func (r *FlightRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.Flight) error {
	const q = `INSERT INTO flights (airplane_id, departure_airport, arrival_airport, departure_time, arrival_time)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, f.AirplaneID, f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.ArrivalTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT id, airplane_id, departure_airport, arrival_airport, departure_time, arrival_time, status, created_at, updated_at
	             FROM flights WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, f.ID).Scan(
		&f.ID, &f.AirplaneID, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
}

// GetByID retrieves a flight by its ID.  It returns ErrFlightNotFound
// if there is no matching row.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	const q = `SELECT id, airplane_id, departure_airport, arrival_airport, departure_time, arrival_time, status, created_at, updated_at
	           FROM flights WHERE id = ?`
	var f model.Flight
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.AirplaneID, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// HasActiveCovering reports whether the airplane already operates an
// active (on-time or delayed) flight whose window [departure_time,
// arrival_time] contains the given departure instant.  excludeID
// removes the flight itself from the check during updates; pass 0 on
// creation.
func (r *FlightRepo) HasActiveCovering(ctx context.Context, airplaneID uint64, departure time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM flights
	           WHERE airplane_id = ? AND id <> ?
	             AND status IN ('on-time', 'delayed')
	             AND departure_time <= ? AND arrival_time >= ?
	           LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, airplaneID, excludeID, departure, departure).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountByAirplane returns how many flights (any status) reference the
// given airplane.  Airplane deletion and seat-map resizes are refused
// while this is non-zero.
func (r *FlightRepo) CountByAirplane(ctx context.Context, airplaneID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights WHERE airplane_id = ?`, airplaneID).Scan(&n)
	return n, err
}

// FlightSearchQuery defines filters and pagination for listing
// flights.  Zero-valued filters are ignored.
type FlightSearchQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartureAfter   *time.Time
	ArrivalBefore    *time.Time
	Page             int
	PageSize         int
}

// FlightWithAvailability is a flight row augmented with the real-time
// free-seat counts per cabin class, computed from its flight_seats.
type FlightWithAvailability struct {
	model.Flight
	AvailableBusiness uint32 `json:"available_business"`
	AvailableEconomy  uint32 `json:"available_economy"`
}

// Search returns one page of flights matching the query, newest
// departure first, together with the total match count.  Availability
// is derived per flight as total seats of the class minus booked
// flight seats of that class.
func (r *FlightRepo) Search(ctx context.Context, q FlightSearchQuery) ([]FlightWithAvailability, int64, error) {
	where := []string{}
	args := []any{}

	if q.DepartureAirport != "" {
		where = append(where, "f.departure_airport = ?")
		args = append(args, strings.ToUpper(strings.TrimSpace(q.DepartureAirport)))
	}
	if q.ArrivalAirport != "" {
		where = append(where, "f.arrival_airport = ?")
		args = append(args, strings.ToUpper(strings.TrimSpace(q.ArrivalAirport)))
	}
	if q.DepartureAfter != nil {
		where = append(where, "f.departure_time >= ?")
		args = append(args, *q.DepartureAfter)
	}
	if q.ArrivalBefore != nil {
		where = append(where, "f.arrival_time <= ?")
		args = append(args, *q.ArrivalBefore)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights f WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	query := `SELECT f.id, f.airplane_id, f.departure_airport, f.arrival_airport,
	                 f.departure_time, f.arrival_time, f.status, f.created_at, f.updated_at,
	                 a.total_business, a.total_economy,
	                 COALESCE(SUM(CASE WHEN fs.is_booked = 1 AND s.class = 'business' THEN 1 ELSE 0 END), 0),
	                 COALESCE(SUM(CASE WHEN fs.is_booked = 1 AND s.class = 'economy' THEN 1 ELSE 0 END), 0)
	          FROM flights f
	          JOIN airplanes a ON a.id = f.airplane_id
	          LEFT JOIN flight_seats fs ON fs.flight_id = f.id
	          LEFT JOIN seats s ON s.id = fs.seat_id
	          WHERE ` + cond + `
	          GROUP BY f.id, a.total_business, a.total_economy
	          ORDER BY f.departure_time ASC, f.id ASC
	          LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]FlightWithAvailability, 0)
	for rows.Next() {
		var row FlightWithAvailability
		var totalBusiness, totalEconomy, bookedBusiness, bookedEconomy uint32
		if err := rows.Scan(
			&row.ID, &row.AirplaneID, &row.DepartureAirport, &row.ArrivalAirport,
			&row.DepartureTime, &row.ArrivalTime, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&totalBusiness, &totalEconomy, &bookedBusiness, &bookedEconomy,
		); err != nil {
			return nil, 0, err
		}
		row.AvailableBusiness = totalBusiness - bookedBusiness
		row.AvailableEconomy = totalEconomy - bookedEconomy
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Update persists new schedule fields and status for a flight.
// Returns ErrFlightNotFound when the row does not exist.  An update
// that changes nothing is treated as success.
func (r *FlightRepo) Update(ctx context.Context, f *model.Flight) error {
	const q = `UPDATE flights
	           SET departure_airport = ?, arrival_airport = ?, departure_time = ?, arrival_time = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.ArrivalTime, f.Status, f.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM flights WHERE id = ? LIMIT 1`, f.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrFlightNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a flight and all of its flight seats as one atomic
// unit.  Flight seats referenced by non-cancelled booking flights
// block the deletion with ErrConflict so confirmed inventory is never
// silently destroyed.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM flights WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFlightNotFound
		}
		return err
	}
	var booked int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM booking_flights bf
		 JOIN flight_seats fs ON fs.id = bf.flight_seat_id
		 JOIN bookings b ON b.id = bf.booking_id
		 WHERE fs.flight_id = ? AND b.status <> 'cancelled'`, id,
	).Scan(&booked); err != nil {
		return err
	}
	if booked > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_seats WHERE flight_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
