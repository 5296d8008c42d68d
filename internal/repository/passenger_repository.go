package repository

import (
	"context"
	"database/sql"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// PassengerRepo manages passenger rows and their booking joins.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a new PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

// CreateBulkTx inserts the given passengers and links them to the
// booking via booking_passengers, all inside the provided
// transaction.  Passengers are inserted one by one because each
// generated ID is needed for the join rows; the joins themselves go
// in a single statement.
func (r *PassengerRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, passengers []model.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	const ins = `INSERT INTO passengers (full_name, gender, date_of_birth, passport) VALUES (?, ?, ?, ?)`
	for i := range passengers {
		p := &passengers[i]
		var passport interface{}
		if p.Passport != nil {
			passport = *p.Passport
		}
		res, err := tx.ExecContext(ctx, ins, p.FullName, p.Gender, p.DateOfBirth, passport)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
	}

	query := `INSERT INTO booking_passengers (booking_id, passenger_id) VALUES `
	args := make([]interface{}, 0, len(passengers)*2)
	for i, p := range passengers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, p.ID)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByBooking returns the passengers attached to a booking, oldest
// first.
func (r *PassengerRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Passenger, error) {
	const q = `SELECT p.id, p.full_name, p.gender, p.date_of_birth, p.passport, p.created_at
	           FROM passengers p
	           JOIN booking_passengers bp ON bp.passenger_id = p.id
	           WHERE bp.booking_id = ?
	           ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]model.Passenger, 0)
	for rows.Next() {
		var p model.Passenger
		var passport sql.NullString
		if err := rows.Scan(&p.ID, &p.FullName, &p.Gender, &p.DateOfBirth, &passport, &p.CreatedAt); err != nil {
			return nil, err
		}
		if passport.Valid {
			pp := passport.String
			p.Passport = &pp
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}
