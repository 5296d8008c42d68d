package repository // repository defines data access for seat templates

import (
	"context"
	"database/sql"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// SeatRepo provides methods to work with an airplane's seat template.
// Seats are only ever mutated in bulk, inside the transaction of the
// airplane operation that caused the change.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulkTx inserts multiple seats in a single statement within the
// provided transaction.  Passing an empty slice has no effect and
// returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (airplane_id, seat_row, seat_column, class) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.AirplaneID, s.SeatRow, s.SeatColumn, s.Class)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByAirplane retrieves all seats of an airplane ordered by row
// then column, business rows first by construction.
func (r *SeatRepo) ListByAirplane(ctx context.Context, airplaneID uint64) ([]model.Seat, error) {
	const q = `SELECT id, airplane_id, seat_row, seat_column, class
	           FROM seats
	           WHERE airplane_id = ?
	           ORDER BY seat_row, seat_column`
	rows, err := r.db.QueryContext(ctx, q, airplaneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// ListByAirplaneTx is ListByAirplane within an existing transaction.
// Flight creation uses it so that the seat template it clones is the
// one committed at the time the flight row is inserted.
func (r *SeatRepo) ListByAirplaneTx(ctx context.Context, tx *sql.Tx, airplaneID uint64) ([]model.Seat, error) {
	const q = `SELECT id, airplane_id, seat_row, seat_column, class
	           FROM seats
	           WHERE airplane_id = ?
	           ORDER BY seat_row, seat_column`
	rows, err := tx.QueryContext(ctx, q, airplaneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeats(rows)
}

// DeleteTailTx removes the given number of highest-numbered seats of
// one cabin class.  Removing from the tail keeps lower-numbered seats
// valid, which is what capacity shrinks rely on.
func (r *SeatRepo) DeleteTailTx(ctx context.Context, tx *sql.Tx, airplaneID uint64, class string, count int) error {
	if count <= 0 {
		return nil
	}
	const q = `DELETE FROM seats
	           WHERE airplane_id = ? AND class = ?
	           ORDER BY seat_row DESC, seat_column DESC
	           LIMIT ?`
	_, err := tx.ExecContext(ctx, q, airplaneID, class, count)
	return err
}

// DeleteByAirplaneTx removes all seats of an airplane.  Used by
// airplane deletion, in the same transaction that removes the
// airplane row.
func (r *SeatRepo) DeleteByAirplaneTx(ctx context.Context, tx *sql.Tx, airplaneID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE airplane_id = ?`, airplaneID)
	return err
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AirplaneID, &s.SeatRow, &s.SeatColumn, &s.Class); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
