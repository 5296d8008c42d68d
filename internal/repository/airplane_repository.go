package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

// AirplaneRepo provides methods to create, resize and delete
// airplanes.  Seat mutations that must be atomic with the airplane
// row (creation seeding, capacity deltas, deletion) expose Tx
// variants; handlers open the transaction via DB() and pass it to
// both this repo and SeatRepo.
type AirplaneRepo struct {
	db *sql.DB
}

// NewAirplaneRepo constructs an AirplaneRepo with the given DB handle.
func NewAirplaneRepo(db *sql.DB) *AirplaneRepo {
	return &AirplaneRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *AirplaneRepo) DB() *sql.DB {
	return r.db
}

// ExistsByName reports whether any airplane already uses the given
// display name.  Names are unique across the fleet.
func (r *AirplaneRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM airplanes WHERE name = ? LIMIT 1`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new airplane within the provided transaction and
// populates the generated ID and DB-default timestamps on the given
// model.  The caller must commit or roll back the transaction.
func (r *AirplaneRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Airplane) error {
	const q = `INSERT INTO airplanes (name, model, total_business, total_economy) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.Name, a.Model, a.TotalBusiness, a.TotalEconomy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT id, name, model, total_business, total_economy, created_at, updated_at
	             FROM airplanes WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, a.ID).Scan(
		&a.ID, &a.Name, &a.Model, &a.TotalBusiness, &a.TotalEconomy, &a.CreatedAt, &a.UpdatedAt,
	)
}

// GetByID retrieves an airplane by its ID.  It returns
// ErrAirplaneNotFound when no row is found.
func (r *AirplaneRepo) GetByID(ctx context.Context, id uint64) (*model.Airplane, error) {
	const q = `SELECT id, name, model, total_business, total_economy, created_at, updated_at
	           FROM airplanes WHERE id = ?`
	var a model.Airplane
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Name, &a.Model, &a.TotalBusiness, &a.TotalEconomy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirplaneNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns one page of airplanes ordered by id together with the
// total row count for pagination.
func (r *AirplaneRepo) List(ctx context.Context, page, pageSize int) ([]model.Airplane, int64, error) {
	if page < 1 {
		page = 1
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM airplanes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `SELECT id, name, model, total_business, total_economy, created_at, updated_at
	           FROM airplanes
	           ORDER BY id
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]model.Airplane, 0)
	for rows.Next() {
		var a model.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Model, &a.TotalBusiness, &a.TotalEconomy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// UpdateCapacityTx persists new cabin totals for an airplane within
// the provided transaction.  The seat delta rows are inserted or
// removed by SeatRepo in the same transaction.  Returns
// ErrAirplaneNotFound when the row does not exist.
func (r *AirplaneRepo) UpdateCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, totalBusiness, totalEconomy uint32) error {
	const q = `UPDATE airplanes
	           SET total_business = ?, total_economy = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, totalBusiness, totalEconomy, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Capacity may legitimately be unchanged for one class; verify
		// existence before reporting not-found.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM airplanes WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAirplaneNotFound
			}
			return err
		}
	}
	return nil
}

// DeleteTx removes the airplane row within the provided transaction.
// Seats must have been deleted first in the same transaction so that
// a failure leaves neither orphan seats nor an orphan airplane.
func (r *AirplaneRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM airplanes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirplaneNotFound
	}
	return nil
}
