package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginMockTx(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *sql.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return db, mock, tx
}

func TestConfirmTxWinsRace(t *testing.T) {
	db, mock, tx := beginMockTx(t)
	pid := uint64(11)

	mock.ExpectExec("UPDATE flight_seats SET is_booked = 1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewFlightSeatRepo(db).ConfirmTx(context.Background(), tx, 5, &pid)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The compare-and-swap only matches an unbooked seat, so the second
// confirm of the same seat affects zero rows; an existing row then
// means the caller lost the race rather than asked for a bad seat.
func TestConfirmTxLosesRace(t *testing.T) {
	db, mock, tx := beginMockTx(t)

	mock.ExpectExec("UPDATE flight_seats SET is_booked = 1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM flight_seats").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := NewFlightSeatRepo(db).ConfirmTx(context.Background(), tx, 5, nil)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmTxSeatMissing(t *testing.T) {
	db, mock, tx := beginMockTx(t)

	mock.ExpectExec("UPDATE flight_seats SET is_booked = 1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM flight_seats").WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := NewFlightSeatRepo(db).ConfirmTx(context.Background(), tx, 404, nil)
	assert.ErrorIs(t, err, ErrFlightSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
