package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/ZNLong2203/airzkare-booking/internal/model"
)

func TestUpdateStatusTxAdvances(t *testing.T) {
	db, mock, tx := beginMockTx(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingStatusConfirmed, uint64(5), model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewBookingRepo(db).UpdateStatusTx(context.Background(), tx, 5, model.BookingStatusPending, model.BookingStatusConfirmed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The previous status is part of the WHERE clause, so a booking that
// already advanced matches zero rows; an existing row then signals an
// illegal transition, never a second successful one.
func TestUpdateStatusTxIllegalTransition(t *testing.T) {
	db, mock, tx := beginMockTx(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingStatusConfirmed, uint64(5), model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := NewBookingRepo(db).UpdateStatusTx(context.Background(), tx, 5, model.BookingStatusPending, model.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTxMissingBooking(t *testing.T) {
	db, mock, tx := beginMockTx(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.BookingStatusCancelled, uint64(404), model.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := NewBookingRepo(db).UpdateStatusTx(context.Background(), tx, 404, model.BookingStatusPending, model.BookingStatusCancelled)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
