package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ZNLong2203/airzkare-booking/internal/cache"
	"github.com/ZNLong2203/airzkare-booking/internal/model"
	"github.com/ZNLong2203/airzkare-booking/internal/queue"
	"github.com/ZNLong2203/airzkare-booking/internal/repository"
	queue_publisher "github.com/ZNLong2203/airzkare-booking/internal/service"
)

// cacheDomainPassengers tags the passenger-bearing booking history
// cache keys; every mutation that touches passengers or bookings
// bumps its version.
const cacheDomainPassengers = "passengers"

// BookingHandler drives the booking lifecycle: start a pending
// booking, attach passengers, confirm seats, cancel, and list
// history.  All methods assume JWT authentication has populated the
// context.  Status transitions and seat assignment run inside one
// transaction so a booking can never hold a seat it did not win.
type BookingHandler struct {
	BookingRepo    *repository.BookingRepo
	PassengerRepo  *repository.PassengerRepo
	FlightSeatRepo *repository.FlightSeatRepo
	FlightRepo     *repository.FlightRepo
	Cache          *cache.Store
}

// NewBookingHandler constructs a BookingHandler; all repositories
// must be non-nil.
func NewBookingHandler(b *repository.BookingRepo, p *repository.PassengerRepo, fs *repository.FlightSeatRepo, f *repository.FlightRepo, cs *cache.Store) *BookingHandler {
	if b == nil || p == nil || fs == nil || f == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{BookingRepo: b, PassengerRepo: p, FlightSeatRepo: fs, FlightRepo: f, Cache: cs}
}

type startBookingReq struct {
	Type string `json:"type"` // oneWay | roundTrip
}

type attachPassengersReq struct {
	Passengers []passengerReq `json:"passengers"`
}

type passengerReq struct {
	FullName    string  `json:"full_name"`
	Gender      string  `json:"gender"`
	DateOfBirth string  `json:"date_of_birth"` // YYYY-MM-DD
	Passport    *string `json:"passport"`
}

type confirmBookingReq struct {
	Seats []confirmSeatReq `json:"seats"`
}

type confirmSeatReq struct {
	FlightSeatID uint64  `json:"flight_seat_id"`
	FlightType   string  `json:"flight_type"` // outbound | inbound
	PassengerID  *uint64 `json:"passenger_id"`
}

// StartBooking handles POST /v1/bookings.  A user keeps at most one
// pending booking: any previous pending booking (and its passengers)
// is deleted in the same transaction that creates the new one.
func (h *BookingHandler) StartBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req startBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Type != model.BookingTypeOneWay && req.Type != model.BookingTypeRoundTrip {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be oneWay or roundTrip"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.BookingRepo.DeletePendingByUserTx(ctx, tx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear pending booking"})
	}
	booking := &model.Booking{
		UserID:    userID,
		Reference: uuid.NewString(),
		Type:      req.Type,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	h.Cache.Bump(ctx, cacheDomainPassengers)
	return c.JSON(http.StatusCreated, booking)
}

// loadOwnedBooking fetches a booking and enforces ownership.  The
// booking is reported as not found to non-owners so booking IDs leak
// nothing.
func (h *BookingHandler) loadOwnedBooking(ctx context.Context, id, userID uint64) (*model.Booking, int, string) {
	booking, err := h.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, http.StatusNotFound, "booking not found"
		}
		return nil, http.StatusInternalServerError, "database error"
	}
	if booking.UserID != userID {
		return nil, http.StatusNotFound, "booking not found"
	}
	return booking, 0, ""
}

// AttachPassengers handles POST /v1/bookings/:id/passengers.  It adds
// travellers to a pending booking; confirmed or cancelled bookings
// reject the call with 409.
func (h *BookingHandler) AttachPassengers(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req attachPassengersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Passengers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passengers is required"})
	}
	passengers := make([]model.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		if p.FullName == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
		}
		dob, err := time.Parse("2006-01-02", p.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		passengers = append(passengers, model.Passenger{
			FullName:    p.FullName,
			Gender:      p.Gender,
			DateOfBirth: dob,
			Passport:    p.Passport,
		})
	}

	ctx := c.Request().Context()
	booking, code, msg := h.loadOwnedBooking(ctx, bookingID, userID)
	if booking == nil {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if booking.Status != model.BookingStatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.PassengerRepo.CreateBulkTx(ctx, tx, bookingID, passengers); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create passengers"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	h.Cache.Bump(ctx, cacheDomainPassengers)
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": bookingID,
		"passengers": passengers,
	})
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm.  The request
// carries the chosen flight seats tagged outbound/inbound.  Each seat
// is taken with a compare-and-swap: when any seat was already booked,
// the whole transaction rolls back and the loser gets 409 with the
// contested seat.  On success the booking moves pending -> confirmed,
// booking_flights rows are written, and seat/booking events are
// published after commit.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req confirmBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}

	ctx := c.Request().Context()
	booking, code, msg := h.loadOwnedBooking(ctx, bookingID, userID)
	if booking == nil {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if booking.Status != model.BookingStatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
	}

	seen := make(map[uint64]struct{}, len(req.Seats))
	hasInbound := false
	for _, s := range req.Seats {
		if s.FlightSeatID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_seat_id is required"})
		}
		if s.FlightType != model.FlightTypeOutbound && s.FlightType != model.FlightTypeInbound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_type must be outbound or inbound"})
		}
		if s.FlightType == model.FlightTypeInbound {
			hasInbound = true
		}
		if _, dup := seen[s.FlightSeatID]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate flight_seat_id"})
		}
		seen[s.FlightSeatID] = struct{}{}
	}
	if booking.Type == model.BookingTypeOneWay && hasInbound {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "oneWay booking cannot include inbound seats"})
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	bookingFlights := make([]model.BookingFlight, 0, len(req.Seats))
	seatEvents := make([]queue.SeatStatusEvent, 0, len(req.Seats))
	flightIDs := make(map[uint64]struct{})
	seatNumbers := make([]string, 0, len(req.Seats))
	now := time.Now().UTC().Format(time.RFC3339)

	for _, s := range req.Seats {
		if err := h.FlightSeatRepo.ConfirmTx(ctx, tx, s.FlightSeatID, s.PassengerID); err != nil {
			switch {
			case errors.Is(err, repository.ErrFlightSeatNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("flight seat %d not found", s.FlightSeatID)})
			case errors.Is(err, repository.ErrSeatTaken):
				return c.JSON(http.StatusConflict, echo.Map{
					"error":          "seat already booked",
					"flight_seat_id": s.FlightSeatID,
				})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to book seat"})
			}
		}
		detail, err := h.FlightSeatRepo.GetDetailTx(ctx, tx, s.FlightSeatID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat"})
		}
		seatNo := model.Seat{SeatRow: detail.SeatRow, SeatColumn: detail.SeatColumn}.Number()
		bookingFlights = append(bookingFlights, model.BookingFlight{
			BookingID:    bookingID,
			FlightSeatID: s.FlightSeatID,
			FlightType:   s.FlightType,
		})
		seatEvents = append(seatEvents, queue.SeatStatusEvent{
			FlightID:     detail.FlightID,
			FlightSeatID: detail.ID,
			SeatNumber:   seatNo,
			Status:       "booked",
			HeldBy:       s.PassengerID,
			ChangedAt:    now,
		})
		flightIDs[detail.FlightID] = struct{}{}
		seatNumbers = append(seatNumbers, seatNo)
	}

	if err := h.BookingRepo.CreateFlightsBulkTx(ctx, tx, bookingFlights); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record booked seats"})
	}
	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, bookingID, model.BookingStatusPending, model.BookingStatusConfirmed); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
	}
	passengers, err := h.PassengerRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load passengers"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.invalidateFlights(ctx, flightIDs)
	h.Cache.Bump(ctx, cacheDomainPassengers)

	ids := make([]uint64, 0, len(flightIDs))
	for id := range flightIDs {
		ids = append(ids, id)
	}
	go func() {
		bg := context.Background()
		for _, ev := range seatEvents {
			if err := queue_publisher.PublishSeatStatus(bg, ev); err != nil {
				log.Printf("booking: publish seat status failed: %v", err)
			}
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:      bookingID,
			Reference:      booking.Reference,
			UserID:         userID,
			BookingType:    booking.Type,
			FlightIDs:      ids,
			SeatNumbers:    seatNumbers,
			PassengerCount: len(passengers),
			ConfirmedAt:    now,
		}
		if err := queue_publisher.PublishBookingConfirmed(bg, ev); err != nil {
			log.Printf("booking: publish confirmation failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": bookingID,
		"reference":  booking.Reference,
		"status":     model.BookingStatusConfirmed,
		"seats":      seatNumbers,
	})
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  A pending or
// confirmed booking moves to cancelled; seats held by a confirmed
// booking are released in the same transaction so they are bookable
// again the moment the cancellation commits.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, code, msg := h.loadOwnedBooking(ctx, bookingID, userID)
	if booking == nil {
		return c.JSON(code, echo.Map{"error": msg})
	}
	if booking.Status == model.BookingStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, bookingID, booking.Status, model.BookingStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	released, err := h.FlightSeatRepo.ReleaseByBookingTx(ctx, tx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	flightIDs := make(map[uint64]struct{}, len(released))
	for _, d := range released {
		flightIDs[d.FlightID] = struct{}{}
	}
	h.invalidateFlights(ctx, flightIDs)
	h.Cache.Bump(ctx, cacheDomainPassengers)

	now := time.Now().UTC().Format(time.RFC3339)
	go func() {
		bg := context.Background()
		for _, d := range released {
			ev := queue.SeatStatusEvent{
				FlightID:     d.FlightID,
				FlightSeatID: d.ID,
				SeatNumber:   model.Seat{SeatRow: d.SeatRow, SeatColumn: d.SeatColumn}.Number(),
				Status:       "available",
				ChangedAt:    now,
			}
			if err := queue_publisher.PublishSeatStatus(bg, ev); err != nil {
				log.Printf("booking: publish seat status failed: %v", err)
			}
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": bookingID,
		"status":     model.BookingStatusCancelled,
		"released":   len(released),
	})
}

// GetHistory handles GET /v1/bookings/history: every booking of the
// current user with nested seats and passengers, newest first.  The
// result is cached per user under the passengers domain version.
func (h *BookingHandler) GetHistory(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	key := cache.ListKey(cacheDomainPassengers, h.Cache.Version(ctx, cacheDomainPassengers), 0, fmt.Sprintf("user=%d", userID))
	var cached []repository.BookingDetail
	if h.Cache.GetJSON(ctx, key, &cached) {
		return c.JSON(http.StatusOK, echo.Map{"items": cached})
	}
	details, err := h.BookingRepo.HistoryByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	h.Cache.SetJSON(ctx, key, details)
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// invalidateFlights drops the entity cache of every touched flight
// and bumps the flight list version so availability counts refresh.
func (h *BookingHandler) invalidateFlights(ctx context.Context, flightIDs map[uint64]struct{}) {
	if len(flightIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(flightIDs))
	for id := range flightIDs {
		keys = append(keys, cache.EntityKey(cacheDomainFlights, id))
	}
	h.Cache.Delete(ctx, keys...)
	h.Cache.Bump(ctx, cacheDomainFlights)
}
