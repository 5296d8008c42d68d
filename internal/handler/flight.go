package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ZNLong2203/airzkare-booking/internal/cache"
	"github.com/ZNLong2203/airzkare-booking/internal/model"
	"github.com/ZNLong2203/airzkare-booking/internal/repository"
)

// cacheDomainFlights tags all flight cache keys.
const cacheDomainFlights = "flights"

// FlightHandler bundles the repositories used to schedule flights and
// materialize their seat inventory.
type FlightHandler struct {
	FlightRepo     *repository.FlightRepo
	FlightSeatRepo *repository.FlightSeatRepo
	AirplaneRepo   *repository.AirplaneRepo
	SeatRepo       *repository.SeatRepo
	Cache          *cache.Store
}

// NewFlightHandler constructs a FlightHandler; all repositories must
// be non-nil.
func NewFlightHandler(f *repository.FlightRepo, fs *repository.FlightSeatRepo, a *repository.AirplaneRepo, s *repository.SeatRepo, cs *cache.Store) *FlightHandler {
	if f == nil || fs == nil || a == nil || s == nil {
		panic("nil repository passed to NewFlightHandler")
	}
	return &FlightHandler{FlightRepo: f, FlightSeatRepo: fs, AirplaneRepo: a, SeatRepo: s, Cache: cs}
}

type createFlightReq struct {
	AirplaneID       uint64    `json:"airplane_id"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
}

type updateFlightReq struct {
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Status           string    `json:"status"`
}

func normalizeAirport(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validSchedule(departureAirport, arrivalAirport string, departure, arrival time.Time) error {
	if departureAirport == "" || arrivalAirport == "" {
		return errors.New("departure and arrival airports are required")
	}
	if departureAirport == arrivalAirport {
		return errors.New("departure and arrival airports must differ")
	}
	if departure.IsZero() || arrival.IsZero() {
		return errors.New("departure and arrival times are required")
	}
	if !arrival.After(departure) {
		return errors.New("arrival time must be after departure time")
	}
	return nil
}

// CreateFlight handles POST /v1/flights.  The flight and one
// flight_seats row per airplane seat are created atomically, so the
// availability matrix exists the instant the flight is visible.  An
// airplane already flying an active flight that covers the new
// departure instant yields 409.
func (h *FlightHandler) CreateFlight(c echo.Context) error {
	var req createFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.DepartureAirport = normalizeAirport(req.DepartureAirport)
	req.ArrivalAirport = normalizeAirport(req.ArrivalAirport)
	if req.AirplaneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane_id is required"})
	}
	if err := validSchedule(req.DepartureAirport, req.ArrivalAirport, req.DepartureTime, req.ArrivalTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if _, err := h.AirplaneRepo.GetByID(ctx, req.AirplaneID); err != nil {
		if errors.Is(err, repository.ErrAirplaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	busy, err := h.FlightRepo.HasActiveCovering(ctx, req.AirplaneID, req.DepartureTime, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if busy {
		return c.JSON(http.StatusConflict, echo.Map{"error": "airplane is scheduled on another flight at that time"})
	}

	tx, err := h.FlightRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	flight := &model.Flight{
		AirplaneID:       req.AirplaneID,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureTime:    req.DepartureTime.UTC(),
		ArrivalTime:      req.ArrivalTime.UTC(),
	}
	if err := h.FlightRepo.CreateTx(ctx, tx, flight); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight"})
	}
	seats, err := h.SeatRepo.ListByAirplaneTx(ctx, tx, req.AirplaneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat template"})
	}
	seatIDs := make([]uint64, 0, len(seats))
	for _, s := range seats {
		seatIDs = append(seatIDs, s.ID)
	}
	if err := h.FlightSeatRepo.CreateBulkTx(ctx, tx, flight.ID, seatIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.Cache.Bump(ctx, cacheDomainFlights)
	return c.JSON(http.StatusCreated, echo.Map{
		"flight":     flight,
		"seat_count": len(seatIDs),
	})
}

// flightDetail is the GET shape: the flight row plus the per-seat
// availability matrix.
type flightDetail struct {
	model.Flight
	Seats []repository.FlightSeatDetail `json:"seats"`
}

// GetFlight handles GET /v1/flights/:id, served through the entity
// cache.  The seat matrix reflects availability as of the last cache
// fill; booking mutations delete the key so staleness is bounded to
// the TTL only between reads.
func (h *FlightHandler) GetFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()

	key := cache.EntityKey(cacheDomainFlights, id)
	var detail flightDetail
	if h.Cache.GetJSON(ctx, key, &detail) {
		return c.JSON(http.StatusOK, detail)
	}

	flight, err := h.FlightRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.FlightSeatRepo.ListByFlight(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load flight seats"})
	}
	detail = flightDetail{Flight: *flight, Seats: seats}
	h.Cache.SetJSON(ctx, key, detail)
	return c.JSON(http.StatusOK, detail)
}

// ListFlights handles GET /v1/flights with optional filters:
// departure_airport, arrival_airport, departure_after and
// arrival_before (RFC 3339).  Pages of 10 are cached under the
// current flight cache version with the canonical filter string
// hashed into the key.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	q := repository.FlightSearchQuery{
		DepartureAirport: normalizeAirport(c.QueryParam("departure_airport")),
		ArrivalAirport:   normalizeAirport(c.QueryParam("arrival_airport")),
		PageSize:         10,
	}
	if raw := c.QueryParam("departure_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid departure_after"})
		}
		q.DepartureAfter = &t
	}
	if raw := c.QueryParam("arrival_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival_before"})
		}
		q.ArrivalBefore = &t
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if q.Page < 1 {
		q.Page = 1
	}

	ctx := c.Request().Context()
	type listResp struct {
		Items []repository.FlightWithAvailability `json:"items"`
		Page  int                                 `json:"page"`
		Total int64                               `json:"total"`
	}

	filter := flightFilterString(q)
	key := cache.ListKey(cacheDomainFlights, h.Cache.Version(ctx, cacheDomainFlights), q.Page, filter)
	var resp listResp
	if h.Cache.GetJSON(ctx, key, &resp) {
		return c.JSON(http.StatusOK, resp)
	}

	items, total, err := h.FlightRepo.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search flights"})
	}
	resp = listResp{Items: items, Page: q.Page, Total: total}
	h.Cache.SetJSON(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// flightFilterString canonicalizes the search filters so equal
// queries always hash to the same cache key.
func flightFilterString(q repository.FlightSearchQuery) string {
	after, before := "", ""
	if q.DepartureAfter != nil {
		after = q.DepartureAfter.UTC().Format(time.RFC3339)
	}
	if q.ArrivalBefore != nil {
		before = q.ArrivalBefore.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("dep=%s&arr=%s&after=%s&before=%s", q.DepartureAirport, q.ArrivalAirport, after, before)
}

// UpdateFlight handles PUT /v1/flights/:id.  Schedule changes re-run
// the airplane overlap check against the other flights; status must
// be one of on-time, delayed or cancelled.
func (h *FlightHandler) UpdateFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	var req updateFlightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.DepartureAirport = normalizeAirport(req.DepartureAirport)
	req.ArrivalAirport = normalizeAirport(req.ArrivalAirport)
	if err := validSchedule(req.DepartureAirport, req.ArrivalAirport, req.DepartureTime, req.ArrivalTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	switch req.Status {
	case model.FlightStatusOnTime, model.FlightStatusDelayed, model.FlightStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	flight, err := h.FlightRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.Status != model.FlightStatusCancelled {
		busy, err := h.FlightRepo.HasActiveCovering(ctx, flight.AirplaneID, req.DepartureTime, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if busy {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane is scheduled on another flight at that time"})
		}
	}

	flight.DepartureAirport = req.DepartureAirport
	flight.ArrivalAirport = req.ArrivalAirport
	flight.DepartureTime = req.DepartureTime.UTC()
	flight.ArrivalTime = req.ArrivalTime.UTC()
	flight.Status = req.Status
	if err := h.FlightRepo.Update(ctx, flight); err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update flight"})
	}

	h.Cache.Delete(ctx, cache.EntityKey(cacheDomainFlights, id))
	h.Cache.Bump(ctx, cacheDomainFlights)
	return c.JSON(http.StatusOK, flight)
}

// DeleteFlight handles DELETE /v1/flights/:id.  Flights holding
// confirmed seats cannot be removed.
func (h *FlightHandler) DeleteFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()

	if err := h.FlightRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrFlightNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight has booked seats"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete flight"})
		}
	}

	h.Cache.Delete(ctx, cache.EntityKey(cacheDomainFlights, id))
	h.Cache.Bump(ctx, cacheDomainFlights)
	return c.NoContent(http.StatusNoContent)
}
