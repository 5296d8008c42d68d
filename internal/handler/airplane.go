package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ZNLong2203/airzkare-booking/internal/cache"
	"github.com/ZNLong2203/airzkare-booking/internal/layout"
	"github.com/ZNLong2203/airzkare-booking/internal/model"
	"github.com/ZNLong2203/airzkare-booking/internal/repository"
)

// cacheDomainAirplanes tags all airplane cache keys; bumping its
// version invalidates cached airplane lists.
const cacheDomainAirplanes = "airplanes"

// AirplaneHandler bundles the repositories used to manage the fleet.
// All mutating endpoints run inside a transaction so the airplane row
// and its seat map never diverge, and finish by invalidating the
// airplane cache entries.
type AirplaneHandler struct {
	AirplaneRepo *repository.AirplaneRepo
	SeatRepo     *repository.SeatRepo
	FlightRepo   *repository.FlightRepo
	Cache        *cache.Store
}

// NewAirplaneHandler constructs an AirplaneHandler; all repositories
// must be non-nil.
func NewAirplaneHandler(a *repository.AirplaneRepo, s *repository.SeatRepo, f *repository.FlightRepo, cs *cache.Store) *AirplaneHandler {
	if a == nil || s == nil || f == nil {
		panic("nil repository passed to NewAirplaneHandler")
	}
	return &AirplaneHandler{AirplaneRepo: a, SeatRepo: s, FlightRepo: f, Cache: cs}
}

type createAirplaneReq struct {
	Name          string `json:"name"`
	Model         string `json:"model"`
	TotalBusiness uint32 `json:"total_business"`
	TotalEconomy  uint32 `json:"total_economy"`
}

type resizeAirplaneReq struct {
	TotalBusiness uint32 `json:"total_business"`
	TotalEconomy  uint32 `json:"total_economy"`
}

// airplaneDetail is the cached/GET shape: the airplane row plus its
// full seat map ordered by row then column.
type airplaneDetail struct {
	model.Airplane
	Seats []model.Seat `json:"seats"`
}

// CreateAirplane handles POST /v1/airplanes.  It validates the cabin
// capacities, creates the airplane and materializes its complete seat
// map in the same transaction.  Duplicate names return 409.
func (h *AirplaneHandler) CreateAirplane(c echo.Context) error {
	var req createAirplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	labels, err := layout.Generate(int(req.TotalBusiness), int(req.TotalEconomy))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	exists, err := h.AirplaneRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "airplane name already exists"})
	}

	tx, err := h.AirplaneRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	plane := &model.Airplane{
		Name:          req.Name,
		Model:         strings.TrimSpace(req.Model),
		TotalBusiness: req.TotalBusiness,
		TotalEconomy:  req.TotalEconomy,
	}
	if err := h.AirplaneRepo.CreateTx(ctx, tx, plane); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create airplane"})
	}
	seats := make([]model.Seat, 0, len(labels))
	for _, l := range labels {
		seats = append(seats, model.Seat{
			AirplaneID: plane.ID,
			SeatRow:    l.Row,
			SeatColumn: l.Column,
			Class:      l.Class,
		})
	}
	if err := h.SeatRepo.CreateBulkTx(ctx, tx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.Cache.Bump(ctx, cacheDomainAirplanes)
	return c.JSON(http.StatusCreated, echo.Map{
		"airplane":   plane,
		"seat_count": len(seats),
	})
}

// GetAirplane handles GET /v1/airplanes/:id.  The airplane plus its
// seat map is served from the entity cache when present.
func (h *AirplaneHandler) GetAirplane(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	ctx := c.Request().Context()

	key := cache.EntityKey(cacheDomainAirplanes, id)
	var detail airplaneDetail
	if h.Cache.GetJSON(ctx, key, &detail) {
		return c.JSON(http.StatusOK, detail)
	}

	plane, err := h.AirplaneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAirplaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.ListByAirplane(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	detail = airplaneDetail{Airplane: *plane, Seats: seats}
	h.Cache.SetJSON(ctx, key, detail)
	return c.JSON(http.StatusOK, detail)
}

// ListAirplanes handles GET /v1/airplanes?page=N.  Pages are cached
// under the current airplane cache version.
func (h *AirplaneHandler) ListAirplanes(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ctx := c.Request().Context()

	type listResp struct {
		Items []model.Airplane `json:"items"`
		Page  int              `json:"page"`
		Total int64            `json:"total"`
	}

	key := cache.ListKey(cacheDomainAirplanes, h.Cache.Version(ctx, cacheDomainAirplanes), page, "")
	var resp listResp
	if h.Cache.GetJSON(ctx, key, &resp) {
		return c.JSON(http.StatusOK, resp)
	}

	items, total, err := h.AirplaneRepo.List(ctx, page, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load airplanes"})
	}
	resp = listResp{Items: items, Page: page, Total: total}
	h.Cache.SetJSON(ctx, key, resp)
	return c.JSON(http.StatusOK, resp)
}

// ResizeAirplane handles PUT /v1/airplanes/:id/capacity.  Per-class
// deltas are computed against the current capacities: grown classes
// get new rows appended after the current tail, shrunk classes lose
// their highest rows first.  Untouched seats keep their IDs.  A plane
// that already operates flights cannot shrink, because existing
// flight seat inventory references the seats that would be removed.
func (h *AirplaneHandler) ResizeAirplane(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	var req resizeAirplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	plane, err := h.AirplaneRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAirplaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	business, economy, err := layout.Resize(
		int(plane.TotalBusiness), int(plane.TotalEconomy),
		int(req.TotalBusiness), int(req.TotalEconomy),
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if business.Remove > 0 || economy.Remove > 0 {
		n, err := h.FlightRepo.CountByAirplane(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if n > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot shrink airplane with scheduled flights"})
		}
	}

	tx, err := h.AirplaneRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	added := make([]model.Seat, 0, len(business.Add)+len(economy.Add))
	for _, l := range append(business.Add, economy.Add...) {
		added = append(added, model.Seat{
			AirplaneID: id,
			SeatRow:    l.Row,
			SeatColumn: l.Column,
			Class:      l.Class,
		})
	}
	if len(added) > 0 {
		if err := h.SeatRepo.CreateBulkTx(ctx, tx, added); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add seats"})
		}
	}
	if business.Remove > 0 {
		if err := h.SeatRepo.DeleteTailTx(ctx, tx, id, layout.ClassBusiness, business.Remove); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove seats"})
		}
	}
	if economy.Remove > 0 {
		if err := h.SeatRepo.DeleteTailTx(ctx, tx, id, layout.ClassEconomy, economy.Remove); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove seats"})
		}
	}
	if err := h.AirplaneRepo.UpdateCapacityTx(ctx, tx, id, req.TotalBusiness, req.TotalEconomy); err != nil {
		if errors.Is(err, repository.ErrAirplaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update airplane"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.Cache.Delete(ctx, cache.EntityKey(cacheDomainAirplanes, id))
	h.Cache.Bump(ctx, cacheDomainAirplanes)
	return c.JSON(http.StatusOK, echo.Map{
		"airplane_id":    id,
		"total_business": req.TotalBusiness,
		"total_economy":  req.TotalEconomy,
		"added":          len(added),
		"removed":        business.Remove + economy.Remove,
	})
}

// DeleteAirplane handles DELETE /v1/airplanes/:id.  An airplane with
// scheduled flights cannot be removed; otherwise its seats and the
// airplane row disappear in one transaction.
func (h *AirplaneHandler) DeleteAirplane(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airplane id"})
	}
	ctx := c.Request().Context()

	n, err := h.FlightRepo.CountByAirplane(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "airplane has scheduled flights"})
	}

	tx, err := h.AirplaneRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.SeatRepo.DeleteByAirplaneTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete seats"})
	}
	if err := h.AirplaneRepo.DeleteTx(ctx, tx, id); err != nil {
		if errors.Is(err, repository.ErrAirplaneNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete airplane"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.Cache.Delete(ctx, cache.EntityKey(cacheDomainAirplanes, id))
	h.Cache.Bump(ctx, cacheDomainAirplanes)
	return c.NoContent(http.StatusNoContent)
}
