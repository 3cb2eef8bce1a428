package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/store"
	"github.com/dukerupert/society/internal/summary"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type pagination struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type houseList struct {
	List       []model.House        `json:"list"`
	Summary    summary.HouseSummary `json:"summary"`
	Pagination pagination           `json:"pagination"`
}

type HouseHandler struct {
	base
	store *store.HouseStore
}

func NewHouseHandler(s *store.HouseStore, feed events.Broadcaster, listLimit int, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{base: newBase(feed, listLimit, logger), store: s}
}

// List pages through houses. The summary always covers every house read,
// not just the current page.
func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1, 1, 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize, 1, maxPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	houses, err := h.store.List(r.Context(), h.limit)
	if err != nil {
		h.logger.Error("list houses", "error", err)
		houses = nil
	}

	resp := houseList{
		List:       []model.House{},
		Summary:    summary.Houses(houses),
		Pagination: pagination{Total: len(houses), Page: page, PageSize: pageSize},
	}
	if start := (page - 1) * pageSize; start < len(houses) {
		end := min(start+pageSize, len(houses))
		resp.List = houses[start:end]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	house, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch house", err))
		return
	}
	if house == nil {
		h.fail(w, r, apperr.NotFound("House not found"))
		return
	}
	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.HouseCreate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	house, err := h.store.Create(r.Context(), req)
	if err != nil || house == nil {
		h.fail(w, r, apperr.StoreFailure("failed to create house", err))
		return
	}

	h.publish(events.EntityHouse, events.ActionCreated, house.ID, nil)
	writeJSON(w, http.StatusCreated, house)
}

func (h *HouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch house", err))
		return
	}
	if existing == nil {
		h.fail(w, r, apperr.NotFound("House not found"))
		return
	}

	var req model.HouseUpdate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	house, err := h.store.Update(r.Context(), req.Apply(*existing))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to update house", err))
		return
	}
	if house == nil {
		h.fail(w, r, apperr.NotFound("House not found"))
		return
	}

	h.publish(events.EntityHouse, events.ActionUpdated, house.ID, nil)
	writeJSON(w, http.StatusOK, house)
}

func (h *HouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to delete house", err))
		return
	}
	if !removed {
		h.fail(w, r, apperr.NotFound("House not found"))
		return
	}

	h.publish(events.EntityHouse, events.ActionDeleted, id, nil)
	writeDeleted(w, "House")
}

// queryInt reads an optional integer query parameter bounded below by lo and,
// when hi > 0, above by hi.
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	if n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			return 0, apperr.Validation("%s must be between %d and %d", name, lo, hi)
		}
		return 0, apperr.Validation("%s must be at least %d", name, lo)
	}
	return n, nil
}
