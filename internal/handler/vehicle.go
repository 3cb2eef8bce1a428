package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/store"
)

type VehicleHandler struct {
	base
	store *store.VehicleStore
}

func NewVehicleHandler(s *store.VehicleStore, feed events.Broadcaster, listLimit int, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{base: newBase(feed, listLimit, logger), store: s}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.store.List(r.Context(), h.limit)
	if err != nil {
		h.logger.Error("list vehicles", "error", err)
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch vehicle", err))
		return
	}
	if vehicle == nil {
		h.fail(w, r, apperr.NotFound("Vehicle not found"))
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.VehicleCreate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	vehicle, err := h.store.Create(r.Context(), req)
	if err != nil || vehicle == nil {
		h.fail(w, r, apperr.StoreFailure("failed to create vehicle", err))
		return
	}

	h.publish(events.EntityVehicle, events.ActionCreated, vehicle.ID, map[string]any{"house": vehicle.House})
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch vehicle", err))
		return
	}
	if existing == nil {
		h.fail(w, r, apperr.NotFound("Vehicle not found"))
		return
	}

	var req model.VehicleUpdate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	vehicle, err := h.store.Update(r.Context(), req.Apply(*existing))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to update vehicle", err))
		return
	}
	if vehicle == nil {
		h.fail(w, r, apperr.NotFound("Vehicle not found"))
		return
	}

	h.publish(events.EntityVehicle, events.ActionUpdated, vehicle.ID, map[string]any{"house": vehicle.House})
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to delete vehicle", err))
		return
	}
	if !removed {
		h.fail(w, r, apperr.NotFound("Vehicle not found"))
		return
	}

	h.publish(events.EntityVehicle, events.ActionDeleted, id, nil)
	writeDeleted(w, "Vehicle")
}
