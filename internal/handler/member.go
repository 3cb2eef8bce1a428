package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/store"
)

type MemberHandler struct {
	base
	store *store.MemberStore
}

func NewMemberHandler(s *store.MemberStore, feed events.Broadcaster, listLimit int, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{base: newBase(feed, listLimit, logger), store: s}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List(r.Context(), h.limit)
	if err != nil {
		h.logger.Error("list members", "error", err)
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch member", err))
		return
	}
	if member == nil {
		h.fail(w, r, apperr.NotFound("Member not found"))
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MemberCreate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	member, err := h.store.Create(r.Context(), req)
	if err != nil || member == nil {
		h.fail(w, r, apperr.StoreFailure("failed to create member", err))
		return
	}

	h.publish(events.EntityMember, events.ActionCreated, member.ID, map[string]any{"house": member.House})
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch member", err))
		return
	}
	if existing == nil {
		h.fail(w, r, apperr.NotFound("Member not found"))
		return
	}

	var req model.MemberUpdate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	member, err := h.store.Update(r.Context(), req.Apply(*existing))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to update member", err))
		return
	}
	if member == nil {
		h.fail(w, r, apperr.NotFound("Member not found"))
		return
	}

	h.publish(events.EntityMember, events.ActionUpdated, member.ID, map[string]any{"house": member.House})
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to delete member", err))
		return
	}
	if !removed {
		h.fail(w, r, apperr.NotFound("Member not found"))
		return
	}

	h.publish(events.EntityMember, events.ActionDeleted, id, nil)
	writeDeleted(w, "Member")
}
