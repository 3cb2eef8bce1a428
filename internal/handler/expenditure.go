package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/store"
	"github.com/dukerupert/society/internal/summary"
)

type expenditureList struct {
	List    []model.Expenditure        `json:"list"`
	Summary summary.ExpenditureSummary `json:"summary"`
}

type ExpenditureHandler struct {
	base
	store    *store.ExpenditureStore
	payments *store.PaymentStore
}

func NewExpenditureHandler(s *store.ExpenditureStore, payments *store.PaymentStore, feed events.Broadcaster, listLimit int, logger *slog.Logger) *ExpenditureHandler {
	return &ExpenditureHandler{base: newBase(feed, listLimit, logger), store: s, payments: payments}
}

// List returns expenditures with a summary that needs the payments too; both
// are read concurrently. If either read fails the response is empty.
func (h *ExpenditureHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		expenditures []model.Expenditure
		payments     []model.Payment
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		expenditures, err = h.store.List(ctx, h.limit)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = h.payments.List(ctx, h.limit)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("list expenditures", "error", err)
		expenditures, payments = nil, nil
	}

	if expenditures == nil {
		expenditures = []model.Expenditure{}
	}
	writeJSON(w, http.StatusOK, expenditureList{
		List:    expenditures,
		Summary: summary.Expenditures(expenditures, payments),
	})
}

func (h *ExpenditureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch expenditure", err))
		return
	}
	if e == nil {
		h.fail(w, r, apperr.NotFound("Expenditure not found"))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *ExpenditureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ExpenditureCreate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.store.Create(r.Context(), req)
	if err != nil || e == nil {
		h.fail(w, r, apperr.StoreFailure("failed to create expenditure", err))
		return
	}

	h.publish(events.EntityExpenditure, events.ActionCreated, strconv.FormatInt(e.ID, 10), map[string]any{"category": e.Category})
	writeJSON(w, http.StatusCreated, e)
}

func (h *ExpenditureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	existing, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch expenditure", err))
		return
	}
	if existing == nil {
		h.fail(w, r, apperr.NotFound("Expenditure not found"))
		return
	}

	var req model.ExpenditureUpdate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.store.Update(r.Context(), req.Apply(*existing))
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to update expenditure", err))
		return
	}
	if e == nil {
		h.fail(w, r, apperr.NotFound("Expenditure not found"))
		return
	}

	h.publish(events.EntityExpenditure, events.ActionUpdated, strconv.FormatInt(e.ID, 10), map[string]any{"category": e.Category})
	writeJSON(w, http.StatusOK, e)
}

func (h *ExpenditureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to delete expenditure", err))
		return
	}
	if !removed {
		h.fail(w, r, apperr.NotFound("Expenditure not found"))
		return
	}

	h.publish(events.EntityExpenditure, events.ActionDeleted, strconv.FormatInt(id, 10), nil)
	writeDeleted(w, "Expenditure")
}
