package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/payment"
	"github.com/dukerupert/society/internal/store"
	"github.com/dukerupert/society/internal/summary"
)

type paymentList struct {
	List    []model.Payment        `json:"list"`
	Summary summary.PaymentSummary `json:"summary"`
}

type generateResponse struct {
	Message string `json:"message"`
	payment.Result
}

type PaymentHandler struct {
	base
	store     *store.PaymentStore
	generator *payment.Generator
}

func NewPaymentHandler(s *store.PaymentStore, houses *store.HouseStore, feed events.Broadcaster, listLimit int, logger *slog.Logger) *PaymentHandler {
	b := newBase(feed, listLimit, logger)
	return &PaymentHandler{
		base:      b,
		store:     s,
		generator: payment.NewGenerator(houses, s, b.logger.With("component", "generator")),
	}
}

func (h *PaymentHandler) load(r *http.Request) []model.Payment {
	payments, err := h.store.List(r.Context(), h.limit)
	if err != nil {
		h.logger.Error("list payments", "error", err)
		return []model.Payment{}
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments := h.load(r)
	writeJSON(w, http.StatusOK, paymentList{List: payments, Summary: summary.Payments(payments)})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch payment", err))
		return
	}
	if p == nil {
		h.fail(w, r, apperr.NotFound("Payment not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create records a bill. A bill created with money already paid gets the
// status that amount implies.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentCreate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := payment.Prepare(req, h.today())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.store.Create(r.Context(), req)
	if err != nil || p == nil {
		h.fail(w, r, apperr.StoreFailure("failed to create payment", err))
		return
	}

	h.publish(events.EntityPayment, events.ActionCreated, strconv.FormatInt(p.ID, 10), map[string]any{
		"house":  p.House,
		"status": p.Status,
	})
	writeJSON(w, http.StatusCreated, p)
}

// Update merges the request into the stored bill through the lifecycle
// engine, which owns status and paidDate whenever amountPaid changes.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	existing, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to fetch payment", err))
		return
	}
	if existing == nil {
		h.fail(w, r, apperr.NotFound("Payment not found"))
		return
	}

	var req model.PaymentUpdate
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	next, err := payment.Apply(*existing, req, h.today())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.store.Update(r.Context(), next)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to update payment", err))
		return
	}
	if p == nil {
		h.fail(w, r, apperr.NotFound("Payment not found"))
		return
	}

	h.publish(events.EntityPayment, events.ActionUpdated, strconv.FormatInt(p.ID, 10), map[string]any{
		"house":  p.House,
		"status": p.Status,
	})
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to delete payment", err))
		return
	}
	if !removed {
		h.fail(w, r, apperr.NotFound("Payment not found"))
		return
	}

	h.publish(events.EntityPayment, events.ActionDeleted, strconv.FormatInt(id, 10), nil)
	writeDeleted(w, "Payment")
}

// GenerateMonthly bills every house for the current month. Per-house write
// failures are reported in failed_count and do not fail the request.
func (h *PaymentHandler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	raw := q.Get("default_amount")
	if raw == "" {
		h.fail(w, r, apperr.Validation("default_amount is required"))
		return
	}
	amount, err := model.ParseMoney(raw)
	if err != nil {
		h.fail(w, r, apperr.Validation("default_amount must be a number"))
		return
	}
	if amount < 0 {
		h.fail(w, r, apperr.InvalidAmount("default_amount must not be negative"))
		return
	}

	var opts payment.GenerateOptions
	if s := q.Get("skip_existing"); s != "" {
		opts.SkipExisting, err = strconv.ParseBool(s)
		if err != nil {
			h.fail(w, r, apperr.Validation("skip_existing must be a boolean"))
			return
		}
	}
	opts.Limit = h.limit

	res, err := h.generator.Generate(r.Context(), amount, h.now(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := res.Err(); err != nil {
		h.logger.Warn("monthly generation incomplete", "month", res.Month, "generated", res.Generated, "failed", res.Failed, "error", err)
	}

	h.publish(events.EntityPayment, events.ActionGenerated, "", map[string]any{
		"month":           res.Month,
		"generated_count": res.Generated,
	})
	writeJSON(w, http.StatusOK, generateResponse{
		Message: fmt.Sprintf("Generated %d monthly payments", res.Generated),
		Result:  res,
	})
}

var exportHeader = []string{
	"id", "house", "owner", "month", "monthRange", "amount", "amountPaid", "balance",
	"status", "dueDate", "paidDate", "latePayment", "method", "remarks",
}

// Export streams every payment as CSV.
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	payments, err := h.store.List(r.Context(), h.limit)
	if err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to export payments", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="maintenance-payments.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write(exportHeader)
	for _, p := range payments {
		cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.House,
			p.Owner,
			p.Month,
			deref(p.MonthRange),
			p.Amount.String(),
			p.AmountPaid.String(),
			p.Balance().String(),
			string(p.Status),
			p.DueDate,
			deref(p.PaidDate),
			strconv.FormatBool(p.LatePayment),
			deref(p.Method),
			deref(p.Remarks),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("write payments csv", "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
