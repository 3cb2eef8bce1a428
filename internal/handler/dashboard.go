package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/model"
	"github.com/dukerupert/society/internal/payment"
	"github.com/dukerupert/society/internal/store"
	"github.com/dukerupert/society/internal/summary"
)

type DashboardHandler struct {
	base
	houses       *store.HouseStore
	members      *store.MemberStore
	vehicles     *store.VehicleStore
	payments     *store.PaymentStore
	expenditures *store.ExpenditureStore
}

func NewDashboardHandler(houses *store.HouseStore, members *store.MemberStore, vehicles *store.VehicleStore,
	payments *store.PaymentStore, expenditures *store.ExpenditureStore, listLimit int, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		base:         newBase(nil, listLimit, logger),
		houses:       houses,
		members:      members,
		vehicles:     vehicles,
		payments:     payments,
		expenditures: expenditures,
	}
}

// Get loads every collection concurrently and returns the combined overview.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	var (
		houses       []model.House
		payments     []model.Payment
		expenditures []model.Expenditure
		members      int
		vehicles     int
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		houses, err = h.houses.List(ctx, h.limit)
		return err
	})
	g.Go(func() (err error) {
		payments, err = h.payments.List(ctx, h.limit)
		return err
	})
	g.Go(func() (err error) {
		expenditures, err = h.expenditures.List(ctx, h.limit)
		return err
	})
	g.Go(func() (err error) {
		members, err = h.members.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		vehicles, err = h.vehicles.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, apperr.StoreFailure("failed to load dashboard", err))
		return
	}

	now := h.today()
	writeJSON(w, http.StatusOK, summary.BuildDashboard(houses, payments, expenditures, members, vehicles, payment.MonthLabel(now), now))
}
