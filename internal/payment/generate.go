package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
	"github.com/dukerupert/society/internal/model"
)

// HouseLister reads the houses to bill.
type HouseLister interface {
	List(ctx context.Context, limit int) ([]model.House, error)
}

// PaymentWriter persists generated bills.
type PaymentWriter interface {
	Create(ctx context.Context, c model.PaymentCreate) (*model.Payment, error)
	ExistsForHouseMonth(ctx context.Context, house, month string) (bool, error)
}

// GenerateOptions tunes a generation run.
type GenerateOptions struct {
	// SkipExisting leaves out houses that already have a bill for the month.
	// Off by default: running twice in a month bills every house twice.
	SkipExisting bool
	// Limit caps how many houses are read. Zero means the store default.
	Limit int
}

// Result reports what a generation run did.
type Result struct {
	Month     string      `json:"month"`
	DueDate   string      `json:"dueDate"`
	Amount    model.Money `json:"amount"`
	Generated int         `json:"generated_count"`
	Skipped   int         `json:"skipped_count"`
	Failed    int         `json:"failed_count"`
}

type Generator struct {
	houses   HouseLister
	payments PaymentWriter
	logger   *slog.Logger
}

func NewGenerator(houses HouseLister, payments PaymentWriter, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{houses: houses, payments: payments, logger: logger}
}

// Generate creates one pending bill for the month containing now for every
// house that has a house number. A failed write for one house is logged and
// counted; the run carries on with the next house. Only a failure to read the
// houses is returned as an error.
func (g *Generator) Generate(ctx context.Context, amount model.Money, now time.Time, opts GenerateOptions) (Result, error) {
	res := Result{
		Month:   MonthLabel(now),
		DueDate: DueDate(now),
		Amount:  amount,
	}

	houses, err := g.houses.List(ctx, opts.Limit)
	if err != nil {
		return res, apperr.StoreFailure("failed to read houses", err)
	}

	for _, h := range houses {
		houseNo := strings.TrimSpace(h.HouseNo)
		if houseNo == "" {
			continue
		}

		if opts.SkipExisting {
			exists, err := g.payments.ExistsForHouseMonth(ctx, houseNo, res.Month)
			if err != nil {
				g.logger.Error("check existing payment", "house", houseNo, "month", res.Month, "error", err)
				res.Failed++
				continue
			}
			if exists {
				res.Skipped++
				continue
			}
		}

		owner := ""
		if h.OwnerName != nil {
			owner = *h.OwnerName
		}
		_, err := g.payments.Create(ctx, model.PaymentCreate{
			House:       houseNo,
			Owner:       owner,
			Amount:      amount,
			Month:       res.Month,
			MonthsCount: 1,
			DueDate:     res.DueDate,
			Status:      model.PaymentPending,
		})
		if err != nil {
			g.logger.Error("create monthly payment", "house", houseNo, "month", res.Month, "error", err)
			res.Failed++
			continue
		}
		res.Generated++
	}

	return res, nil
}

// Err reports a partial batch as an error, or nil when every write succeeded.
func (r Result) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return apperr.PartialBatchFailure("some monthly payments could not be created", nil)
}
