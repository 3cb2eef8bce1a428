// Package payment derives maintenance payment status from the amount paid
// and generates the monthly bills for every house.
package payment

import (
	"time"

	"github.com/dukerupert/society/internal/model"
)

// LateAfterDay is the last day of the month a bill can be settled without
// being flagged as a late payment.
const LateAfterDay = 15

// StatusFor derives the status a payment must have for the given amounts.
func StatusFor(amount, amountPaid model.Money) model.PaymentStatus {
	switch {
	case amountPaid >= amount:
		return model.PaymentPaid
	case amountPaid > 0:
		return model.PaymentPartial
	default:
		return model.PaymentPending
	}
}

// Apply merges upd into a copy of existing and returns the record to persist.
//
// When upd carries AmountPaid the status is recomputed from scratch against
// the effective amount: a fully paid bill gets today's date as PaidDate, a
// partially paid one keeps whatever PaidDate was stored, and an explicit
// Status in the same update is ignored. Without AmountPaid, an explicit Status
// (overdue included) is taken as given.
func Apply(existing model.Payment, upd model.PaymentUpdate, today time.Time) (model.Payment, error) {
	if err := upd.Validate(); err != nil {
		return existing, err
	}

	p := existing
	if upd.House != nil {
		p.House = *upd.House
	}
	if upd.Owner != nil {
		p.Owner = *upd.Owner
	}
	if upd.Amount != nil {
		p.Amount = *upd.Amount
	}
	if upd.Month != nil {
		p.Month = *upd.Month
	}
	if upd.MonthRange != nil {
		p.MonthRange = upd.MonthRange
	}
	if upd.FromMonth != nil {
		p.FromMonth = upd.FromMonth
	}
	if upd.ToMonth != nil {
		p.ToMonth = upd.ToMonth
	}
	if upd.FromMonthRaw != nil {
		p.FromMonthRaw = upd.FromMonthRaw
	}
	if upd.ToMonthRaw != nil {
		p.ToMonthRaw = upd.ToMonthRaw
	}
	if upd.MonthsCount != nil {
		p.MonthsCount = *upd.MonthsCount
	}
	if upd.LatePayment != nil {
		p.LatePayment = *upd.LatePayment
	}
	if upd.DueDate != nil {
		p.DueDate = *upd.DueDate
	}
	if upd.PaidDate != nil {
		p.PaidDate = upd.PaidDate
	}
	if upd.Method != nil {
		p.Method = upd.Method
	}
	if upd.Remarks != nil {
		p.Remarks = upd.Remarks
	}

	if upd.AmountPaid == nil {
		if upd.Status != nil {
			p.Status = *upd.Status
		}
		return p, nil
	}

	p.AmountPaid = *upd.AmountPaid
	p.Status = StatusFor(p.Amount, p.AmountPaid)
	if p.Status == model.PaymentPaid {
		paid := model.FormatDate(today)
		p.PaidDate = &paid
		if upd.LatePayment == nil {
			p.LatePayment = today.Day() > LateAfterDay
		}
	}
	return p, nil
}

// Prepare normalizes a new payment before it is stored: billing period labels
// are filled from the raw months and, when an amount was already paid, the
// status is derived the same way Apply does. An explicit PaidDate is kept.
func Prepare(c model.PaymentCreate, today time.Time) (model.PaymentCreate, error) {
	if c.FromMonthRaw != nil && *c.FromMonthRaw != "" {
		to := *c.FromMonthRaw
		if c.ToMonthRaw != nil && *c.ToMonthRaw != "" {
			to = *c.ToMonthRaw
		}
		period, err := ParsePeriod(*c.FromMonthRaw, to)
		if err != nil {
			return c, err
		}
		c.FromMonth = &period.FromLabel
		c.ToMonth = &period.ToLabel
		c.MonthRange = &period.RangeLabel
		c.MonthsCount = period.MonthsCount
		if c.Month == "" {
			c.Month = period.FromLabel
		}
	}
	if err := c.Validate(); err != nil {
		return c, err
	}

	if c.AmountPaid > 0 {
		c.Status = StatusFor(c.Amount, c.AmountPaid)
		if c.Status == model.PaymentPaid && (c.PaidDate == nil || *c.PaidDate == "") {
			paid := model.FormatDate(today)
			c.PaidDate = &paid
		}
	}
	return c, nil
}
