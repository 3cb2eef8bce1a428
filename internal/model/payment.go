package model

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Outstanding reports whether a payment in this status still counts
// toward the pending total.
func (s PaymentStatus) Outstanding() bool {
	return s == PaymentPending || s == PaymentPartial
}

// Payment is a maintenance bill for one house over one or more months.
// Status must agree with AmountPaid vs Amount; see package payment.
type Payment struct {
	ID           int64         `json:"id"`
	House        string        `json:"house"`
	Owner        string        `json:"owner"`
	Amount       Money         `json:"amount"`
	AmountPaid   Money         `json:"amountPaid"`
	Month        string        `json:"month"`
	MonthRange   *string       `json:"monthRange"`
	FromMonth    *string       `json:"fromMonth"`
	ToMonth      *string       `json:"toMonth"`
	FromMonthRaw *string       `json:"fromMonthRaw"`
	ToMonthRaw   *string       `json:"toMonthRaw"`
	MonthsCount  int           `json:"monthsCount"`
	LatePayment  bool          `json:"latePayment"`
	DueDate      string        `json:"dueDate"`
	PaidDate     *string       `json:"paidDate"`
	Status       PaymentStatus `json:"status"`
	Method       *string       `json:"method"`
	Remarks      *string       `json:"remarks"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time    `json:"updatedAt"`
}

// Balance is the unpaid remainder of the bill.
func (p Payment) Balance() Money {
	return p.Amount - p.AmountPaid
}

type PaymentCreate struct {
	House        string        `json:"house"`
	Owner        string        `json:"owner"`
	Amount       Money         `json:"amount"`
	AmountPaid   Money         `json:"amountPaid"`
	Month        string        `json:"month"`
	MonthRange   *string       `json:"monthRange"`
	FromMonth    *string       `json:"fromMonth"`
	ToMonth      *string       `json:"toMonth"`
	FromMonthRaw *string       `json:"fromMonthRaw"`
	ToMonthRaw   *string       `json:"toMonthRaw"`
	MonthsCount  int           `json:"monthsCount"`
	LatePayment  bool          `json:"latePayment"`
	DueDate      string        `json:"dueDate"`
	PaidDate     *string       `json:"paidDate"`
	Status       PaymentStatus `json:"status"`
	Method       *string       `json:"method"`
	Remarks      *string       `json:"remarks"`
}

// Validate checks required fields. Amount may be zero or negative;
// AmountPaid must not be negative.
func (c *PaymentCreate) Validate() error {
	c.House = strings.TrimSpace(c.House)
	c.Month = strings.TrimSpace(c.Month)
	switch {
	case c.House == "":
		return apperr.Validation("house is required")
	case c.Month == "":
		return apperr.Validation("month is required")
	case !ValidDate(c.DueDate):
		return apperr.Validation("dueDate must be YYYY-MM-DD")
	}
	if c.PaidDate != nil && *c.PaidDate != "" && !ValidDate(*c.PaidDate) {
		return apperr.Validation("paidDate must be YYYY-MM-DD")
	}
	if c.AmountPaid < 0 {
		return apperr.InvalidAmount("amountPaid must not be negative")
	}
	if c.MonthsCount < 1 {
		c.MonthsCount = 1
	}
	if c.Status == "" {
		c.Status = PaymentPending
	}
	if !c.Status.Valid() {
		return apperr.Validation("status must be one of pending, partial, paid, overdue")
	}
	return nil
}

// PaymentUpdate holds the fields a caller wants to change; nil means untouched.
type PaymentUpdate struct {
	House        *string        `json:"house"`
	Owner        *string        `json:"owner"`
	Amount       *Money         `json:"amount"`
	AmountPaid   *Money         `json:"amountPaid"`
	Month        *string        `json:"month"`
	MonthRange   *string        `json:"monthRange"`
	FromMonth    *string        `json:"fromMonth"`
	ToMonth      *string        `json:"toMonth"`
	FromMonthRaw *string        `json:"fromMonthRaw"`
	ToMonthRaw   *string        `json:"toMonthRaw"`
	MonthsCount  *int           `json:"monthsCount"`
	LatePayment  *bool          `json:"latePayment"`
	DueDate      *string        `json:"dueDate"`
	PaidDate     *string        `json:"paidDate"`
	Status       *PaymentStatus `json:"status"`
	Method       *string        `json:"method"`
	Remarks      *string        `json:"remarks"`
}

func (u PaymentUpdate) Validate() error {
	if u.House != nil && strings.TrimSpace(*u.House) == "" {
		return apperr.Validation("house must not be empty")
	}
	if u.AmountPaid != nil && *u.AmountPaid < 0 {
		return apperr.InvalidAmount("amountPaid must not be negative")
	}
	if u.DueDate != nil && !ValidDate(*u.DueDate) {
		return apperr.Validation("dueDate must be YYYY-MM-DD")
	}
	if u.PaidDate != nil && *u.PaidDate != "" && !ValidDate(*u.PaidDate) {
		return apperr.Validation("paidDate must be YYYY-MM-DD")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validation("status must be one of pending, partial, paid, overdue")
	}
	return nil
}
