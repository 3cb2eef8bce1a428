package model

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
)

// Categories lists the suggested expenditure categories. Any label is accepted.
var Categories = []string{
	"Security",
	"Cleaning",
	"Repairs",
	"Utilities",
	"Events",
	"Maintenance",
	"Administration",
	"Other",
}

// Expenditure is money spent by the society. AttachmentData is an opaque
// encoded blob stored and returned as-is.
type Expenditure struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Amount         Money      `json:"amount"`
	PaymentMode    string     `json:"paymentMode"`
	Date           string     `json:"date"`
	Description    *string    `json:"description"`
	AttachmentName *string    `json:"attachmentName"`
	AttachmentData *string    `json:"attachmentData"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
}

type ExpenditureCreate struct {
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Amount         Money   `json:"amount"`
	PaymentMode    string  `json:"paymentMode"`
	Date           string  `json:"date"`
	Description    *string `json:"description"`
	AttachmentName *string `json:"attachmentName"`
	AttachmentData *string `json:"attachmentData"`
}

func (c *ExpenditureCreate) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	c.Category = strings.TrimSpace(c.Category)
	c.PaymentMode = strings.TrimSpace(c.PaymentMode)
	switch {
	case c.Title == "":
		return apperr.Validation("title is required")
	case c.Category == "":
		return apperr.Validation("category is required")
	case c.PaymentMode == "":
		return apperr.Validation("paymentMode is required")
	case !ValidDate(c.Date):
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	if c.Amount < 0 {
		return apperr.InvalidAmount("amount must not be negative")
	}
	return nil
}

type ExpenditureUpdate struct {
	Title          *string `json:"title"`
	Category       *string `json:"category"`
	Amount         *Money  `json:"amount"`
	PaymentMode    *string `json:"paymentMode"`
	Date           *string `json:"date"`
	Description    *string `json:"description"`
	AttachmentName *string `json:"attachmentName"`
	AttachmentData *string `json:"attachmentData"`
}

func (u ExpenditureUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return apperr.Validation("title must not be empty")
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return apperr.Validation("category must not be empty")
	}
	if u.Amount != nil && *u.Amount < 0 {
		return apperr.InvalidAmount("amount must not be negative")
	}
	if u.Date != nil && !ValidDate(*u.Date) {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	return nil
}

func (u ExpenditureUpdate) Apply(e Expenditure) Expenditure {
	if u.Title != nil {
		e.Title = strings.TrimSpace(*u.Title)
	}
	if u.Category != nil {
		e.Category = strings.TrimSpace(*u.Category)
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.PaymentMode != nil {
		e.PaymentMode = *u.PaymentMode
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Description != nil {
		e.Description = u.Description
	}
	if u.AttachmentName != nil {
		e.AttachmentName = u.AttachmentName
	}
	if u.AttachmentData != nil {
		e.AttachmentData = u.AttachmentData
	}
	return e
}
