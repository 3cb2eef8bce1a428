package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/society/internal/model"
)

const paymentColumns = `id, house, owner, amount_cents, amount_paid_cents, month, month_range, from_month, to_month,
	from_month_raw, to_month_raw, months_count, late_payment, due_date, paid_date, status, method, remarks,
	created_at, updated_at`

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(ctx context.Context, c model.PaymentCreate) (*model.Payment, error) {
	months := c.MonthsCount
	if months < 1 {
		months = 1
	}
	status := c.Status
	if status == "" {
		status = model.PaymentPending
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO maintenance_payments (house, owner, amount_cents, amount_paid_cents, month, month_range,
		 from_month, to_month, from_month_raw, to_month_raw, months_count, late_payment, due_date, paid_date,
		 status, method, remarks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.House, c.Owner, int64(c.Amount), int64(c.AmountPaid), c.Month, nullString(c.MonthRange),
		nullString(c.FromMonth), nullString(c.ToMonth), nullString(c.FromMonthRaw), nullString(c.ToMonthRaw),
		months, c.LatePayment, c.DueDate, nullString(c.PaidDate),
		string(status), nullString(c.Method), nullString(c.Remarks), formatTime(now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *PaymentStore) List(ctx context.Context, limit int) ([]model.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM maintenance_payments ORDER BY id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *PaymentStore) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM maintenance_payments WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ExistsForHouseMonth reports whether house already has a bill for month.
func (s *PaymentStore) ExistsForHouseMonth(ctx context.Context, house, month string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM maintenance_payments WHERE house = ? AND month = ?)`, house, month,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check payment exists: %w", err)
	}
	return exists, nil
}

// Update stores the full payment as computed by the lifecycle rules.
func (s *PaymentStore) Update(ctx context.Context, p model.Payment) (*model.Payment, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE maintenance_payments SET house = ?, owner = ?, amount_cents = ?, amount_paid_cents = ?, month = ?,
		 month_range = ?, from_month = ?, to_month = ?, from_month_raw = ?, to_month_raw = ?, months_count = ?,
		 late_payment = ?, due_date = ?, paid_date = ?, status = ?, method = ?, remarks = ?, updated_at = ?
		 WHERE id = ?`,
		p.House, p.Owner, int64(p.Amount), int64(p.AmountPaid), p.Month,
		nullString(p.MonthRange), nullString(p.FromMonth), nullString(p.ToMonth), nullString(p.FromMonthRaw),
		nullString(p.ToMonthRaw), p.MonthsCount, p.LatePayment, p.DueDate, nullString(p.PaidDate),
		string(p.Status), nullString(p.Method), nullString(p.Remarks), formatTime(now()), p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, p.ID)
}

func (s *PaymentStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM maintenance_payments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanPayment(sc rowScanner) (*model.Payment, error) {
	var (
		p                              model.Payment
		amount, amountPaid             int64
		status, createdAt              string
		monthRange, fromMonth, toMonth sql.NullString
		fromRaw, toRaw, paidDate       sql.NullString
		method, remarks, updatedAt     sql.NullString
	)
	err := sc.Scan(&p.ID, &p.House, &p.Owner, &amount, &amountPaid, &p.Month, &monthRange, &fromMonth, &toMonth,
		&fromRaw, &toRaw, &p.MonthsCount, &p.LatePayment, &p.DueDate, &paidDate, &status, &method, &remarks,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.Amount = model.Money(amount)
	p.AmountPaid = model.Money(amountPaid)
	p.Status = model.PaymentStatus(status)
	p.MonthRange = stringPtr(monthRange)
	p.FromMonth = stringPtr(fromMonth)
	p.ToMonth = stringPtr(toMonth)
	p.FromMonthRaw = stringPtr(fromRaw)
	p.ToMonthRaw = stringPtr(toRaw)
	p.PaidDate = stringPtr(paidDate)
	p.Method = stringPtr(method)
	p.Remarks = stringPtr(remarks)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
