package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/society/internal/model"
)

const expenditureColumns = `id, title, category, amount_cents, payment_mode, date, description,
	attachment_name, attachment_data, created_at, updated_at`

type ExpenditureStore struct {
	db *sql.DB
}

func NewExpenditureStore(db *sql.DB) *ExpenditureStore {
	return &ExpenditureStore{db: db}
}

func (s *ExpenditureStore) Create(ctx context.Context, c model.ExpenditureCreate) (*model.Expenditure, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO expenditures (title, category, amount_cents, payment_mode, date, description,
		 attachment_name, attachment_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Category, int64(c.Amount), c.PaymentMode, c.Date, nullString(c.Description),
		nullString(c.AttachmentName), nullString(c.AttachmentData), formatTime(now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert expenditure: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ExpenditureStore) List(ctx context.Context, limit int) ([]model.Expenditure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenditureColumns+` FROM expenditures ORDER BY id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query expenditures: %w", err)
	}
	defer rows.Close()

	var expenditures []model.Expenditure
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, err
		}
		expenditures = append(expenditures, *e)
	}
	return expenditures, rows.Err()
}

func (s *ExpenditureStore) GetByID(ctx context.Context, id int64) (*model.Expenditure, error) {
	e, err := scanExpenditure(s.db.QueryRowContext(ctx,
		`SELECT `+expenditureColumns+` FROM expenditures WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ExpenditureStore) Update(ctx context.Context, e model.Expenditure) (*model.Expenditure, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenditures SET title = ?, category = ?, amount_cents = ?, payment_mode = ?, date = ?,
		 description = ?, attachment_name = ?, attachment_data = ?, updated_at = ? WHERE id = ?`,
		e.Title, e.Category, int64(e.Amount), e.PaymentMode, e.Date, nullString(e.Description),
		nullString(e.AttachmentName), nullString(e.AttachmentData), formatTime(now()), e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update expenditure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, e.ID)
}

func (s *ExpenditureStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenditures WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete expenditure: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanExpenditure(sc rowScanner) (*model.Expenditure, error) {
	var (
		e                                   model.Expenditure
		amount                              int64
		createdAt                           string
		description, attachName, attachData sql.NullString
		updatedAt                           sql.NullString
	)
	err := sc.Scan(&e.ID, &e.Title, &e.Category, &amount, &e.PaymentMode, &e.Date, &description,
		&attachName, &attachData, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan expenditure: %w", err)
	}
	e.Amount = model.Money(amount)
	e.Description = stringPtr(description)
	e.AttachmentName = stringPtr(attachName)
	e.AttachmentData = stringPtr(attachData)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
