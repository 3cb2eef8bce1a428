package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/society/internal/model"
	"github.com/google/uuid"
)

const houseColumns = `h.id, h.house_no, h.block, h.floor, h.status, h.notes, h.owner_name,
	(SELECT COUNT(*) FROM members m WHERE m.house = h.house_no),
	(SELECT COUNT(*) FROM vehicles v WHERE v.house = h.house_no),
	h.created_at, h.updated_at`

type HouseStore struct {
	db *sql.DB
}

func NewHouseStore(db *sql.DB) *HouseStore {
	return &HouseStore{db: db}
}

func (s *HouseStore) Create(ctx context.Context, c model.HouseCreate) (*model.House, error) {
	id := uuid.NewString()
	ts := formatTime(now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO houses (id, house_no, block, floor, status, notes, owner_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.HouseNo, c.Block, c.Floor, string(c.Status), nullString(c.Notes), nullString(c.OwnerName), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert house: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns up to limit houses in insertion order.
func (s *HouseStore) List(ctx context.Context, limit int) ([]model.House, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+houseColumns+` FROM houses h ORDER BY h.rowid LIMIT ?`,
		listLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query houses: %w", err)
	}
	defer rows.Close()

	var houses []model.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, *h)
	}
	return houses, rows.Err()
}

// GetByID returns nil, nil when no house has the id.
func (s *HouseStore) GetByID(ctx context.Context, id string) (*model.House, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+houseColumns+` FROM houses h WHERE h.id = ?`, id)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Update writes every editable field of h and returns the stored record,
// or nil when the house no longer exists.
func (s *HouseStore) Update(ctx context.Context, h model.House) (*model.House, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE houses SET house_no = ?, block = ?, floor = ?, status = ?, notes = ?, owner_name = ?, updated_at = ?
		 WHERE id = ?`,
		h.HouseNo, h.Block, h.Floor, string(h.Status), nullString(h.Notes), nullString(h.OwnerName), formatTime(now()), h.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update house: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, h.ID)
}

// Delete reports whether a house was removed.
func (s *HouseStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM houses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete house: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanHouse(sc rowScanner) (*model.House, error) {
	var (
		h                    model.House
		status               string
		notes, owner         sql.NullString
		createdAt, updatedAt string
	)
	err := sc.Scan(&h.ID, &h.HouseNo, &h.Block, &h.Floor, &status, &notes, &owner,
		&h.MembersCount, &h.VehiclesCount, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan house: %w", err)
	}
	h.Status = model.HouseStatus(status)
	h.Notes = stringPtr(notes)
	h.OwnerName = stringPtr(owner)
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}
