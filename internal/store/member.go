package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/society/internal/model"
	"github.com/google/uuid"
)

const memberColumns = `id, name, house, role, relationship, phone, email, status, created_at, updated_at`

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) Create(ctx context.Context, c model.MemberCreate) (*model.Member, error) {
	id := uuid.NewString()
	ts := formatTime(now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.House, c.Role, nullString(c.Relationship), c.Phone, nullString(c.Email), string(c.Status), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns up to limit members in insertion order.
func (s *MemberStore) List(ctx context.Context, limit int) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY rowid LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Count returns the number of members in the store.
func (s *MemberStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

func (s *MemberStore) GetByID(ctx context.Context, id string) (*model.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemberStore) Update(ctx context.Context, m model.Member) (*model.Member, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET name = ?, house = ?, role = ?, relationship = ?, phone = ?, email = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name, m.House, m.Role, nullString(m.Relationship), m.Phone, nullString(m.Email), string(m.Status), formatTime(now()), m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, m.ID)
}

func (s *MemberStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanMember(sc rowScanner) (*model.Member, error) {
	var (
		m                    model.Member
		status               string
		relationship, email  sql.NullString
		createdAt, updatedAt string
	)
	err := sc.Scan(&m.ID, &m.Name, &m.House, &m.Role, &relationship, &m.Phone, &email, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.Status = model.RecordStatus(status)
	m.Relationship = stringPtr(relationship)
	m.Email = stringPtr(email)
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
