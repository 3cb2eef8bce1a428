package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/society/internal/model"
	"github.com/google/uuid"
)

const vehicleColumns = `id, number, type, brand_model, color, owner_name, house, registration_date, status, created_at, updated_at`

type VehicleStore struct {
	db *sql.DB
}

func NewVehicleStore(db *sql.DB) *VehicleStore {
	return &VehicleStore{db: db}
}

func (s *VehicleStore) Create(ctx context.Context, c model.VehicleCreate) (*model.Vehicle, error) {
	id := uuid.NewString()
	ts := formatTime(now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vehicles (`+vehicleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Number, c.Type, nullString(c.BrandModel), nullString(c.Color), nullString(c.OwnerName),
		c.House, nullString(c.RegistrationDate), string(c.Status), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns up to limit vehicles in insertion order.
func (s *VehicleStore) List(ctx context.Context, limit int) ([]model.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY rowid LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (s *VehicleStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

func (s *VehicleStore) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	v, err := scanVehicle(s.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleStore) Update(ctx context.Context, v model.Vehicle) (*model.Vehicle, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vehicles SET number = ?, type = ?, brand_model = ?, color = ?, owner_name = ?, house = ?,
		 registration_date = ?, status = ?, updated_at = ? WHERE id = ?`,
		v.Number, v.Type, nullString(v.BrandModel), nullString(v.Color), nullString(v.OwnerName), v.House,
		nullString(v.RegistrationDate), string(v.Status), formatTime(now()), v.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, v.ID)
}

func (s *VehicleStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanVehicle(sc rowScanner) (*model.Vehicle, error) {
	var (
		v                                    model.Vehicle
		status                               string
		brandModel, color, owner, registered sql.NullString
		createdAt, updatedAt                 string
	)
	err := sc.Scan(&v.ID, &v.Number, &v.Type, &brandModel, &color, &owner, &v.House, &registered, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	v.Status = model.RecordStatus(status)
	v.BrandModel = stringPtr(brandModel)
	v.Color = stringPtr(color)
	v.OwnerName = stringPtr(owner)
	v.RegistrationDate = stringPtr(registered)
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
