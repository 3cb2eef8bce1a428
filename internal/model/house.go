package model

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
)

type HouseStatus string

const (
	HouseOccupied    HouseStatus = "occupied"
	HouseVacant      HouseStatus = "vacant"
	HouseMaintenance HouseStatus = "maintenance"
)

func (s HouseStatus) Valid() bool {
	switch s {
	case HouseOccupied, HouseVacant, HouseMaintenance:
		return true
	}
	return false
}

// House is a unit in the society. MembersCount and VehiclesCount are derived
// from members and vehicles that reference HouseNo.
type House struct {
	ID            string      `json:"id"`
	HouseNo       string      `json:"houseNo"`
	Block         string      `json:"block"`
	Floor         string      `json:"floor"`
	Status        HouseStatus `json:"status"`
	Notes         *string     `json:"notes"`
	OwnerName     *string     `json:"ownerName"`
	MembersCount  int         `json:"membersCount"`
	VehiclesCount int         `json:"vehiclesCount"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type HouseCreate struct {
	HouseNo   string      `json:"houseNo"`
	Block     string      `json:"block"`
	Floor     string      `json:"floor"`
	Status    HouseStatus `json:"status"`
	Notes     *string     `json:"notes"`
	OwnerName *string     `json:"ownerName"`
}

// Validate trims required fields and fills the default status.
func (c *HouseCreate) Validate() error {
	c.HouseNo = strings.TrimSpace(c.HouseNo)
	c.Block = strings.TrimSpace(c.Block)
	c.Floor = strings.TrimSpace(c.Floor)
	if c.HouseNo == "" {
		return apperr.Validation("houseNo is required")
	}
	if c.Block == "" {
		return apperr.Validation("block is required")
	}
	if c.Floor == "" {
		return apperr.Validation("floor is required")
	}
	if c.Status == "" {
		c.Status = HouseVacant
	}
	if !c.Status.Valid() {
		return apperr.Validation("status must be one of occupied, vacant, maintenance")
	}
	return nil
}

type HouseUpdate struct {
	HouseNo   *string      `json:"houseNo"`
	Block     *string      `json:"block"`
	Floor     *string      `json:"floor"`
	Status    *HouseStatus `json:"status"`
	Notes     *string      `json:"notes"`
	OwnerName *string      `json:"ownerName"`
}

func (u HouseUpdate) Validate() error {
	if u.HouseNo != nil && strings.TrimSpace(*u.HouseNo) == "" {
		return apperr.Validation("houseNo must not be empty")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validation("status must be one of occupied, vacant, maintenance")
	}
	return nil
}

// Apply copies every set field of u onto h.
func (u HouseUpdate) Apply(h House) House {
	if u.HouseNo != nil {
		h.HouseNo = strings.TrimSpace(*u.HouseNo)
	}
	if u.Block != nil {
		h.Block = *u.Block
	}
	if u.Floor != nil {
		h.Floor = *u.Floor
	}
	if u.Status != nil {
		h.Status = *u.Status
	}
	if u.Notes != nil {
		h.Notes = u.Notes
	}
	if u.OwnerName != nil {
		h.OwnerName = u.OwnerName
	}
	return h
}
