package model

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
)

type Vehicle struct {
	ID               string       `json:"id"`
	Number           string       `json:"number"`
	Type             string       `json:"type"`
	BrandModel       *string      `json:"brandModel"`
	Color            *string      `json:"color"`
	OwnerName        *string      `json:"ownerName"`
	House            string       `json:"house"`
	RegistrationDate *string      `json:"registrationDate"`
	Status           RecordStatus `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

type VehicleCreate struct {
	Number           string       `json:"number"`
	Type             string       `json:"type"`
	BrandModel       *string      `json:"brandModel"`
	Color            *string      `json:"color"`
	OwnerName        *string      `json:"ownerName"`
	House            string       `json:"house"`
	RegistrationDate *string      `json:"registrationDate"`
	Status           RecordStatus `json:"status"`
}

func (c *VehicleCreate) Validate() error {
	c.Number = strings.TrimSpace(c.Number)
	c.Type = strings.TrimSpace(c.Type)
	c.House = strings.TrimSpace(c.House)
	switch {
	case c.Number == "":
		return apperr.Validation("number is required")
	case c.Type == "":
		return apperr.Validation("type is required")
	case c.House == "":
		return apperr.Validation("house is required")
	}
	if c.RegistrationDate != nil && *c.RegistrationDate != "" && !ValidDate(*c.RegistrationDate) {
		return apperr.Validation("registrationDate must be YYYY-MM-DD")
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !c.Status.Valid() {
		return apperr.Validation("status must be active or inactive")
	}
	return nil
}

type VehicleUpdate struct {
	Number           *string       `json:"number"`
	Type             *string       `json:"type"`
	BrandModel       *string       `json:"brandModel"`
	Color            *string       `json:"color"`
	OwnerName        *string       `json:"ownerName"`
	House            *string       `json:"house"`
	RegistrationDate *string       `json:"registrationDate"`
	Status           *RecordStatus `json:"status"`
}

func (u VehicleUpdate) Validate() error {
	if u.Number != nil && strings.TrimSpace(*u.Number) == "" {
		return apperr.Validation("number must not be empty")
	}
	if u.RegistrationDate != nil && *u.RegistrationDate != "" && !ValidDate(*u.RegistrationDate) {
		return apperr.Validation("registrationDate must be YYYY-MM-DD")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validation("status must be active or inactive")
	}
	return nil
}

func (u VehicleUpdate) Apply(v Vehicle) Vehicle {
	if u.Number != nil {
		v.Number = strings.TrimSpace(*u.Number)
	}
	if u.Type != nil {
		v.Type = *u.Type
	}
	if u.BrandModel != nil {
		v.BrandModel = u.BrandModel
	}
	if u.Color != nil {
		v.Color = u.Color
	}
	if u.OwnerName != nil {
		v.OwnerName = u.OwnerName
	}
	if u.House != nil {
		v.House = strings.TrimSpace(*u.House)
	}
	if u.RegistrationDate != nil {
		v.RegistrationDate = u.RegistrationDate
	}
	if u.Status != nil {
		v.Status = *u.Status
	}
	return v
}
