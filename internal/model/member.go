package model

import (
	"strings"
	"time"

	"github.com/dukerupert/society/internal/apperr"
)

type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
)

func (s RecordStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Member is a resident. House holds a house number that is not checked
// against existing houses.
type Member struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	House        string       `json:"house"`
	Role         string       `json:"role"`
	Relationship *string      `json:"relationship"`
	Phone        string       `json:"phone"`
	Email        *string      `json:"email"`
	Status       RecordStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type MemberCreate struct {
	Name         string       `json:"name"`
	House        string       `json:"house"`
	Role         string       `json:"role"`
	Relationship *string      `json:"relationship"`
	Phone        string       `json:"phone"`
	Email        *string      `json:"email"`
	Status       RecordStatus `json:"status"`
}

func (c *MemberCreate) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.House = strings.TrimSpace(c.House)
	c.Role = strings.TrimSpace(c.Role)
	c.Phone = strings.TrimSpace(c.Phone)
	switch {
	case c.Name == "":
		return apperr.Validation("name is required")
	case c.House == "":
		return apperr.Validation("house is required")
	case c.Role == "":
		return apperr.Validation("role is required")
	case c.Phone == "":
		return apperr.Validation("phone is required")
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !c.Status.Valid() {
		return apperr.Validation("status must be active or inactive")
	}
	return nil
}

type MemberUpdate struct {
	Name         *string       `json:"name"`
	House        *string       `json:"house"`
	Role         *string       `json:"role"`
	Relationship *string       `json:"relationship"`
	Phone        *string       `json:"phone"`
	Email        *string       `json:"email"`
	Status       *RecordStatus `json:"status"`
}

func (u MemberUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return apperr.Validation("name must not be empty")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validation("status must be active or inactive")
	}
	return nil
}

func (u MemberUpdate) Apply(m Member) Member {
	if u.Name != nil {
		m.Name = strings.TrimSpace(*u.Name)
	}
	if u.House != nil {
		m.House = strings.TrimSpace(*u.House)
	}
	if u.Role != nil {
		m.Role = *u.Role
	}
	if u.Relationship != nil {
		m.Relationship = u.Relationship
	}
	if u.Phone != nil {
		m.Phone = *u.Phone
	}
	if u.Email != nil {
		m.Email = u.Email
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
	return m
}
