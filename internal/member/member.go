package member

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a member is not found.
var ErrNotFound = errors.New("member not found")

// ErrHasActiveLoans is returned when deleting a member who still has an
// open loan.
var ErrHasActiveLoans = errors.New("member has active loans")

// Status values for a member.
const (
	StatusActive    = "A"
	StatusSuspended = "S"
)

// Member represents a library member. Names are stored uppercased.
type Member struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Status   string    `json:"status"`
	JoinDate time.Time `json:"join_date"`
}

// CreateInput carries the fields accepted when registering a member.
type CreateInput struct {
	Name   string `json:"name" validate:"required,max=200"`
	City   string `json:"city" validate:"required,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=A S"`
}

// UpdateInput carries the editable fields of a member. Nil fields are left
// unchanged.
type UpdateInput struct {
	Name   *string `json:"name" validate:"omitempty,max=200"`
	City   *string `json:"city" validate:"omitempty,max=100"`
	Status *string `json:"status" validate:"omitempty,oneof=A S"`
}
