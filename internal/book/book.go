package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Status values for a book. A book's status is owned by the loan lifecycle;
// book edits never change it.
const (
	StatusAvailable = "Available"
	StatusOnLoan    = "On Loan"
)

// Book represents a book entity.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput carries the fields accepted when adding a book.
type CreateInput struct {
	Title    string `json:"title" validate:"required,max=500"`
	Author   string `json:"author" validate:"required,max=200"`
	ISBN     string `json:"isbn" validate:"required,isbn"`
	Category string `json:"category" validate:"required,max=100"`
}

// UpdateInput carries the editable fields of a book. Nil fields are left
// unchanged. Status is deliberately absent: it only moves via loans.
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,max=500"`
	Author   *string `json:"author" validate:"omitempty,max=200"`
	ISBN     *string `json:"isbn" validate:"omitempty,isbn"`
	Category *string `json:"category" validate:"omitempty,max=100"`
}

// ListSource says where a listing was served from.
type ListSource string

const (
	SourceCache ListSource = "cache"
	SourceStore ListSource = "store"
)
