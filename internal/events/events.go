// Package events emits domain events to a message bus. Delivery is strictly
// best-effort: consumers are observational and a bus outage never affects
// the outcome of the operation that produced the event.
package events

import (
	"time"
)

// Event types announced by the loan lifecycle.
const (
	TypeBookCheckedOut = "BOOK_CHECKED_OUT"
	TypeBookReturned   = "BOOK_RETURNED"
	TypeFinePaid       = "FINE_PAID"
)

// Event is a domain event envelope.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// BookCheckedOutPayload announces a new loan.
type BookCheckedOutPayload struct {
	LoanID   string    `json:"loan_id"`
	BookID   string    `json:"book_id"`
	MemberID string    `json:"member_id"`
	DueDate  time.Time `json:"due_date"`
}

// BookReturnedPayload announces a return, carrying the finalized fine.
type BookReturnedPayload struct {
	LoanID     string  `json:"loan_id"`
	BookID     string  `json:"book_id"`
	FineAmount float64 `json:"fine_amount"`
}

// FinePaidPayload announces a fine settlement.
type FinePaidPayload struct {
	LoanID string  `json:"loan_id"`
	Amount float64 `json:"amount"`
}

func BookCheckedOut(loanID, bookID, memberID string, dueDate time.Time) Event {
	return Event{
		Type:       TypeBookCheckedOut,
		OccurredAt: time.Now().UTC(),
		Payload: BookCheckedOutPayload{
			LoanID:   loanID,
			BookID:   bookID,
			MemberID: memberID,
			DueDate:  dueDate,
		},
	}
}

func BookReturned(loanID, bookID string, fineAmount float64) Event {
	return Event{
		Type:       TypeBookReturned,
		OccurredAt: time.Now().UTC(),
		Payload: BookReturnedPayload{
			LoanID:     loanID,
			BookID:     bookID,
			FineAmount: fineAmount,
		},
	}
}

func FinePaid(loanID string, amount float64) Event {
	return Event{
		Type:       TypeFinePaid,
		OccurredAt: time.Now().UTC(),
		Payload: FinePaidPayload{
			LoanID: loanID,
			Amount: amount,
		},
	}
}
