package loan

import (
	"math"
	"time"
)

// DefaultDailyRate is the fine charged per overdue day.
const DefaultDailyRate = 0.25

// FineEngine computes overdue fines. It is pure: no I/O, no clock of its
// own.
type FineEngine struct {
	DailyRate float64
}

func NewFineEngine(dailyRate float64) FineEngine {
	if dailyRate <= 0 {
		dailyRate = DefaultDailyRate
	}
	return FineEngine{DailyRate: dailyRate}
}

// Accrued returns the fine a still-open loan has accumulated as of now.
// Days late round up: any fraction of a day counts as a whole overdue day.
// A zero due date yields no fine; loans always have a due date by
// construction, so this is a validation backstop only.
func (e FineEngine) Accrued(now, dueDate time.Time) float64 {
	if dueDate.IsZero() || !now.After(dueDate) {
		return 0
	}
	days := math.Ceil(now.Sub(dueDate).Hours() / 24)
	return days * e.DailyRate
}

// Finalize returns the fine fixed at the moment of return.
func (e FineEngine) Finalize(returnDate, dueDate time.Time) float64 {
	return e.Accrued(returnDate, dueDate)
}
