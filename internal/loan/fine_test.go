package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFineEngine_Accrued(t *testing.T) {
	engine := NewFineEngine(0.25)
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"before due date", due.Add(-48 * time.Hour), 0},
		{"exactly at due date", due, 0},
		{"one second late counts as a full day", due.Add(time.Second), 0.25},
		{"exactly one day late", due.Add(24 * time.Hour), 0.25},
		{"one day and an hour late rounds up", due.Add(25 * time.Hour), 0.50},
		{"six whole days late", due.Add(6 * 24 * time.Hour), 1.50},
		{"zero due date yields no fine", time.Now(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := due
			if tt.name == "zero due date yields no fine" {
				d = time.Time{}
			}
			assert.InDelta(t, tt.want, engine.Accrued(tt.now, d), 1e-9)
		})
	}
}

func TestFineEngine_Finalize(t *testing.T) {
	engine := NewFineEngine(0.25)
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("on-time return has no fine", func(t *testing.T) {
		assert.Zero(t, engine.Finalize(due.Add(-time.Hour), due))
	})

	t.Run("six days late at quarter per day", func(t *testing.T) {
		returned := due.Add(6 * 24 * time.Hour)
		assert.InDelta(t, 1.50, engine.Finalize(returned, due), 1e-9)
	})

	t.Run("never negative", func(t *testing.T) {
		assert.GreaterOrEqual(t, engine.Finalize(due.Add(-240*time.Hour), due), 0.0)
	})
}

func TestNewFineEngine_DefaultsRate(t *testing.T) {
	assert.Equal(t, DefaultDailyRate, NewFineEngine(0).DailyRate)
	assert.Equal(t, DefaultDailyRate, NewFineEngine(-1).DailyRate)
	assert.Equal(t, 0.5, NewFineEngine(0.5).DailyRate)
}
