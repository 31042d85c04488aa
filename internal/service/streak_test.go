package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unicollab/study-api/internal/models"
)

func TestNextStreak(t *testing.T) {
	today := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		prev *models.Streak
		want int
	}{
		{name: "no existing record", prev: nil, want: 1},
		{name: "no prior date", prev: &models.Streak{UserID: "u1", Count: 7}, want: 1},
		{name: "uploaded yesterday extends", prev: &models.Streak{Count: 4, LastUploadDate: "2026-08-27"}, want: 5},
		{name: "yesterday with zero count", prev: &models.Streak{Count: 0, LastUploadDate: "2026-08-27"}, want: 1},
		{name: "same day is idempotent", prev: &models.Streak{Count: 4, LastUploadDate: "2026-08-28"}, want: 4},
		{name: "same day with zero count", prev: &models.Streak{Count: 0, LastUploadDate: "2026-08-28"}, want: 1},
		{name: "two day gap resets", prev: &models.Streak{Count: 9, LastUploadDate: "2026-08-26"}, want: 1},
		{name: "future date resets", prev: &models.Streak{Count: 9, LastUploadDate: "2026-08-30"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.prev, today))
		})
	}
}

func TestNextStreakRepeatedSameDayNeverGrows(t *testing.T) {
	today := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	prev := &models.Streak{Count: 3, LastUploadDate: "2026-08-27"}

	first := NextStreak(prev, today)
	assert.Equal(t, 4, first)

	// Subsequent uploads on the same day see the already-updated record.
	sameDay := &models.Streak{Count: first, LastUploadDate: "2026-08-28"}
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, NextStreak(sameDay, today))
	}
}
