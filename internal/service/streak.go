package service

import (
	"time"

	"github.com/unicollab/study-api/internal/models"
)

// DateLayout formats calendar dates for streak comparison and storage.
const DateLayout = "2006-01-02"

// NextStreak computes the streak value after an upload on today's date.
// Consecutive-day uploads extend the streak, a same-day re-upload keeps it,
// and anything else (no record, no prior date, gap of more than one day)
// resets to 1. Pure function; the caller owns the upsert.
func NextStreak(prev *models.Streak, today time.Time) int {
	if prev == nil || prev.LastUploadDate == "" {
		return 1
	}

	day := today.UTC().Format(DateLayout)
	yesterday := today.UTC().AddDate(0, 0, -1).Format(DateLayout)

	switch prev.LastUploadDate {
	case yesterday:
		count := prev.Count
		if count < 0 {
			count = 0
		}
		return count + 1
	case day:
		if prev.Count < 1 {
			return 1
		}
		return prev.Count
	default:
		return 1
	}
}
