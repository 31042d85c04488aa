package models

import "time"

// LeaderboardEntry is a scored row on the tournament leaderboard. It shares
// the leaderboards table with the streak fields, keyed by user id.
type LeaderboardEntry struct {
	UserID      string    `db:"user_id" json:"user_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Score       int       `db:"score" json:"score"`
	Department  string    `db:"department" json:"department"`
	University  string    `db:"university" json:"university"`
	CapturedAt  time.Time `db:"captured_at" json:"captured_at"`
}
