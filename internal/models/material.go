package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuizQuestion is a single multiple-choice question. Options always holds
// exactly four entries and CorrectAnswer indexes into it.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuizList is stored as a jsonb column. Persisting the same value that is
// returned to the caller keeps the response and the stored record identical.
type QuizList []QuizQuestion

// Value implements driver.Valuer for the quiz_json column.
func (q QuizList) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner for the quiz_json column.
func (q *QuizList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*q = QuizList{}
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("unsupported quiz_json type %T", src)
	}
}

// Flashcard is a front/back study card generated from stored material text.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Material is the persisted artifact of one successful upload run. RawText
// is retained so flashcards can be generated later without re-extracting.
type Material struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FileURL   string    `db:"file_url" json:"file_url"`
	Title     string    `db:"title" json:"title"`
	Summary   string    `db:"summary" json:"summary"`
	Quiz      QuizList  `db:"quiz_json" json:"quiz"`
	RawText   string    `db:"raw_text" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
