package ai

import (
	"encoding/json"
	"strings"

	"github.com/unicollab/study-api/internal/models"
)

// Outcome discriminates how much of a provider reply could be parsed.
type Outcome int

const (
	// OutcomeFull means summary and quiz both parsed and validated.
	OutcomeFull Outcome = iota
	// OutcomeSummaryOnly means the quiz marker was absent; the whole reply
	// became the summary and the quiz is empty.
	OutcomeSummaryOnly
	// OutcomeFailed means the quiz segment existed but held no usable JSON;
	// the quiz degraded to a placeholder.
	OutcomeFailed
)

// ParseResult is the structured form of a free-form provider reply. Parsing
// never returns an error: malformed structured output degrades the content,
// it does not fail the pipeline.
type ParseResult struct {
	Outcome Outcome
	Summary string
	Quiz    models.QuizList
}

// ParseStudyReply runs the two-stage grammar over a summary+quiz reply:
// stage one isolates the summary by splitting on the quiz marker, stage two
// locates the first syntactically valid JSON array in the quiz segment and
// validates each element. Surrounding prose and markdown code fences are
// tolerated.
func ParseStudyReply(reply string) ParseResult {
	summary := reply
	quizSegment := ""
	if idx := strings.Index(reply, QuizMarker); idx >= 0 {
		summary = reply[:idx]
		quizSegment = reply[idx+len(QuizMarker):]
	}
	summary = strings.TrimSpace(strings.ReplaceAll(summary, SummaryMarker, ""))

	if strings.TrimSpace(quizSegment) == "" {
		return ParseResult{Outcome: OutcomeSummaryOnly, Summary: summary, Quiz: models.QuizList{}}
	}

	raw := firstJSONArray(quizSegment)
	if raw == nil {
		return ParseResult{Outcome: OutcomeFailed, Summary: summary, Quiz: placeholderQuiz()}
	}

	var items []models.QuizQuestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return ParseResult{Outcome: OutcomeFailed, Summary: summary, Quiz: placeholderQuiz()}
	}

	quiz := make(models.QuizList, 0, len(items))
	for _, item := range items {
		if validQuestion(item) {
			quiz = append(quiz, item)
		}
	}
	if len(quiz) == 0 {
		return ParseResult{Outcome: OutcomeFailed, Summary: summary, Quiz: placeholderQuiz()}
	}
	return ParseResult{Outcome: OutcomeFull, Summary: summary, Quiz: quiz}
}

// ParseFlashcardReply extracts a flat array of front/back pairs. Cards with
// an empty side are dropped; an unusable reply yields an empty list.
func ParseFlashcardReply(reply string) []models.Flashcard {
	raw := firstJSONArray(reply)
	if raw == nil {
		return []models.Flashcard{}
	}
	var items []models.Flashcard
	if err := json.Unmarshal(raw, &items); err != nil {
		return []models.Flashcard{}
	}
	cards := make([]models.Flashcard, 0, len(items))
	for _, card := range items {
		if strings.TrimSpace(card.Front) != "" && strings.TrimSpace(card.Back) != "" {
			cards = append(cards, card)
		}
	}
	return cards
}

// firstJSONArray scans for the first substring that decodes as a complete
// JSON array. Each '[' is tried as a start; the decoder stops at the end of
// the value, so trailing prose after the array is harmless.
func firstJSONArray(s string) json.RawMessage {
	s = stripFences(s)
	for i := strings.IndexByte(s, '['); i >= 0; {
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil && len(raw) > 0 && raw[0] == '[' {
			return raw
		}
		next := strings.IndexByte(s[i+1:], '[')
		if next < 0 {
			return nil
		}
		i = i + 1 + next
	}
	return nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

// validQuestion enforces the quiz invariants on untrusted provider output:
// non-empty question, exactly four options, answer index in range.
func validQuestion(q models.QuizQuestion) bool {
	if strings.TrimSpace(q.Question) == "" {
		return false
	}
	if len(q.Options) != 4 {
		return false
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return q.CorrectAnswer >= 0 && q.CorrectAnswer <= 3
}

func placeholderQuiz() models.QuizList {
	return models.QuizList{{
		Question:      "Quiz generation failed for this document",
		Options:       []string{"Retry the upload", "Try a shorter document", "Check back later", "Contact support"},
		CorrectAnswer: 0,
	}}
}
