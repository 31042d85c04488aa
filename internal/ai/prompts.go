package ai

import "fmt"

// Section markers the provider is instructed to emit. The parser splits on
// QuizMarker, so the prompt and parser must agree on these exact tokens.
const (
	SummaryMarker = "---SUMMARY---"
	QuizMarker    = "---QUIZ---"
)

// Character budgets for the text prefix embedded in each prompt, keeping
// requests inside the provider's context limits.
const (
	studyPromptBudget     = 7000
	flashcardPromptBudget = 6000
)

// StudyPrompt asks for a bullet-point summary and exactly five
// multiple-choice questions, in the delimited format the parser expects.
func StudyPrompt(text string) string {
	return fmt.Sprintf(`Act as a university lecturer. Analyze these lecture notes: %q
1. Provide a Summary in bullet points.
2. Provide exactly 5 Multiple Choice Questions.
OUTPUT: %s [text] %s [{"question": "q", "options": ["a","b","c","d"], "correctAnswer": 0}]`,
		truncate(text, studyPromptBudget), SummaryMarker, QuizMarker)
}

// FlashcardPrompt asks for a flat JSON array of front/back pairs.
func FlashcardPrompt(text string) string {
	return fmt.Sprintf(`Act as a study tutor. Create 8 educational flashcards from this text: %q
Format ONLY as a JSON array: [{"front": "Question/Term", "back": "Answer/Definition"}]`,
		truncate(text, flashcardPromptBudget))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
