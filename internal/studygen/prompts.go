package studygen

import "fmt"

// maxInputChars caps the text sent to the provider. Longer documents
// are truncated, not rejected.
const maxInputChars = 10000

const summaryPrompt = `You are a study assistant. Summarize the following material in 3-5
concise paragraphs a student can review before an exam. Write plain
prose, no headings or bullet markers.

Material:
%s`

const notesPrompt = `You are a study assistant. Turn the following material into structured
study notes using markdown: short section headings, bullet points and
bold key terms. Cover every major concept.

Material:
%s`

const flashcardsPrompt = `You are a study assistant. Create exactly %d flashcards from the
following material. Respond with a JSON array only, no prose and no
markdown fences. Each element must be an object with "question" and
"answer" string fields.

Material:
%s`

const quizPrompt = `You are a study assistant. Create exactly %d multiple-choice questions
from the following material. Respond with a JSON array only, no prose
and no markdown fences. Each element must be an object with fields
"question" (string), "options" (array of exactly 4 strings),
"correctIndex" (0-3) and "explanation" (string).

Material:
%s`

func truncate(text string) string {
	if len(text) <= maxInputChars {
		return text
	}
	return text[:maxInputChars]
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, truncate(text))
}

func buildNotesPrompt(text string) string {
	return fmt.Sprintf(notesPrompt, truncate(text))
}

func buildFlashcardsPrompt(text string, count int) string {
	return fmt.Sprintf(flashcardsPrompt, count, truncate(text))
}

func buildQuizPrompt(text string, count int) string {
	return fmt.Sprintf(quizPrompt, count, truncate(text))
}
