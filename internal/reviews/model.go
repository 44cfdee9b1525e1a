package reviews

import "time"

// Flashcard self-grades, spaced-repetition style.
const (
	VerdictAgain = "again"
	VerdictHard  = "hard"
	VerdictGood  = "good"
	VerdictEasy  = "easy"
)

// ValidVerdict reports whether v is one of the accepted grades.
func ValidVerdict(v string) bool {
	switch v {
	case VerdictAgain, VerdictHard, VerdictGood, VerdictEasy:
		return true
	}
	return false
}

// FlashcardPerformance is the latest grade a user gave a flashcard.
// Keyed (user, flashcard): repeat reviews overwrite.
type FlashcardPerformance struct {
	UserID      string    `json:"-"`
	FlashcardID string    `json:"flashcardId"`
	DocumentID  string    `json:"documentId"`
	Verdict     string    `json:"verdict"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// QuizPerformance is the latest answer a user gave a quiz question.
type QuizPerformance struct {
	UserID         string    `json:"-"`
	QuizQuestionID string    `json:"quizQuestionId"`
	DocumentID     string    `json:"documentId"`
	SelectedIndex  int       `json:"selectedIndex"`
	Correct        bool      `json:"correct"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// WrongAnswer is an error-book entry. Append-only: every wrong attempt
// is recorded, unlike the performance upserts.
type WrongAnswer struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	DocumentID     string    `json:"documentId"`
	QuizQuestionID string    `json:"quizQuestionId"`
	SelectedIndex  int       `json:"selectedIndex"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StudySession is one logged sitting.
type StudySession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	DocumentID      string    `json:"documentId,omitempty"`
	Kind            string    `json:"kind"`
	DurationSeconds int       `json:"durationSeconds"`
	ItemsReviewed   int       `json:"itemsReviewed"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Stats is the per-user review analytics snapshot.
type Stats struct {
	FlashcardsReviewed int     `json:"flashcardsReviewed"`
	QuizAnswers        int     `json:"quizAnswers"`
	QuizCorrect        int     `json:"quizCorrect"`
	MasteryRatio       float64 `json:"masteryRatio"`
	WrongAnswers       int     `json:"wrongAnswers"`
	Sessions           int     `json:"sessions"`
	StreakDays         int     `json:"streakDays"`
}
