package artifacts

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("artifact not found")

// Repo persists generated study artifacts. Summaries and notes replace
// any prior row for the document; flashcards and quiz questions replace
// the whole set.
type Repo interface {
	SaveSummary(ctx context.Context, s Summary) error
	GetSummary(ctx context.Context, userID, documentID string) (Summary, error)

	SaveNote(ctx context.Context, n Note) error
	GetNote(ctx context.Context, userID, documentID string) (Note, error)
	UpdateNoteContent(ctx context.Context, userID, documentID, content string) (Note, error)

	ReplaceFlashcards(ctx context.Context, documentID string, cards []Flashcard) error
	ListFlashcards(ctx context.Context, userID, documentID string) ([]Flashcard, error)
	GetFlashcard(ctx context.Context, userID, flashcardID string) (Flashcard, error)

	ReplaceQuizQuestions(ctx context.Context, documentID string, questions []QuizQuestion) error
	ListQuizQuestions(ctx context.Context, userID, documentID string) ([]QuizQuestion, error)
	GetQuizQuestion(ctx context.Context, userID, questionID string) (QuizQuestion, error)

	DeleteByDocument(ctx context.Context, documentID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
