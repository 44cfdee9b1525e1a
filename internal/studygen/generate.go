package studygen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"study-backend/internal/artifacts"
	"study-backend/internal/llm"
	"study-backend/internal/shared/telemetry"
)

// Generator turns extracted document text into study artifacts. The
// summary and notes generators propagate provider errors; the flashcard
// and quiz generators degrade to an empty set instead, since a partial
// study kit is still useful.
type Generator struct {
	LLM            llm.Client
	FlashcardCount int
	QuizCount      int
}

func NewGenerator(client llm.Client, flashcardCount, quizCount int) *Generator {
	if flashcardCount <= 0 {
		flashcardCount = 10
	}
	if quizCount <= 0 {
		quizCount = 5
	}
	return &Generator{LLM: client, FlashcardCount: flashcardCount, QuizCount: quizCount}
}

func (g *Generator) Summary(ctx context.Context, userID, documentID, text string) (artifacts.Summary, error) {
	content, err := g.LLM.Generate(ctx, buildSummaryPrompt(text))
	if err != nil {
		return artifacts.Summary{}, fmt.Errorf("generate summary: %w", err)
	}
	return artifacts.Summary{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (g *Generator) Notes(ctx context.Context, userID, documentID, text string) (artifacts.Note, error) {
	content, err := g.LLM.Generate(ctx, buildNotesPrompt(text))
	if err != nil {
		return artifacts.Note{}, fmt.Errorf("generate notes: %w", err)
	}
	now := time.Now().UTC()
	return artifacts.Note{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Flashcards never fails: provider errors and unparseable responses
// both yield an empty slice.
func (g *Generator) Flashcards(ctx context.Context, userID, documentID, text string) []artifacts.Flashcard {
	raw, err := g.LLM.Generate(ctx, buildFlashcardsPrompt(text, g.FlashcardCount))
	if err != nil {
		telemetry.Warn("studygen.flashcards_failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
		return nil
	}
	items := parseFlashcards(raw, g.FlashcardCount)
	if len(items) == 0 {
		telemetry.Warn("studygen.flashcards_unparseable", map[string]any{
			"documentId": documentID,
		})
		return nil
	}
	now := time.Now().UTC()
	cards := make([]artifacts.Flashcard, 0, len(items))
	for i, item := range items {
		cards = append(cards, artifacts.Flashcard{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			UserID:     userID,
			Question:   item.Question,
			Answer:     item.Answer,
			Position:   i,
			CreatedAt:  now,
		})
	}
	return cards
}

// Quiz never fails; see Flashcards.
func (g *Generator) Quiz(ctx context.Context, userID, documentID, text string) []artifacts.QuizQuestion {
	raw, err := g.LLM.Generate(ctx, buildQuizPrompt(text, g.QuizCount))
	if err != nil {
		telemetry.Warn("studygen.quiz_failed", map[string]any{
			"documentId": documentID,
			"error":      err.Error(),
		})
		return nil
	}
	items := parseQuiz(raw, g.QuizCount)
	if len(items) == 0 {
		telemetry.Warn("studygen.quiz_unparseable", map[string]any{
			"documentId": documentID,
		})
		return nil
	}
	now := time.Now().UTC()
	questions := make([]artifacts.QuizQuestion, 0, len(items))
	for i, item := range items {
		questions = append(questions, artifacts.QuizQuestion{
			ID:           uuid.NewString(),
			DocumentID:   documentID,
			UserID:       userID,
			Question:     item.Question,
			Options:      item.Options,
			CorrectIndex: item.CorrectIndex,
			Explanation:  item.Explanation,
			Position:     i,
			CreatedAt:    now,
		})
	}
	return questions
}
