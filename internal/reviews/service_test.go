package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
)

func seedQuestion(t *testing.T, arts *artifacts.MemoryRepo, userID, documentID, questionID string, correctIndex int) {
	t.Helper()
	err := arts.ReplaceQuizQuestions(context.Background(), documentID, []artifacts.QuizQuestion{{
		ID:           questionID,
		DocumentID:   documentID,
		UserID:       userID,
		Question:     "What is the powerhouse of the cell?",
		Options:      []string{"Ribosome", "Mitochondria", "Nucleus", "Golgi"},
		CorrectIndex: correctIndex,
		CreatedAt:    time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
}

func seedCard(t *testing.T, arts *artifacts.MemoryRepo, userID, documentID, cardID string) {
	t.Helper()
	err := arts.ReplaceFlashcards(context.Background(), documentID, []artifacts.Flashcard{{
		ID:         cardID,
		DocumentID: documentID,
		UserID:     userID,
		Question:   "Q",
		Answer:     "A",
		CreatedAt:  time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}
}

func newReviewService(t *testing.T) (*Service, *MemoryRepo, *artifacts.MemoryRepo, *documents.MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	arts := artifacts.NewMemoryRepo()
	docs := documents.NewMemoryRepo()
	return NewService(repo, arts, docs), repo, arts, docs
}

func TestFlashcardReviewIsIdempotentUpsert(t *testing.T) {
	svc, repo, arts, _ := newReviewService(t)
	ctx := context.Background()
	seedCard(t, arts, "user-1", "doc-1", "card-1")

	for _, verdict := range []string{VerdictAgain, VerdictHard, VerdictEasy} {
		if err := svc.ReviewFlashcard(ctx, "user-1", "card-1", verdict); err != nil {
			t.Fatalf("ReviewFlashcard(%s): %v", verdict, err)
		}
	}

	stats, err := repo.Stats(ctx, "user-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.FlashcardsReviewed != 1 {
		t.Fatalf("expected one performance row after repeats, got %d", stats.FlashcardsReviewed)
	}
	if p := repo.cards["user-1|card-1"]; p.Verdict != VerdictEasy {
		t.Fatalf("expected latest verdict to win, got %q", p.Verdict)
	}
}

func TestReviewRejectsInvalidVerdictAndForeignCard(t *testing.T) {
	svc, _, arts, _ := newReviewService(t)
	ctx := context.Background()
	seedCard(t, arts, "user-1", "doc-1", "card-1")

	if err := svc.ReviewFlashcard(ctx, "user-1", "card-1", "perfect"); !errors.Is(err, ErrInvalidVerdict) {
		t.Fatalf("expected ErrInvalidVerdict, got %v", err)
	}
	if err := svc.ReviewFlashcard(ctx, "user-2", "card-1", VerdictGood); !errors.Is(err, artifacts.ErrNotFound) {
		t.Fatalf("expected not-found for foreign card, got %v", err)
	}
}

func TestWrongAnswerFeedsErrorBook(t *testing.T) {
	svc, _, arts, docs := newReviewService(t)
	ctx := context.Background()
	seedQuestion(t, arts, "user-1", "doc-1", "q-1", 1)
	docs.Create(ctx, documents.Document{ID: "doc-1", UserID: "user-1", Name: "Biology Ch. 4", Status: documents.StatusCompleted, CreatedAt: time.Now().UTC()})

	result, err := svc.AnswerQuiz(ctx, "user-1", "q-1", 2)
	if err != nil {
		t.Fatalf("AnswerQuiz: %v", err)
	}
	if result.Correct || result.CorrectIndex != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	groups, err := svc.ErrorBook(ctx, "user-1")
	if err != nil {
		t.Fatalf("ErrorBook: %v", err)
	}
	if len(groups) != 1 || groups[0].DocumentName != "Biology Ch. 4" {
		t.Fatalf("expected one group for the document, got %+v", groups)
	}
	if len(groups[0].Entries) != 1 || groups[0].Entries[0].SelectedIndex != 2 {
		t.Fatalf("unexpected entries: %+v", groups[0].Entries)
	}

	// A correct answer must not add an entry.
	if _, err := svc.AnswerQuiz(ctx, "user-1", "q-1", 1); err != nil {
		t.Fatalf("AnswerQuiz (correct): %v", err)
	}
	groups, _ = svc.ErrorBook(ctx, "user-1")
	if len(groups[0].Entries) != 1 {
		t.Fatalf("correct answer should not append, got %d entries", len(groups[0].Entries))
	}
}

func TestAnswerQuizUpsertsNotDuplicates(t *testing.T) {
	svc, repo, arts, _ := newReviewService(t)
	ctx := context.Background()
	seedQuestion(t, arts, "user-1", "doc-1", "q-1", 0)

	for i := 0; i < 3; i++ {
		if _, err := svc.AnswerQuiz(ctx, "user-1", "q-1", 0); err != nil {
			t.Fatalf("AnswerQuiz: %v", err)
		}
	}
	stats, _ := repo.Stats(ctx, "user-1")
	if stats.QuizAnswers != 1 {
		t.Fatalf("expected one quiz performance row, got %d", stats.QuizAnswers)
	}
}

func TestAnswerQuizRejectsOutOfRangeIndex(t *testing.T) {
	svc, _, arts, _ := newReviewService(t)
	seedQuestion(t, arts, "user-1", "doc-1", "q-1", 0)

	if _, err := svc.AnswerQuiz(context.Background(), "user-1", "q-1", 9); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestStatsMasteryAndStreak(t *testing.T) {
	svc, repo, arts, _ := newReviewService(t)
	ctx := context.Background()
	seedQuestion(t, arts, "user-1", "doc-1", "q-1", 0)

	if _, err := svc.AnswerQuiz(ctx, "user-1", "q-1", 0); err != nil {
		t.Fatalf("AnswerQuiz: %v", err)
	}
	if _, err := svc.LogSession(ctx, "user-1", "", "flashcards", 300, 12); err != nil {
		t.Fatalf("LogSession: %v", err)
	}

	stats, err := svc.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.MasteryRatio != 1.0 {
		t.Fatalf("expected mastery 1.0, got %f", stats.MasteryRatio)
	}
	if stats.StreakDays != 1 {
		t.Fatalf("expected 1-day streak, got %d", stats.StreakDays)
	}
	_ = repo
}

func TestStreakComputation(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return now.Truncate(24 * time.Hour).Add(time.Duration(-offset) * 24 * time.Hour)
	}

	cases := []struct {
		name string
		days []time.Time
		want int
	}{
		{"empty", nil, 0},
		{"today only", []time.Time{day(0)}, 1},
		{"three consecutive", []time.Time{day(0), day(1), day(2)}, 3},
		{"ended yesterday", []time.Time{day(1), day(2)}, 2},
		{"broken", []time.Time{day(0), day(2), day(3)}, 1},
		{"stale", []time.Time{day(5), day(6)}, 0},
	}
	for _, tc := range cases {
		if got := streak(tc.days, now); got != tc.want {
			t.Fatalf("%s: streak = %d, want %d", tc.name, got, tc.want)
		}
	}
}
