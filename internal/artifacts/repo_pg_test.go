package artifacts

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveSummaryUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	summary := Summary{
		ID:         "sum-1",
		DocumentID: "doc-1",
		UserID:     "user-1",
		Content:    "Key points",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO summaries").
		WithArgs(summary.ID, summary.DocumentID, summary.UserID, summary.Content, summary.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.SaveSummary(context.Background(), summary); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoReplaceFlashcardsRunsInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	cards := []Flashcard{
		{ID: "c1", DocumentID: "doc-1", UserID: "user-1", Question: "Q1", Answer: "A1", Position: 0, CreatedAt: now},
		{ID: "c2", DocumentID: "doc-1", UserID: "user-1", Question: "Q2", Answer: "A2", Position: 1, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM flashcards").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	for _, card := range cards {
		mock.ExpectExec("INSERT INTO flashcards").
			WithArgs(card.ID, card.DocumentID, card.UserID, card.Question, card.Answer, card.Position, card.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	if err := repo.ReplaceFlashcards(context.Background(), "doc-1", cards); err != nil {
		t.Fatalf("ReplaceFlashcards: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetQuizQuestionDecodesOptions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "document_id", "user_id", "question", "options", "correct_index", "explanation", "position", "created_at",
	}).AddRow("q1", "doc-1", "user-1", "2+2?", []byte(`["3","4","5","6"]`), 1, "basic arithmetic", 0, now)

	mock.ExpectQuery("SELECT id, document_id, user_id, question, options").
		WithArgs("q1", "user-1").
		WillReturnRows(rows)

	q, err := repo.GetQuizQuestion(context.Background(), "user-1", "q1")
	if err != nil {
		t.Fatalf("GetQuizQuestion: %v", err)
	}
	if len(q.Options) != 4 || q.Options[1] != "4" {
		t.Fatalf("unexpected options: %v", q.Options)
	}
	if q.CorrectIndex != 1 {
		t.Fatalf("unexpected correct index: %d", q.CorrectIndex)
	}
}
