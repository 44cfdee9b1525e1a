package artifacts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres. Quiz options are stored as a
// JSONB array.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) SaveSummary(ctx context.Context, s Summary) error {
	const query = `
INSERT INTO summaries (id, document_id, user_id, content, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (document_id) DO UPDATE SET
  content = EXCLUDED.content,
  created_at = EXCLUDED.created_at`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.DocumentID, s.UserID, s.Content, s.CreatedAt)
	return err
}

func (r *PGRepo) GetSummary(ctx context.Context, userID, documentID string) (Summary, error) {
	const query = `
SELECT id, document_id, user_id, content, created_at
FROM summaries
WHERE document_id = $1 AND user_id = $2
LIMIT 1`
	var s Summary
	err := r.DB.QueryRowContext(ctx, query, documentID, userID).Scan(
		&s.ID, &s.DocumentID, &s.UserID, &s.Content, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrNotFound
	}
	return s, err
}

func (r *PGRepo) SaveNote(ctx context.Context, n Note) error {
	const query = `
INSERT INTO notes (id, document_id, user_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (document_id) DO UPDATE SET
  content = EXCLUDED.content,
  updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, n.ID, n.DocumentID, n.UserID, n.Content, n.CreatedAt)
	return err
}

func (r *PGRepo) GetNote(ctx context.Context, userID, documentID string) (Note, error) {
	const query = `
SELECT id, document_id, user_id, content, created_at, updated_at
FROM notes
WHERE document_id = $1 AND user_id = $2
LIMIT 1`
	var n Note
	err := r.DB.QueryRowContext(ctx, query, documentID, userID).Scan(
		&n.ID, &n.DocumentID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (r *PGRepo) UpdateNoteContent(ctx context.Context, userID, documentID, content string) (Note, error) {
	const query = `
UPDATE notes
SET content = $1, updated_at = now()
WHERE document_id = $2 AND user_id = $3
RETURNING id, document_id, user_id, content, created_at, updated_at`
	var n Note
	err := r.DB.QueryRowContext(ctx, query, content, documentID, userID).Scan(
		&n.ID, &n.DocumentID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (r *PGRepo) ReplaceFlashcards(ctx context.Context, documentID string, cards []Flashcard) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM flashcards WHERE document_id = $1`, documentID); err != nil {
			return err
		}
		const insert = `
INSERT INTO flashcards (id, document_id, user_id, question, answer, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
		for _, card := range cards {
			if _, err := tx.ExecContext(ctx, insert,
				card.ID, card.DocumentID, card.UserID, card.Question, card.Answer, card.Position, card.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) ListFlashcards(ctx context.Context, userID, documentID string) ([]Flashcard, error) {
	const query = `
SELECT id, document_id, user_id, question, answer, position, created_at
FROM flashcards
WHERE document_id = $1 AND user_id = $2
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, documentID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Flashcard
	for rows.Next() {
		var card Flashcard
		if err := rows.Scan(&card.ID, &card.DocumentID, &card.UserID, &card.Question, &card.Answer, &card.Position, &card.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetFlashcard(ctx context.Context, userID, flashcardID string) (Flashcard, error) {
	const query = `
SELECT id, document_id, user_id, question, answer, position, created_at
FROM flashcards
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var card Flashcard
	err := r.DB.QueryRowContext(ctx, query, flashcardID, userID).Scan(
		&card.ID, &card.DocumentID, &card.UserID, &card.Question, &card.Answer, &card.Position, &card.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Flashcard{}, ErrNotFound
	}
	return card, err
}

func (r *PGRepo) ReplaceQuizQuestions(ctx context.Context, documentID string, questions []QuizQuestion) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE document_id = $1`, documentID); err != nil {
			return err
		}
		const insert = `
INSERT INTO quiz_questions (id, document_id, user_id, question, options, correct_index, explanation, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		for _, q := range questions {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insert,
				q.ID, q.DocumentID, q.UserID, q.Question, options, q.CorrectIndex, nullable(q.Explanation), q.Position, q.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) ListQuizQuestions(ctx context.Context, userID, documentID string) ([]QuizQuestion, error) {
	const query = `
SELECT id, document_id, user_id, question, options, correct_index, explanation, position, created_at
FROM quiz_questions
WHERE document_id = $1 AND user_id = $2
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, documentID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuizQuestion
	for rows.Next() {
		q, err := scanQuizQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetQuizQuestion(ctx context.Context, userID, questionID string) (QuizQuestion, error) {
	const query = `
SELECT id, document_id, user_id, question, options, correct_index, explanation, position, created_at
FROM quiz_questions
WHERE id = $1 AND user_id = $2
LIMIT 1`
	q, err := scanQuizQuestion(r.DB.QueryRowContext(ctx, query, questionID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return QuizQuestion{}, ErrNotFound
	}
	return q, err
}

func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"summaries", "notes", "flashcards", "quiz_questions"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE document_id = $1`, documentID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `
SELECT
  (SELECT count(*) FROM summaries WHERE user_id = $1) +
  (SELECT count(*) FROM notes WHERE user_id = $1) +
  (SELECT count(*) FROM flashcards WHERE user_id = $1) +
  (SELECT count(*) FROM quiz_questions WHERE user_id = $1)`
	var total int
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&total)
	return total, err
}

func (r *PGRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuizQuestion(row rowScanner) (QuizQuestion, error) {
	var q QuizQuestion
	var options []byte
	var explanation sql.NullString
	err := row.Scan(&q.ID, &q.DocumentID, &q.UserID, &q.Question, &options, &q.CorrectIndex, &explanation, &q.Position, &q.CreatedAt)
	if err != nil {
		return QuizQuestion{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return QuizQuestion{}, err
	}
	q.Explanation = explanation.String
	return q, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
