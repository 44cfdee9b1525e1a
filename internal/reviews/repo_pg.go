package reviews

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) UpsertFlashcardPerformance(ctx context.Context, p FlashcardPerformance) error {
	const query = `
INSERT INTO flashcard_performance (user_id, flashcard_id, document_id, verdict, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id, flashcard_id) DO UPDATE SET
  verdict = EXCLUDED.verdict,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, p.UserID, p.FlashcardID, p.DocumentID, p.Verdict)
	return err
}

func (r *PGRepo) UpsertQuizPerformance(ctx context.Context, p QuizPerformance) error {
	const query = `
INSERT INTO quiz_performance (user_id, quiz_question_id, document_id, selected_index, correct, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id, quiz_question_id) DO UPDATE SET
  selected_index = EXCLUDED.selected_index,
  correct = EXCLUDED.correct,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, p.UserID, p.QuizQuestionID, p.DocumentID, p.SelectedIndex, p.Correct)
	return err
}

func (r *PGRepo) AppendWrongAnswer(ctx context.Context, w WrongAnswer) error {
	const query = `
INSERT INTO wrong_answers (id, user_id, document_id, quiz_question_id, selected_index, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, w.ID, w.UserID, w.DocumentID, w.QuizQuestionID, w.SelectedIndex, w.CreatedAt)
	return err
}

func (r *PGRepo) ListWrongAnswers(ctx context.Context, userID string) ([]WrongAnswer, error) {
	const query = `
SELECT id, user_id, document_id, quiz_question_id, selected_index, created_at
FROM wrong_answers
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WrongAnswer
	for rows.Next() {
		var w WrongAnswer
		if err := rows.Scan(&w.ID, &w.UserID, &w.DocumentID, &w.QuizQuestionID, &w.SelectedIndex, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteWrongAnswer(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
DELETE FROM wrong_answers WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) AppendSession(ctx context.Context, s StudySession) error {
	const query = `
INSERT INTO study_sessions (id, user_id, document_id, kind, duration_seconds, items_reviewed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.UserID, nullable(s.DocumentID), s.Kind, s.DurationSeconds, s.ItemsReviewed, s.CreatedAt)
	return err
}

func (r *PGRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	const query = `
SELECT
  (SELECT count(*) FROM flashcard_performance WHERE user_id = $1),
  (SELECT count(*) FROM quiz_performance WHERE user_id = $1),
  (SELECT count(*) FROM quiz_performance WHERE user_id = $1 AND correct),
  (SELECT count(*) FROM wrong_answers WHERE user_id = $1),
  (SELECT count(*) FROM study_sessions WHERE user_id = $1)`
	var s Stats
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&s.FlashcardsReviewed, &s.QuizAnswers, &s.QuizCorrect, &s.WrongAnswers, &s.Sessions)
	return s, err
}

func (r *PGRepo) ActivityDays(ctx context.Context, userID string) ([]time.Time, error) {
	const query = `
SELECT DISTINCT day FROM (
  SELECT date_trunc('day', created_at) AS day FROM study_sessions WHERE user_id = $1
  UNION ALL
  SELECT date_trunc('day', updated_at) FROM flashcard_performance WHERE user_id = $1
  UNION ALL
  SELECT date_trunc('day', updated_at) FROM quiz_performance WHERE user_id = $1
) activity
ORDER BY day DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) error {
	for _, table := range []string{"flashcard_performance", "quiz_performance", "wrong_answers", "study_sessions"} {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return err
		}
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
