package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"study-backend/internal/artifacts"
	"study-backend/internal/documents"
)

var (
	ErrInvalidVerdict = errors.New("invalid verdict")
	ErrInvalidIndex   = errors.New("selected index out of range")
)

// Service records review activity. Artifact lookups double as ownership
// checks: a user can only review cards and questions they can see.
type Service struct {
	Repo      Repo
	Artifacts artifacts.Repo
	Docs      documents.Repo

	now func() time.Time
}

func NewService(repo Repo, artifactsRepo artifacts.Repo, docsRepo documents.Repo) *Service {
	return &Service{Repo: repo, Artifacts: artifactsRepo, Docs: docsRepo, now: time.Now}
}

// ReviewFlashcard upserts the user's grade for a card. Repeats
// overwrite; they never accumulate rows.
func (s *Service) ReviewFlashcard(ctx context.Context, userID, flashcardID, verdict string) error {
	if !ValidVerdict(verdict) {
		return fmt.Errorf("%w: %s", ErrInvalidVerdict, verdict)
	}
	card, err := s.Artifacts.GetFlashcard(ctx, userID, flashcardID)
	if err != nil {
		return err
	}
	return s.Repo.UpsertFlashcardPerformance(ctx, FlashcardPerformance{
		UserID:      userID,
		FlashcardID: card.ID,
		DocumentID:  card.DocumentID,
		Verdict:     verdict,
	})
}

// QuizAnswerResult tells the client how the attempt scored.
type QuizAnswerResult struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correctIndex"`
	Explanation  string `json:"explanation,omitempty"`
}

// AnswerQuiz upserts the user's latest answer and, when wrong, appends
// an error-book entry.
func (s *Service) AnswerQuiz(ctx context.Context, userID, questionID string, selectedIndex int) (QuizAnswerResult, error) {
	question, err := s.Artifacts.GetQuizQuestion(ctx, userID, questionID)
	if err != nil {
		return QuizAnswerResult{}, err
	}
	if selectedIndex < 0 || selectedIndex >= len(question.Options) {
		return QuizAnswerResult{}, ErrInvalidIndex
	}

	correct := selectedIndex == question.CorrectIndex
	err = s.Repo.UpsertQuizPerformance(ctx, QuizPerformance{
		UserID:         userID,
		QuizQuestionID: question.ID,
		DocumentID:     question.DocumentID,
		SelectedIndex:  selectedIndex,
		Correct:        correct,
	})
	if err != nil {
		return QuizAnswerResult{}, err
	}

	if !correct {
		err = s.Repo.AppendWrongAnswer(ctx, WrongAnswer{
			ID:             uuid.NewString(),
			UserID:         userID,
			DocumentID:     question.DocumentID,
			QuizQuestionID: question.ID,
			SelectedIndex:  selectedIndex,
			CreatedAt:      s.now().UTC(),
		})
		if err != nil {
			return QuizAnswerResult{}, err
		}
	}
	return QuizAnswerResult{
		Correct:      correct,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
	}, nil
}

// ErrorBookEntry is one wrong answer with its question context.
type ErrorBookEntry struct {
	ID            string    `json:"id"`
	QuestionID    string    `json:"questionId"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectIndex  int       `json:"correctIndex"`
	SelectedIndex int       `json:"selectedIndex"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ErrorBookGroup holds a document's wrong answers.
type ErrorBookGroup struct {
	DocumentID   string           `json:"documentId"`
	DocumentName string           `json:"documentName"`
	Entries      []ErrorBookEntry `json:"entries"`
}

// ErrorBook returns the user's wrong answers grouped by source
// document, newest group first.
func (s *Service) ErrorBook(ctx context.Context, userID string) ([]ErrorBookGroup, error) {
	wrong, err := s.Repo.ListWrongAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups := []ErrorBookGroup{}
	index := map[string]int{}
	for _, w := range wrong {
		entry := ErrorBookEntry{
			ID:            w.ID,
			QuestionID:    w.QuizQuestionID,
			SelectedIndex: w.SelectedIndex,
			CreatedAt:     w.CreatedAt,
		}
		// The question may have been regenerated since; keep the entry
		// with whatever context is still available.
		if question, err := s.Artifacts.GetQuizQuestion(ctx, userID, w.QuizQuestionID); err == nil {
			entry.Question = question.Question
			entry.Options = question.Options
			entry.CorrectIndex = question.CorrectIndex
		}

		at, ok := index[w.DocumentID]
		if !ok {
			name := ""
			if doc, err := s.Docs.GetByID(ctx, userID, w.DocumentID); err == nil {
				name = doc.Name
			}
			groups = append(groups, ErrorBookGroup{DocumentID: w.DocumentID, DocumentName: name})
			at = len(groups) - 1
			index[w.DocumentID] = at
		}
		groups[at].Entries = append(groups[at].Entries, entry)
	}
	return groups, nil
}

func (s *Service) DeleteErrorBookEntry(ctx context.Context, userID, id string) error {
	return s.Repo.DeleteWrongAnswer(ctx, userID, id)
}

// LogSession appends a study session.
func (s *Service) LogSession(ctx context.Context, userID, documentID, kind string, durationSeconds, itemsReviewed int) (StudySession, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return StudySession{}, fmt.Errorf("session kind is required")
	}
	if durationSeconds < 0 || itemsReviewed < 0 {
		return StudySession{}, fmt.Errorf("session counters must be non-negative")
	}
	if documentID != "" {
		if _, err := s.Docs.GetByID(ctx, userID, documentID); err != nil {
			return StudySession{}, err
		}
	}
	session := StudySession{
		ID:              uuid.NewString(),
		UserID:          userID,
		DocumentID:      documentID,
		Kind:            kind,
		DurationSeconds: durationSeconds,
		ItemsReviewed:   itemsReviewed,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.Repo.AppendSession(ctx, session); err != nil {
		return StudySession{}, err
	}
	return session, nil
}

// GetStats assembles the analytics snapshot: raw counters plus mastery
// ratio and the streak of consecutive study days ending today or
// yesterday.
func (s *Service) GetStats(ctx context.Context, userID string) (Stats, error) {
	stats, err := s.Repo.Stats(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	if stats.QuizAnswers > 0 {
		stats.MasteryRatio = float64(stats.QuizCorrect) / float64(stats.QuizAnswers)
	}

	days, err := s.Repo.ActivityDays(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	stats.StreakDays = streak(days, s.now().UTC())
	return stats, nil
}

func streak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	today := now.Truncate(24 * time.Hour)
	expected := today
	if !days[0].Equal(today) {
		// A streak survives until a full day is missed.
		expected = today.Add(-24 * time.Hour)
	}
	count := 0
	for _, day := range days {
		if !day.Equal(expected) {
			break
		}
		count++
		expected = expected.Add(-24 * time.Hour)
	}
	return count
}
