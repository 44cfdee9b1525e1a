package reviews

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("review record not found")

// Repo persists review activity.
type Repo interface {
	UpsertFlashcardPerformance(ctx context.Context, p FlashcardPerformance) error
	UpsertQuizPerformance(ctx context.Context, p QuizPerformance) error

	AppendWrongAnswer(ctx context.Context, w WrongAnswer) error
	ListWrongAnswers(ctx context.Context, userID string) ([]WrongAnswer, error)
	DeleteWrongAnswer(ctx context.Context, userID, id string) error

	AppendSession(ctx context.Context, s StudySession) error

	// Stats returns raw counters; the service derives ratios. sessionDays
	// lists the distinct UTC days with any recorded activity, newest
	// first, for streak computation.
	Stats(ctx context.Context, userID string) (Stats, error)
	ActivityDays(ctx context.Context, userID string) ([]time.Time, error)

	DeleteByUser(ctx context.Context, userID string) error
}
