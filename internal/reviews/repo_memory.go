package reviews

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo for dev mode and tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	cards    map[string]FlashcardPerformance // userID|flashcardID
	quiz     map[string]QuizPerformance      // userID|questionID
	wrong    []WrongAnswer
	sessions []StudySession
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		cards: make(map[string]FlashcardPerformance),
		quiz:  make(map[string]QuizPerformance),
	}
}

func (r *MemoryRepo) UpsertFlashcardPerformance(ctx context.Context, p FlashcardPerformance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	r.cards[p.UserID+"|"+p.FlashcardID] = p
	return nil
}

func (r *MemoryRepo) UpsertQuizPerformance(ctx context.Context, p QuizPerformance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	r.quiz[p.UserID+"|"+p.QuizQuestionID] = p
	return nil
}

func (r *MemoryRepo) AppendWrongAnswer(ctx context.Context, w WrongAnswer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wrong = append(r.wrong, w)
	return nil
}

func (r *MemoryRepo) ListWrongAnswers(ctx context.Context, userID string) ([]WrongAnswer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []WrongAnswer
	for _, w := range r.wrong {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) DeleteWrongAnswer(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.wrong {
		if w.ID == id && w.UserID == userID {
			r.wrong = append(r.wrong[:i], r.wrong[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) AppendSession(ctx context.Context, s StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *MemoryRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Stats
	for _, p := range r.cards {
		if p.UserID == userID {
			s.FlashcardsReviewed++
		}
	}
	for _, p := range r.quiz {
		if p.UserID == userID {
			s.QuizAnswers++
			if p.Correct {
				s.QuizCorrect++
			}
		}
	}
	for _, w := range r.wrong {
		if w.UserID == userID {
			s.WrongAnswers++
		}
	}
	for _, sess := range r.sessions {
		if sess.UserID == userID {
			s.Sessions++
		}
	}
	return s, nil
}

func (r *MemoryRepo) ActivityDays(ctx context.Context, userID string) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	days := make(map[time.Time]bool)
	add := func(t time.Time) {
		days[t.UTC().Truncate(24*time.Hour)] = true
	}
	for _, p := range r.cards {
		if p.UserID == userID {
			add(p.UpdatedAt)
		}
	}
	for _, p := range r.quiz {
		if p.UserID == userID {
			add(p.UpdatedAt)
		}
	}
	for _, sess := range r.sessions {
		if sess.UserID == userID {
			add(sess.CreatedAt)
		}
	}
	var out []time.Time
	for day := range days {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out, nil
}

func (r *MemoryRepo) DeleteByUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.cards {
		if p.UserID == userID {
			delete(r.cards, key)
		}
	}
	for key, p := range r.quiz {
		if p.UserID == userID {
			delete(r.quiz, key)
		}
	}
	wrong := r.wrong[:0]
	for _, w := range r.wrong {
		if w.UserID != userID {
			wrong = append(wrong, w)
		}
	}
	r.wrong = wrong
	sessions := r.sessions[:0]
	for _, s := range r.sessions {
		if s.UserID != userID {
			sessions = append(sessions, s)
		}
	}
	r.sessions = sessions
	return nil
}

// CountActivitySince tallies review events after the cutoff across all
// users, for admin reporting.
func (r *MemoryRepo) CountActivitySince(ctx context.Context, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, p := range r.cards {
		if p.UpdatedAt.After(since) {
			total++
		}
	}
	for _, p := range r.quiz {
		if p.UpdatedAt.After(since) {
			total++
		}
	}
	for _, s := range r.sessions {
		if s.CreatedAt.After(since) {
			total++
		}
	}
	return total, nil
}

var _ Repo = (*MemoryRepo)(nil)
