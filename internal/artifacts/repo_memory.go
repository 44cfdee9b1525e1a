package artifacts

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	summaries map[string]Summary // documentID -> summary
	notes     map[string]Note
	cards     map[string][]Flashcard
	questions map[string][]QuizQuestion
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		summaries: make(map[string]Summary),
		notes:     make(map[string]Note),
		cards:     make(map[string][]Flashcard),
		questions: make(map[string][]QuizQuestion),
	}
}

func (r *MemoryRepo) SaveSummary(ctx context.Context, s Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[s.DocumentID] = s
	return nil
}

func (r *MemoryRepo) GetSummary(ctx context.Context, userID, documentID string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.summaries[documentID]
	if !ok || s.UserID != userID {
		return Summary{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) SaveNote(ctx context.Context, n Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	r.notes[n.DocumentID] = n
	return nil
}

func (r *MemoryRepo) GetNote(ctx context.Context, userID, documentID string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[documentID]
	if !ok || n.UserID != userID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (r *MemoryRepo) UpdateNoteContent(ctx context.Context, userID, documentID, content string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[documentID]
	if !ok || n.UserID != userID {
		return Note{}, ErrNotFound
	}
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	r.notes[documentID] = n
	return n, nil
}

func (r *MemoryRepo) ReplaceFlashcards(ctx context.Context, documentID string, cards []Flashcard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[documentID] = append([]Flashcard(nil), cards...)
	return nil
}

func (r *MemoryRepo) ListFlashcards(ctx context.Context, userID, documentID string) ([]Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Flashcard
	for _, card := range r.cards[documentID] {
		if card.UserID == userID {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *MemoryRepo) GetFlashcard(ctx context.Context, userID, flashcardID string) (Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return Flashcard{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cards := range r.cards {
		for _, card := range cards {
			if card.ID == flashcardID && card.UserID == userID {
				return card, nil
			}
		}
	}
	return Flashcard{}, ErrNotFound
}

func (r *MemoryRepo) ReplaceQuizQuestions(ctx context.Context, documentID string, questions []QuizQuestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[documentID] = append([]QuizQuestion(nil), questions...)
	return nil
}

func (r *MemoryRepo) ListQuizQuestions(ctx context.Context, userID, documentID string) ([]QuizQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []QuizQuestion
	for _, q := range r.questions[documentID] {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *MemoryRepo) GetQuizQuestion(ctx context.Context, userID, questionID string) (QuizQuestion, error) {
	if err := ctx.Err(); err != nil {
		return QuizQuestion{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, questions := range r.questions {
		for _, q := range questions {
			if q.ID == questionID && q.UserID == userID {
				return q, nil
			}
		}
	}
	return QuizQuestion{}, ErrNotFound
}

func (r *MemoryRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.summaries, documentID)
	delete(r.notes, documentID)
	delete(r.cards, documentID)
	delete(r.questions, documentID)
	return nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, s := range r.summaries {
		if s.UserID == userID {
			total++
		}
	}
	for _, n := range r.notes {
		if n.UserID == userID {
			total++
		}
	}
	for _, cards := range r.cards {
		for _, card := range cards {
			if card.UserID == userID {
				total++
			}
		}
	}
	for _, questions := range r.questions {
		for _, q := range questions {
			if q.UserID == userID {
				total++
			}
		}
	}
	return total, nil
}

// CountAll tallies every stored artifact for admin reporting.
func (r *MemoryRepo) CountAll(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.summaries) + len(r.notes)
	for _, cards := range r.cards {
		total += len(cards)
	}
	for _, questions := range r.questions {
		total += len(questions)
	}
	return total, nil
}

var _ Repo = (*MemoryRepo)(nil)
