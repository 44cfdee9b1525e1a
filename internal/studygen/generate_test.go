package studygen

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedLLM struct {
	responses map[string]string // prompt substring -> response
	err       error
	prompts   []string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	for needle, response := range s.responses {
		if strings.Contains(prompt, needle) {
			return response, nil
		}
	}
	return "generated text", nil
}

func TestSummaryPropagatesProviderError(t *testing.T) {
	llmErr := errors.New("provider down")
	gen := NewGenerator(&scriptedLLM{err: llmErr}, 10, 5)

	if _, err := gen.Summary(context.Background(), "u", "d", "text"); !errors.Is(err, llmErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if _, err := gen.Notes(context.Background(), "u", "d", "text"); !errors.Is(err, llmErr) {
		t.Fatalf("expected provider error from notes, got %v", err)
	}
}

func TestFlashcardsDegradeToEmptyOnError(t *testing.T) {
	gen := NewGenerator(&scriptedLLM{err: errors.New("provider down")}, 10, 5)
	if cards := gen.Flashcards(context.Background(), "u", "d", "text"); len(cards) != 0 {
		t.Fatalf("expected empty cards on provider error, got %d", len(cards))
	}
	if questions := gen.Quiz(context.Background(), "u", "d", "text"); len(questions) != 0 {
		t.Fatalf("expected empty quiz on provider error, got %d", len(questions))
	}
}

func TestFlashcardsDegradeToEmptyOnMalformedJSON(t *testing.T) {
	client := &scriptedLLM{responses: map[string]string{
		"flashcards": "Sorry, I can't produce JSON today.",
	}}
	gen := NewGenerator(client, 10, 5)
	if cards := gen.Flashcards(context.Background(), "u", "d", "text"); len(cards) != 0 {
		t.Fatalf("expected empty cards for malformed response, got %d", len(cards))
	}
}

func TestFlashcardsAssignPositions(t *testing.T) {
	client := &scriptedLLM{responses: map[string]string{
		"flashcards": `[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`,
	}}
	gen := NewGenerator(client, 10, 5)
	cards := gen.Flashcards(context.Background(), "user-1", "doc-1", "text")
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	for i, card := range cards {
		if card.Position != i {
			t.Fatalf("expected position %d, got %d", i, card.Position)
		}
		if card.DocumentID != "doc-1" || card.UserID != "user-1" {
			t.Fatalf("ownership fields not set: %+v", card)
		}
	}
}

func TestPromptsTruncateLongInput(t *testing.T) {
	client := &scriptedLLM{}
	gen := NewGenerator(client, 10, 5)

	long := strings.Repeat("y", maxInputChars+1000)
	if _, err := gen.Summary(context.Background(), "u", "d", long); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	prompt := client.prompts[0]
	if strings.Count(prompt, "y") != maxInputChars {
		t.Fatalf("expected input truncated to %d chars, got %d", maxInputChars, strings.Count(prompt, "y"))
	}
}
