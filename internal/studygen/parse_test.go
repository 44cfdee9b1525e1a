package studygen

import "testing"

func TestParseFlashcardsBareArray(t *testing.T) {
	raw := `[{"question":"What is ATP?","answer":"The cell's energy currency."}]`
	items := parseFlashcards(raw, 10)
	if len(items) != 1 || items[0].Question != "What is ATP?" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseFlashcardsFencedEnvelope(t *testing.T) {
	raw := "```json\n{\"flashcards\":[{\"question\":\"Q\",\"answer\":\"A\"},{\"question\":\"Q2\",\"answer\":\"A2\"}]}\n```"
	items := parseFlashcards(raw, 10)
	if len(items) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(items))
	}
}

func TestParseFlashcardsSalvagesNoisyResponse(t *testing.T) {
	raw := `Sure! Here are your flashcards:
[{"question":"Q","answer":"A"}]
Let me know if you need more.`
	items := parseFlashcards(raw, 10)
	if len(items) != 1 {
		t.Fatalf("expected salvage to recover 1 card, got %d", len(items))
	}
}

func TestParseFlashcardsTruncatesToLimit(t *testing.T) {
	raw := `[{"question":"1","answer":"a"},{"question":"2","answer":"b"},{"question":"3","answer":"c"}]`
	items := parseFlashcards(raw, 2)
	if len(items) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(items))
	}
}

func TestParseFlashcardsMalformed(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", `{"question":"not an array"}`} {
		if items := parseFlashcards(raw, 10); len(items) != 0 {
			t.Fatalf("expected empty result for %q, got %+v", raw, items)
		}
	}
}

func TestParseFlashcardsDropsBlankEntries(t *testing.T) {
	raw := `[{"question":"","answer":"a"},{"question":"ok","answer":"fine"}]`
	items := parseFlashcards(raw, 10)
	if len(items) != 1 || items[0].Question != "ok" {
		t.Fatalf("expected blank entry dropped, got %+v", items)
	}
}

func TestParseQuizValidatesCorrectIndex(t *testing.T) {
	raw := `[
{"question":"ok","options":["a","b","c","d"],"correctIndex":2,"explanation":"e"},
{"question":"bad index","options":["a","b"],"correctIndex":5},
{"question":"too few","options":["a"],"correctIndex":0}
]`
	items := parseQuiz(raw, 10)
	if len(items) != 1 || items[0].CorrectIndex != 2 {
		t.Fatalf("expected one valid question, got %+v", items)
	}
}

func TestParseQuizQuestionsEnvelope(t *testing.T) {
	raw := `{"questions":[{"question":"q","options":["a","b","c","d"],"correctIndex":0}]}`
	items := parseQuiz(raw, 10)
	if len(items) != 1 {
		t.Fatalf("expected envelope to parse, got %+v", items)
	}
}

func TestTruncateCapsInput(t *testing.T) {
	long := make([]byte, maxInputChars+500)
	for i := range long {
		long[i] = 'x'
	}
	if got := truncate(string(long)); len(got) != maxInputChars {
		t.Fatalf("expected %d chars, got %d", maxInputChars, len(got))
	}
	if got := truncate("short"); got != "short" {
		t.Fatalf("short input must pass through")
	}
}
