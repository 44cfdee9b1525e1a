package studygen

import (
	"encoding/json"
	"strings"
)

// flashcardItem is the wire shape expected from the provider.
type flashcardItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type quizItem struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// stripFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (```json).
		first := strings.TrimSpace(s[:idx])
		if len(first) <= 10 && !strings.ContainsAny(first, "[{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// salvageArray cuts the outermost [...] span out of a noisy response.
// Models sometimes wrap the JSON in commentary.
func salvageArray(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeArray parses a JSON array response, tolerating fences, known
// envelope keys and surrounding noise. It returns false when nothing
// parseable remains.
func decodeArray(raw string, envelopeKeys []string, out any) bool {
	s := stripFences(raw)

	if json.Unmarshal([]byte(s), out) == nil {
		return true
	}

	// {"flashcards": [...]} style envelopes.
	var envelope map[string]json.RawMessage
	if json.Unmarshal([]byte(s), &envelope) == nil {
		for _, key := range envelopeKeys {
			if inner, ok := envelope[key]; ok && json.Unmarshal(inner, out) == nil {
				return true
			}
		}
	}

	if salvaged, ok := salvageArray(s); ok {
		if json.Unmarshal([]byte(salvaged), out) == nil {
			return true
		}
	}
	return false
}

func parseFlashcards(raw string, limit int) []flashcardItem {
	var items []flashcardItem
	if !decodeArray(raw, []string{"flashcards", "cards"}, &items) {
		return nil
	}
	valid := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) > limit {
		valid = valid[:limit]
	}
	return valid
}

func parseQuiz(raw string, limit int) []quizItem {
	var items []quizItem
	if !decodeArray(raw, []string{"questions", "quiz"}, &items) {
		return nil
	}
	valid := items[:0]
	for _, item := range items {
		if strings.TrimSpace(item.Question) == "" || len(item.Options) < 2 {
			continue
		}
		if item.CorrectIndex < 0 || item.CorrectIndex >= len(item.Options) {
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) > limit {
		valid = valid[:limit]
	}
	return valid
}
