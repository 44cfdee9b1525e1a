package artifacts

import "time"

// Summary is the single generated summary for a document.
type Summary struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"-"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Note is the single structured-notes artifact for a document. Unlike
// the other artifacts it is user-editable.
type Note struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"-"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Flashcard struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"-"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

type QuizQuestion struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"documentId"`
	UserID       string    `json:"-"`
	Question     string    `json:"question"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correctIndex"`
	Explanation  string    `json:"explanation,omitempty"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"createdAt"`
}
