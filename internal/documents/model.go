package documents

import "time"

// Document kinds.
const (
	KindPDF     = "pdf"
	KindDOCX    = "docx"
	KindYouTube = "youtube"
)

// Lifecycle statuses. Every document moves from processing to exactly
// one of the terminal states.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document is a study source owned by a user: an uploaded file or a
// linked video.
type Document struct {
	ID              string
	UserID          string
	Name            string
	Kind            string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	VideoURL        string
	FolderID        string
	Status          string
	ErrorCode       string
	ErrorMessage    string
	CreatedAt       time.Time
	ProcessedAt     *time.Time
}

// Folder groups documents for one user.
type Folder struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}
