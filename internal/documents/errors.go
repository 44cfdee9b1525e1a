package documents

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Pipeline failure codes stored on failed documents.
const (
	ErrorCodeExtraction = "EXTRACTION_FAILED"
	ErrorCodeGeneration = "GENERATION_FAILED"
	ErrorCodeTimeout    = "PIPELINE_TIMEOUT"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// VideoTooLongError rejects a video over the configured limit. Both
// durations surface in the API response.
type VideoTooLongError struct {
	Measured time.Duration
	Max      time.Duration
}

func (e *VideoTooLongError) Error() string {
	return fmt.Sprintf("video duration %s exceeds the maximum of %s", e.Measured, e.Max)
}
