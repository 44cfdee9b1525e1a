package workerproc

import (
	"context"
	"errors"
	"testing"

	"study-backend/internal/queue"
)

type recordingRunner struct {
	runs []string
	err  error
}

func (r *recordingRunner) Run(_ context.Context, documentID string) error {
	r.runs = append(r.runs, documentID)
	return r.err
}

func TestParseMessageRejectsBadPayloads(t *testing.T) {
	if _, _, err := ParseMessage(""); !errors.As(err, &ErrEmptyBody{}) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	var decodeErr ErrDecode
	if _, _, err := ParseMessage("{not json"); !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var missingErr ErrMissingDocumentID
	if _, _, err := ParseMessage(`{"requestId":"r-1"}`); !errors.As(err, &missingErr) {
		t.Fatalf("expected ErrMissingDocumentID, got %v", err)
	}
	if missingErr.RequestID != "r-1" {
		t.Fatalf("expected request id carried through, got %q", missingErr.RequestID)
	}
}

func TestHandleMessageRunsPipeline(t *testing.T) {
	runner := &recordingRunner{}
	body := `{"documentId":"doc-1","requestId":"r-1","version":1}`

	if err := HandleMessage(context.Background(), runner, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(runner.runs) != 1 || runner.runs[0] != "doc-1" {
		t.Fatalf("unexpected runs: %v", runner.runs)
	}
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	cause := errors.New("boom")
	runner := &recordingRunner{err: cause}
	body := `{"documentId":"doc-1","requestId":"r-1"}`

	err := HandleMessage(context.Background(), runner, body)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.DocumentID != "doc-1" || !errors.Is(err, cause) {
		t.Fatalf("unexpected error: %+v", procErr)
	}
}

func TestHandleMessageReusesParsedMessage(t *testing.T) {
	runner := &recordingRunner{}
	ctx := WithParsedMessage(context.Background(), queue.Message{DocumentID: "doc-2", RequestID: "r-2"})

	if err := HandleMessage(ctx, runner, "ignored"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(runner.runs) != 1 || runner.runs[0] != "doc-2" {
		t.Fatalf("unexpected runs: %v", runner.runs)
	}
}
