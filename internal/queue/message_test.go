package queue

import (
	"context"
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		DocumentID: "document-123",
		RequestID:  "request-456",
		EnqueuedAt: "2026-08-29T22:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

type captureClient struct {
	sent []Message
}

func (c *captureClient) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestPublisherWrapsDocumentID(t *testing.T) {
	client := &captureClient{}
	pub := NewPublisher(client)

	if err := pub.Publish(context.Background(), "doc-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(client.sent))
	}
	msg := client.sent[0]
	if msg.DocumentID != "doc-1" || msg.Version != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.RequestID == "" || msg.EnqueuedAt == "" {
		t.Fatalf("missing envelope fields: %+v", msg)
	}
}
