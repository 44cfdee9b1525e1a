package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher wraps a Client with the envelope the worker expects. It
// satisfies the pipeline's publish contract.
type Publisher struct {
	Client Client
}

func NewPublisher(client Client) *Publisher {
	return &Publisher{Client: client}
}

func (p *Publisher) Publish(ctx context.Context, documentID string) error {
	return p.Client.Send(ctx, Message{
		DocumentID: documentID,
		RequestID:  uuid.NewString(),
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	})
}
