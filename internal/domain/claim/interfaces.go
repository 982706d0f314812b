package claim

import "context"

// EntityRecognizer finds named entities in free text. Implementations return
// entities ordered by their position in text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// EventPublisher announces routing decisions to downstream consumers.
type EventPublisher interface {
	PublishClaimRouted(ctx context.Context, event *ClaimRoutedEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishClaimRouted(context.Context, *ClaimRoutedEvent) error { return nil }

//Personal.AI order the ending
