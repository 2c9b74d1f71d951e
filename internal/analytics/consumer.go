package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"go.uber.org/zap"
)

// NewCreatedConsumer persists url.created events to store.
func NewCreatedConsumer(
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) *messaging.Consumer[URLCreatedEvent] {
	return messaging.NewConsumer[URLCreatedEvent](subscriber, TopicURLCreated, store.RecordCreated, logger)
}

// NewAccessedConsumer persists url.accessed events to store.
func NewAccessedConsumer(
	subscriber message.Subscriber,
	store Store,
	logger *zap.Logger,
) *messaging.Consumer[URLAccessedEvent] {
	return messaging.NewConsumer[URLAccessedEvent](subscriber, TopicURLAccessed, store.RecordAccessed, logger)
}

// Register adds consumers for every analytics topic to group.
func Register(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(NewCreatedConsumer(subscriber, store, logger))
	group.Add(NewAccessedConsumer(subscriber, store, logger))
}
