package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/url-shortener-go/internal/metrics"
)

// MetadataTopic is the message metadata key carrying the topic the event was published to.
const MetadataTopic = "topic"

// Publish sends one typed event. Callers on the request path log the error
// and carry on; events are never part of the response.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc returns a Publish that JSON-encodes events onto topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			metrics.EventsPublished.WithLabelValues(topic, metrics.EventFailed).Inc()

			return fmt.Errorf("marshal %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)
		msg.SetContext(ctx)

		if err := publisher.Publish(topic, msg); err != nil {
			metrics.EventsPublished.WithLabelValues(topic, metrics.EventFailed).Inc()

			return fmt.Errorf("publish %s event %s: %w", topic, msg.UUID, err)
		}

		metrics.EventsPublished.WithLabelValues(topic, metrics.EventPublished).Inc()

		return nil
	}
}

// Discard returns a Publish that drops every event. The server uses it when
// the event transport is disabled.
func Discard[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// PublisherGroup owns the publisher shared by every Publish func so the
// injector can close it once.
type PublisherGroup struct {
	publisher message.Publisher
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
