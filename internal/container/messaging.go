package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/url-shortener-go/internal/analytics"
	analyticsstore "github.com/serroba/url-shortener-go/internal/analytics/store"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis stream consumer group of the analytics consumer.
const ConsumerGroupName = "analytics"

// PublisherGroupPackage provides *messaging.PublisherGroup and the typed
// publish functions for analytics events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		return publishFunc[analytics.URLCreatedEvent](i, analytics.TopicURLCreated)
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		return publishFunc[analytics.URLAccessedEvent](i, analytics.TopicURLAccessed)
	})
}

func publishFunc[T any](i *do.Injector, topic string) (messaging.Publish[T], error) {
	if do.MustInvoke[*Options](i).Events == BackendNone {
		return messaging.Discard[T](), nil
	}

	group, err := do.Invoke[*messaging.PublisherGroup](i)
	if err != nil {
		return nil, err
	}

	return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
}

// ConsumerGroupPackage provides *messaging.ConsumerGroup consuming every
// analytics topic from Redis streams.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.AnalyticsStore == BackendPostgres {
			pg, err := do.Invoke[*Postgres](i)
			if err != nil {
				return nil, err
			}

			return analyticsstore.NewPostgres(pg.Pool), nil
		}

		return analyticsstore.NewLog(logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		store, err := do.Invoke[analytics.Store](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: ConsumerGroupName,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create redis stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.Register(group, subscriber, store, logger)

		return group, nil
	})
}
