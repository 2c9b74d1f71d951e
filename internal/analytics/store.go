package analytics

import "context"

// Store records consumed url events. Returning an error nacks the message,
// so the same event may be recorded again on redelivery.
type Store interface {
	RecordCreated(ctx context.Context, event *URLCreatedEvent) error
	RecordAccessed(ctx context.Context, event *URLAccessedEvent) error
}
