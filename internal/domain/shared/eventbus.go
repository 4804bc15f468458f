package shared

import "context"

// EventPublisher is the write side of the event bus. Services publish the
// events their aggregates raised after a successful save.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes published domain events. EventTypes names the
// events the handler wants; an empty slice subscribes it to everything,
// which the activity log uses.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventSubscriber is the registration side of the event bus.
type EventSubscriber interface {
	// Subscribe registers a handler. Event types passed here override the
	// handler's own EventTypes declaration.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher plus subscriber with a lifecycle. Start and Stop
// bracket any background delivery the implementation does.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
