package notification

import "context"

// Dispatcher delivers notifications after the triggering write has been
// committed. Delivery is best-effort: a dispatch failure must never fail
// or roll back the operation that triggered it.
type Dispatcher interface {
	Dispatch(ctx context.Context, notifications ...*Notification)
}

// NopDispatcher discards all notifications. Useful for tooling that runs
// pipeline operations without a delivery channel.
type NopDispatcher struct{}

// Dispatch discards the given notifications
func (NopDispatcher) Dispatch(ctx context.Context, notifications ...*Notification) {}
