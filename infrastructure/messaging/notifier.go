// Package messaging delivers incident notifications to the broadcast
// function. Two transports exist: direct asynchronous Lambda invocation and
// an EventBridge bus; configuration picks one. Callers treat delivery as
// best-effort and never fail the primary operation on a notify error.
package messaging

import (
	"context"

	"alerta-utec-backend/domain"
)

// Notifier hands a notification to the broadcast pipeline
type Notifier interface {
	Notify(ctx context.Context, notification *domain.Notification) error
}

// NopNotifier drops notifications; used when no transport is configured
type NopNotifier struct{}

// Notify discards the notification
func (NopNotifier) Notify(context.Context, *domain.Notification) error { return nil }
