package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notification is one message for a tenant's operators
type Notification struct {
	TenantID string `json:"tenant_id"`
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// Notifier dispatches notifications. Delivery internals are out of scope;
// implementations can fan out to in-app feeds, email or chat.
type Notifier interface {
	// Notify dispatches one notification
	Notify(ctx context.Context, n Notification) error
}

// LoggingNotifier writes notifications to the log. Default implementation
// for development and for deployments without a delivery channel.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// Notify logs the notification
func (n *LoggingNotifier) Notify(_ context.Context, notification Notification) error {
	n.logger.Info("NOTIFICATION",
		zap.String("tenant_id", notification.TenantID),
		zap.String("topic", notification.Topic),
		zap.String("title", notification.Title),
		zap.String("message", notification.Message),
	)
	return nil
}

// Ensure LoggingNotifier implements Notifier
var _ Notifier = (*LoggingNotifier)(nil)
