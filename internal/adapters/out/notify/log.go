package notify

import (
	"context"
	"log/slog"

	"atelier/internal/core/ports"
)

// LogNotifier writes notifications to the log. It is the default delegate
// when no webhook is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifications")}
}

func (n *LogNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	attrs := []any{
		"kind", notification.Kind,
		"order_id", notification.OrderID.String(),
		"order", notification.OrderNumber,
	}
	if recipient, ok := notification.Recipient.Get(); ok {
		attrs = append(attrs, "recipient", recipient.String())
	}
	if d, ok := notification.Department.Get(); ok {
		attrs = append(attrs, "department", d.String())
	}
	n.logger.InfoContext(ctx, notification.Message, attrs...)
	return nil
}
