// Package notify delivers workflow notifications. Delivery happens after the
// mutation has committed, so every notifier here reports failures through the
// log instead of the caller.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"atelier/internal/core/ports"
)

const DefaultTimeout = 10 * time.Second

// AsyncNotifier runs the delegate on its own goroutine with its own timeout.
// Notify never blocks on delivery and always returns nil.
type AsyncNotifier struct {
	delegate ports.Notifier
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewAsyncNotifier wraps delegate. Delivery failures are logged, never returned.
func NewAsyncNotifier(delegate ports.Notifier, timeout time.Duration, logger *slog.Logger) *AsyncNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AsyncNotifier{
		delegate: delegate,
		timeout:  timeout,
		logger:   logger.With("component", "notifier"),
	}
}

// Notify detaches from the caller's context: the request that triggered the
// notification is usually finished before delivery.
func (n *AsyncNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		deliveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.delegate.Notify(deliveryCtx, notification); err != nil {
			n.logger.Warn("notification dropped",
				"kind", notification.Kind,
				"order", notification.OrderNumber,
				"error", err)
		}
	}()
	return nil
}

// Wait blocks until every pending delivery has finished. Used on shutdown.
func (n *AsyncNotifier) Wait() {
	n.wg.Wait()
}
