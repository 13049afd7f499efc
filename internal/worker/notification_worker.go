package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/events"
)

// DefaultQueueSize bounds how many events may wait for delivery.
const DefaultQueueSize = 256

// EventHandler processes one queued event.
type EventHandler interface {
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves account events off the request path.
// Events arriving while the queue is full are dropped and logged.
type NotificationWorker struct {
	handler EventHandler
	queue   chan events.Event
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// StartNotificationWorker subscribes to every account event and starts delivery.
// The worker stops when ctx is cancelled; Wait blocks until the queue is drained.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, handler EventHandler, logger *zap.Logger) *NotificationWorker {
	w := &NotificationWorker{
		handler: handler,
		queue:   make(chan events.Event, DefaultQueueSize),
		logger:  logger,
	}
	if dispatcher == nil || handler == nil {
		return w
	}

	for _, eventType := range events.AccountEventTypes {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w
}

// Wait blocks until the worker goroutine has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("account_id", event.AccountID))
	}
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case event := <-w.queue:
			w.deliver(event)
		}
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

// deliver runs detached from the publishing request's context, which is gone by now.
func (w *NotificationWorker) deliver(event events.Event) {
	if err := w.handler.Handle(context.Background(), event); err != nil {
		w.logger.Warn("notification failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
