package worker

import (
	"context"
	"time"

	"go-gin-airport/internal/queue"
	"go-gin-airport/internal/service"
	"go-gin-airport/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultRetryBackoff = 200 * time.Millisecond
	maxRetryBackoff     = 5 * time.Second
	defaultMaxAttempts  = 5
)

type OrderEventWorker interface {
	// 訂閱訂單事件隊列；回傳的 channel 在處理結束後關閉
	Start(ctx context.Context) (<-chan struct{}, error)
}

// OrderEventWorkerImpl drops the cached flight lists whenever an order
// changes, since every flight shows its tickets_available.
type OrderEventWorkerImpl struct {
	flightService service.FlightService
	queue         queue.OrderEventQueue
	retryBackoff  time.Duration
	maxAttempts   int
}

type Option func(*OrderEventWorkerImpl)

// WithRetryBackoff sets the wait before the first requeue. It doubles per
// attempt up to maxRetryBackoff.
func WithRetryBackoff(d time.Duration) Option {
	return func(w *OrderEventWorkerImpl) { w.retryBackoff = d }
}

// WithMaxAttempts bounds how often one event is tried before it is dropped.
// The flight list TTL then limits how stale the cache can get.
func WithMaxAttempts(n int) Option {
	return func(w *OrderEventWorkerImpl) { w.maxAttempts = n }
}

func NewOrderEventWorker(flightService service.FlightService, queue queue.OrderEventQueue, opts ...Option) OrderEventWorker {
	w := &OrderEventWorkerImpl{
		flightService: flightService,
		queue:         queue,
		retryBackoff:  defaultRetryBackoff,
		maxAttempts:   defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *OrderEventWorkerImpl) Start(ctx context.Context) (<-chan struct{}, error) {
	msgs, err := w.queue.SubscribeEvents(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// 以 event_id 計算同一事件的嘗試次數
		attempts := map[string]int{}
		for msg := range msgs {
			w.handle(ctx, msg, attempts)
		}
	}()
	return done, nil
}

func (w *OrderEventWorkerImpl) handle(ctx context.Context, msg queue.Delivery, attempts map[string]int) {
	log := logger.WithComponent("worker")
	event := msg.Data

	err := w.flightService.InvalidateListCache(ctx)
	if err == nil {
		delete(attempts, event.EventID)
		log.Debug("flight cache invalidated",
			zap.String("event_id", event.EventID),
			zap.String("type", string(event.Type)),
			zap.Int("order_id", event.OrderID),
			zap.Ints("flight_ids", event.FlightIDs),
		)
		msg.Ack()
		return
	}

	attempts[event.EventID]++
	n := attempts[event.EventID]
	if n >= w.maxAttempts {
		delete(attempts, event.EventID)
		log.Error("flight cache invalidation given up",
			zap.String("event_id", event.EventID), zap.Int("attempts", n), zap.Error(err))
		msg.Ack()
		return
	}

	log.Warn("flight cache invalidation failed, retrying",
		zap.String("event_id", event.EventID), zap.Int("attempt", n), zap.Error(err))

	// Redis 暫時不可用時退避後重試
	select {
	case <-time.After(w.backoff(n)):
	case <-ctx.Done():
	}
	msg.Nack(true)
}

func (w *OrderEventWorkerImpl) backoff(attempt int) time.Duration {
	d := w.retryBackoff
	for i := 1; i < attempt && d < maxRetryBackoff; i++ {
		d *= 2
	}
	if d > maxRetryBackoff {
		d = maxRetryBackoff
	}
	return d
}
