package queue

import (
	"context"

	"go-gin-airport/internal/model"
)

type Delivery struct {
	Data *model.OrderEvent
	Ack  func()
	Nack func(requeue bool)
}

// OrderEventQueue carries order events from the write path to background
// consumers such as the flight cache invalidator.
type OrderEventQueue interface {
	// 發送訂單事件到隊列
	PublishEvent(ctx context.Context, event *model.OrderEvent) error
	// 訂閱訂單事件
	SubscribeEvents(ctx context.Context) (<-chan Delivery, error)
	Close() error
}

type OrderEventQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.OrderEvent
}

func NewOrderEventQueue(bufferSize int) OrderEventQueue {
	return &OrderEventQueueImpl{
		ch: make(chan *model.OrderEvent, bufferSize),
	}
}

// PublishEvent blocks while the buffer is full, until ctx is done.
func (q *OrderEventQueueImpl) PublishEvent(ctx context.Context, event *model.OrderEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *OrderEventQueueImpl) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-q.ch:
				d := Delivery{
					Data: event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// 簡單模擬重回隊列；隊列已滿時放棄
						select {
						case q.ch <- event:
						default:
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *OrderEventQueueImpl) Close() error {
	return nil
}
