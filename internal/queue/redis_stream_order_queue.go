package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-gin-airport/internal/model"
	"go-gin-airport/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "orders:events"
	ConsumerGroupName  = "flight-cache-invalidators"
	ConsumerNamePrefix = "worker"

	eventField = "event"
	typeField  = "type"
	orderField = "order_id"

	readBatchSize = 10
	ackTimeout    = 2 * time.Second
)

// RedisStreamConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
	MaxLen             int64         // stream 約略保留的事件數
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		MaxLen:             10000,
	}
}

func (c *RedisStreamConfig) merge(override *RedisStreamConfig) {
	if override == nil {
		return
	}
	if override.ClaimMinIdleTime > 0 {
		c.ClaimMinIdleTime = override.ClaimMinIdleTime
	}
	if override.MaxRetryCount > 0 {
		c.MaxRetryCount = override.MaxRetryCount
	}
	if override.ReadGroupBlockTime > 0 {
		c.ReadGroupBlockTime = override.ReadGroupBlockTime
	}
	if override.MaxLen > 0 {
		c.MaxLen = override.MaxLen
	}
}

// RedisStreamOrderEventQueue keeps order events in one capped stream read
// by a consumer group. The events only tell consumers that flight
// availability changed, so old entries are trimmed rather than archived.
type RedisStreamOrderEventQueue struct {
	client   redis.UniversalClient
	group    string
	consumer string
	cfg      RedisStreamConfig
}

// NewRedisStreamOrderEventQueue 建立 Redis Stream 版 OrderEventQueue。config 可為 nil，則使用預設逾時與重試次數。
func NewRedisStreamOrderEventQueue(ctx context.Context, client redis.UniversalClient, consumerID string, config *RedisStreamConfig) (OrderEventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	cfg.merge(config)

	q := &RedisStreamOrderEventQueue{
		client:   client,
		group:    ConsumerGroupName,
		consumer: ConsumerNamePrefix + ":" + consumerID,
		cfg:      cfg,
	}

	err := client.XGroupCreateMkStream(ctx, StreamKey, q.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

// PublishEvent appends the event with its type and order id as plain
// fields, so the stream can be inspected with XRANGE.
func (q *RedisStreamOrderEventQueue) PublishEvent(ctx context.Context, event *model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: q.cfg.MaxLen,
		Approx: true,
		ID:     "*",
		Values: []interface{}{
			eventField, string(payload),
			typeField, string(event.Type),
			orderField, strconv.Itoa(event.OrderID),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd order event %s: %w", event.EventID, err)
	}
	return nil
}

// SubscribeEvents reads new events and, in parallel, reclaims events another
// consumer left unacknowledged for ClaimMinIdleTime. The channel closes once
// both readers have stopped.
func (q *RedisStreamOrderEventQueue) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		q.readNew(ctx, out)
	}()
	go func() {
		defer wg.Done()
		q.reclaimIdle(ctx, out)
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// readNew 只讀 ">"（新訊息）；已投遞未確認的訊息由 reclaimIdle 逾時後領回
func (q *RedisStreamOrderEventQueue) readNew(ctx context.Context, out chan<- Delivery) {
	log := logger.WithComponent("mq")
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: q.consumer,
			Streams:  []string{StreamKey, ">"},
			Count:    readBatchSize,
			Block:    q.cfg.ReadGroupBlockTime,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("XReadGroup failed", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, stream := range streams {
			if stream.Stream != StreamKey {
				continue
			}
			if !q.emit(ctx, out, stream.Messages, false) {
				return
			}
		}
	}
}

// reclaimIdle 定時用 XAUTOCLAIM 領取超時未確認的消息
func (q *RedisStreamOrderEventQueue) reclaimIdle(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	cursor := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		claimed, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   StreamKey,
			Group:    q.group,
			Consumer: q.consumer,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Count:    readBatchSize,
			Start:    cursor,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return
			}
			logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
			continue
		}
		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}

		if !q.emit(ctx, out, claimed, true) {
			return
		}
	}
}

// emit hands decoded events to out. Reclaimed events past MaxRetryCount are
// dropped. It reports false once ctx is done.
func (q *RedisStreamOrderEventQueue) emit(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, reclaimed bool) bool {
	for _, msg := range msgs {
		if ctx.Err() != nil {
			return false
		}

		event, err := decodeOrderEvent(msg)
		if err != nil {
			logger.WithComponent("mq").Warn("drop undecodable order event",
				zap.String("message_id", msg.ID), zap.Error(err))
			q.ack(ctx, msg.ID)
			continue
		}

		if reclaimed && q.exhausted(ctx, msg.ID, event) {
			continue
		}

		select {
		case out <- q.delivery(ctx, msg.ID, event):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func decodeOrderEvent(msg redis.XMessage) (*model.OrderEvent, error) {
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		return nil, errors.New("missing event field")
	}
	var event model.OrderEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// exhausted acks and reports true when the event was delivered too often.
func (q *RedisStreamOrderEventQueue) exhausted(ctx context.Context, messageID string, event *model.OrderEvent) bool {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  q.group,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		return false
	}

	retries := int(pending[0].RetryCount)
	if retries < q.cfg.MaxRetryCount {
		return false
	}
	logger.WithComponent("mq").Warn("discard order event after max retries",
		zap.String("message_id", messageID),
		zap.String("event_id", event.EventID),
		zap.Int("order_id", event.OrderID),
		zap.Int("retries", retries),
	)
	q.ack(ctx, messageID)
	return true
}

func (q *RedisStreamOrderEventQueue) delivery(ctx context.Context, messageID string, event *model.OrderEvent) Delivery {
	return Delivery{
		Data: event,
		Ack:  func() { q.ack(ctx, messageID) },
		Nack: func(requeue bool) {
			if requeue {
				// 留在 PEL，ClaimMinIdleTime 後由 XAUTOCLAIM 領回，形成延遲重試
				return
			}
			q.ack(ctx, messageID)
		},
	}
}

// ack still runs after shutdown started, so an event the worker finished is
// not redelivered.
func (q *RedisStreamOrderEventQueue) ack(ctx context.Context, messageID string) {
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()
	if err := q.client.XAck(ackCtx, StreamKey, q.group, messageID).Err(); err != nil {
		logger.WithComponent("mq").Error("XAck failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

// Close leaves the shared client open; its owner closes it.
func (q *RedisStreamOrderEventQueue) Close() error {
	return nil
}
