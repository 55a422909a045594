package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-gin-airport/internal/model"
	"go-gin-airport/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const attemptHeader = "attempt"

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOrderEventQueue publishes order events to a Kafka topic keyed by
// order id, so events of one order stay ordered within a partition.
type KafkaOrderEventQueue struct {
	cfg       KafkaConfig
	writer    kafkaWriter
	newReader func() kafkaReader
	reader    kafkaReader
}

func NewKafkaOrderEventQueue(cfg KafkaConfig) (OrderEventQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaOrderEventQueue(cfg, writer, func() kafkaReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             cfg.Topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		})
	}), nil
}

func newKafkaOrderEventQueue(cfg KafkaConfig, writer kafkaWriter, newReader func() kafkaReader) *KafkaOrderEventQueue {
	return &KafkaOrderEventQueue{cfg: cfg, writer: writer, newReader: newReader}
}

func (q *KafkaOrderEventQueue) PublishEvent(ctx context.Context, event *model.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write order event to kafka: %w", err)
	}
	return nil
}

// SubscribeEvents joins the consumer group. Ack commits the offset. Offsets
// are cumulative, so Nack with requeue writes the event back to the end of
// the topic and then commits; if that write fails the offset stays
// uncommitted and the event only returns after a rebalance or restart.
func (q *KafkaOrderEventQueue) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	if q.reader != nil {
		return nil, errors.New("kafka: already subscribed")
	}
	q.reader = q.newReader()

	out := make(chan Delivery)
	go func() {
		defer close(out)
		log := logger.WithComponent("mq")
		for {
			msg, err := q.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error("kafka fetch failed", zap.Error(err))
				}
				return
			}

			var event model.OrderEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Warn("unmarshal order event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
				q.commit(ctx, msg)
				continue
			}

			m := msg
			d := Delivery{
				Data: &event,
				Ack:  func() { q.commit(ctx, m) },
				Nack: func(requeue bool) {
					if requeue {
						q.requeue(ctx, m)
						return
					}
					q.commit(ctx, m)
				},
			}
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *KafkaOrderEventQueue) requeue(ctx context.Context, msg kafka.Message) {
	attempt := attemptOf(msg) + 1
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()
	err := q.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: []kafka.Header{{Key: attemptHeader, Value: []byte(strconv.Itoa(attempt))}},
	})
	if err != nil {
		logger.WithComponent("mq").Error("kafka requeue failed, offset left uncommitted",
			zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
		return
	}
	q.commit(ctx, msg)
}

func attemptOf(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key == attemptHeader {
			n, _ := strconv.Atoi(string(h.Value))
			return n
		}
	}
	return 0
}

func (q *KafkaOrderEventQueue) commit(ctx context.Context, msg kafka.Message) {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()
	if err := q.reader.CommitMessages(commitCtx, msg); err != nil {
		logger.WithComponent("mq").Error("kafka commit failed",
			zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

func (q *KafkaOrderEventQueue) Close() error {
	var errs []error
	if err := q.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if q.reader != nil {
		if err := q.reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
