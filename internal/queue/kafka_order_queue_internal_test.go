package queue

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-gin-airport/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKafkaWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
}

func (w *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeKafkaWriter) Close() error { return nil }

func (w *fakeKafkaWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.written...)
}

type fakeKafkaReader struct {
	incoming  chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func (r *fakeKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.incoming:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeKafkaReader) Close() error { return nil }

func (r *fakeKafkaReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func newFakeKafkaQueue(t *testing.T) (*KafkaOrderEventQueue, *fakeKafkaWriter, *fakeKafkaReader, <-chan Delivery) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	writer := &fakeKafkaWriter{}
	reader := &fakeKafkaReader{incoming: make(chan kafka.Message, 4)}
	q := newKafkaOrderEventQueue(KafkaConfig{Brokers: []string{"fake:9092"}, Topic: "orders"}, writer,
		func() kafkaReader { return reader })

	msgs, err := q.SubscribeEvents(ctx)
	require.NoError(t, err)
	return q, writer, reader, msgs
}

func kafkaEvent(t *testing.T, offset int64, event *model.OrderEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte("7"), Value: data, Offset: offset}
}

func nextDelivery(t *testing.T, msgs <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d := <-msgs:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	return Delivery{}
}

func TestKafkaOrderEventQueue_AckCommits(t *testing.T) {
	_, writer, reader, msgs := newFakeKafkaQueue(t)

	reader.incoming <- kafkaEvent(t, 11, &model.OrderEvent{EventID: "a", OrderID: 7})
	d := nextDelivery(t, msgs)
	assert.Equal(t, "a", d.Data.EventID)
	d.Ack()

	assert.Equal(t, []int64{11}, reader.offsets())
	assert.Empty(t, writer.messages())
}

func TestKafkaOrderEventQueue_NackRequeueWritesBackThenCommits(t *testing.T) {
	_, writer, reader, msgs := newFakeKafkaQueue(t)

	original := kafkaEvent(t, 11, &model.OrderEvent{EventID: "retry", OrderID: 7})
	reader.incoming <- original
	nextDelivery(t, msgs).Nack(true)

	written := writer.messages()
	require.Len(t, written, 1)
	assert.Equal(t, original.Value, written[0].Value)
	assert.Equal(t, original.Key, written[0].Key)
	assert.Equal(t, 1, attemptOf(written[0]))
	// 原 offset 已提交，後續提交不會跳過重送的事件
	assert.Equal(t, []int64{11}, reader.offsets())

	// 重送的事件再次失敗時次數遞增
	again := written[0]
	again.Offset = 12
	reader.incoming <- again
	nextDelivery(t, msgs).Nack(true)
	assert.Equal(t, 2, attemptOf(writer.messages()[1]))
}

func TestKafkaOrderEventQueue_NackRequeueWriteFailureLeavesOffset(t *testing.T) {
	_, writer, reader, msgs := newFakeKafkaQueue(t)
	writer.err = assert.AnError

	reader.incoming <- kafkaEvent(t, 11, &model.OrderEvent{EventID: "stuck", OrderID: 7})
	nextDelivery(t, msgs).Nack(true)

	assert.Empty(t, reader.offsets())
}

func TestKafkaOrderEventQueue_NackDropCommits(t *testing.T) {
	_, writer, reader, msgs := newFakeKafkaQueue(t)

	reader.incoming <- kafkaEvent(t, 11, &model.OrderEvent{EventID: "drop", OrderID: 7})
	nextDelivery(t, msgs).Nack(false)

	assert.Equal(t, []int64{11}, reader.offsets())
	assert.Empty(t, writer.messages())
}

func TestKafkaOrderEventQueue_UndecodableMessageIsCommitted(t *testing.T) {
	_, _, reader, msgs := newFakeKafkaQueue(t)

	reader.incoming <- kafka.Message{Value: []byte("{not json"), Offset: 3}
	reader.incoming <- kafkaEvent(t, 4, &model.OrderEvent{EventID: "ok", OrderID: 7})

	d := nextDelivery(t, msgs)
	assert.Equal(t, "ok", d.Data.EventID)
	assert.Equal(t, []int64{3}, reader.offsets())
}
