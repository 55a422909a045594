package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/queue"
	"go-gin-airport/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) CreateFlight(ctx context.Context, flight *model.Flight) (*model.Flight, error) {
	args := m.Called(ctx, flight)
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) ListFlights(ctx context.Context, q query.Query) (query.Page[model.FlightResponse], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(query.Page[model.FlightResponse]), args.Error(1)
}

func (m *MockFlightService) GetFlightByID(ctx context.Context, id int) (*model.Flight, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) UpdateFlight(ctx context.Context, id int, params model.UpdateFlightParams) (*model.Flight, error) {
	args := m.Called(ctx, id, params)
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) DeleteFlight(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFlightService) InvalidateListCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestOrderEventWorker_InvalidatesCachePerEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := queue.NewOrderEventQueue(4)
	flights := new(MockFlightService)
	invalidated := make(chan struct{}, 2)
	flights.On("InvalidateListCache", mock.Anything).Return(nil).
		Run(func(mock.Arguments) { invalidated <- struct{}{} })

	done, err := worker.NewOrderEventWorker(flights, q).Start(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishEvent(ctx, &model.OrderEvent{EventID: "a", Type: model.OrderEventCreated}))
	require.NoError(t, q.PublishEvent(ctx, &model.OrderEvent{EventID: "b", Type: model.OrderEventDeleted}))

	for i := 0; i < 2; i++ {
		select {
		case <-invalidated:
		case <-time.After(2 * time.Second):
			t.Fatal("event was not processed")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	flights.AssertNumberOfCalls(t, "InvalidateListCache", 2)
}

func TestOrderEventWorker_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewOrderEventQueue(4)
	flights := new(MockFlightService)
	succeeded := make(chan struct{}, 1)
	flights.On("InvalidateListCache", mock.Anything).Return(errors.New("redis down")).Once()
	flights.On("InvalidateListCache", mock.Anything).Return(nil).
		Run(func(mock.Arguments) { succeeded <- struct{}{} }).Once()

	_, err := worker.NewOrderEventWorker(flights, q, worker.WithRetryBackoff(10*time.Millisecond)).Start(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishEvent(ctx, &model.OrderEvent{EventID: "retry"}))

	select {
	case <-succeeded:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not retried")
	}
	assert.True(t, flights.AssertExpectations(t))
}

func TestOrderEventWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewOrderEventQueue(4)
	flights := new(MockFlightService)
	var calls atomic.Int32
	flights.On("InvalidateListCache", mock.Anything).Return(errors.New("redis down")).
		Run(func(mock.Arguments) { calls.Add(1) })

	_, err := worker.NewOrderEventWorker(flights, q,
		worker.WithRetryBackoff(10*time.Millisecond), worker.WithMaxAttempts(3)).Start(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishEvent(ctx, &model.OrderEvent{EventID: "stuck"}))

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	// 放棄後不再重試
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOrderEventWorker_BacksOffBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewOrderEventQueue(4)
	flights := new(MockFlightService)
	var calls atomic.Int32
	flights.On("InvalidateListCache", mock.Anything).Return(errors.New("redis down")).
		Run(func(mock.Arguments) { calls.Add(1) })

	_, err := worker.NewOrderEventWorker(flights, q,
		worker.WithRetryBackoff(50*time.Millisecond), worker.WithMaxAttempts(100)).Start(ctx)
	require.NoError(t, err)

	require.NoError(t, q.PublishEvent(ctx, &model.OrderEvent{EventID: "slow"}))

	// 50ms, 100ms, 200ms ... 退避下 250ms 內最多三次
	time.Sleep(250 * time.Millisecond)
	n := calls.Load()
	assert.GreaterOrEqual(t, n, int32(2))
	assert.LessOrEqual(t, n, int32(4))
}
