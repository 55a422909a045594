package service_test

import (
	"context"
	"errors"
	"testing"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ticketMocks struct {
	pool    *fakePool
	tickets *MockTicketRepository
	flights *MockFlightRepository
	orders  *MockOrderRepository
	queue   *MockOrderEventQueue
}

func setupTicketService() (service.TicketService, *ticketMocks) {
	m := &ticketMocks{
		pool:    newFakePool(),
		tickets: new(MockTicketRepository),
		flights: new(MockFlightRepository),
		orders:  new(MockOrderRepository),
		queue:   new(MockOrderEventQueue),
	}
	return service.NewTicketService(m.pool, m.tickets, m.flights, m.orders, m.queue), m
}

func ownerEvent(orderID, userID int) interface{} {
	return mock.MatchedBy(func(e *model.OrderEvent) bool {
		return e.Type == model.OrderEventUpdated && e.OrderID == orderID && e.UserID == userID &&
			assert.ObjectsAreEqual([]int{3}, e.FlightIDs)
	})
}

func TestTicketService_UpdateTicket(t *testing.T) {
	ctx := context.Background()
	current := &model.Ticket{ID: 7, OrderID: 10, FlightID: 3, Row: 1, Seat: 1}
	seat := 2
	params := model.UpdateTicketParams{Seat: &seat}

	t.Run("Success - event carries the order owner", func(t *testing.T) {
		svc, m := setupTicketService()

		m.tickets.On("FindByIDWithLock", ctx, m.pool.tx, 7).Return(current, nil).Once()
		m.orders.On("FindByID", ctx, 10).Return(&model.Order{ID: 10, UserID: 5}, nil).Once()
		m.flights.On("SeatGeometry", ctx, m.pool.tx, []int{3}).Return(geometry, nil).Once()
		m.tickets.On("ListSoldByFlights", ctx, m.pool.tx, []int{3}, 0).Return(map[int][]*model.Ticket{
			3: {current},
		}, nil).Once()
		m.tickets.On("Update", ctx, m.pool.tx, 7, params).Return(nil).Once()
		m.queue.On("PublishEvent", mock.Anything, ownerEvent(10, 5)).Return(nil).Once()
		m.tickets.On("FindByID", ctx, 7).Return(&model.Ticket{ID: 7, OrderID: 10, FlightID: 3, Row: 1, Seat: 2}, nil).Once()

		updated, err := svc.UpdateTicket(ctx, 7, params)

		require.NoError(t, err)
		assert.Equal(t, 2, updated.Seat)
		assert.True(t, m.pool.tx.committed)
		m.orders.AssertExpectations(t)
		m.tickets.AssertExpectations(t)
		m.queue.AssertExpectations(t)
	})

	t.Run("Failed - order lookup error writes nothing", func(t *testing.T) {
		svc, m := setupTicketService()

		m.tickets.On("FindByIDWithLock", ctx, m.pool.tx, 7).Return(current, nil).Once()
		m.orders.On("FindByID", ctx, 10).Return(nil, errors.New("db down")).Once()

		_, err := svc.UpdateTicket(ctx, 7, params)

		require.Error(t, err)
		assert.True(t, m.pool.tx.rolledBack)
		m.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
	})
}

func TestTicketService_DeleteTicket(t *testing.T) {
	ctx := context.Background()
	svc, m := setupTicketService()

	m.tickets.On("FindByID", ctx, 7).Return(&model.Ticket{ID: 7, OrderID: 10, FlightID: 3}, nil).Once()
	m.orders.On("FindByID", ctx, 10).Return(&model.Order{ID: 10, UserID: 5}, nil).Once()
	m.tickets.On("Delete", ctx, 7).Return(nil).Once()
	m.queue.On("PublishEvent", mock.Anything, ownerEvent(10, 5)).Return(nil).Once()

	require.NoError(t, svc.DeleteTicket(ctx, 7))
	m.tickets.AssertExpectations(t)
	m.queue.AssertExpectations(t)
}
