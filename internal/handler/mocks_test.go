package handler_test

import (
	"context"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"

	"github.com/stretchr/testify/mock"
)

type MockAirportService struct {
	mock.Mock
}

func (m *MockAirportService) CreateAirport(ctx context.Context, airport *model.Airport) (*model.Airport, error) {
	args := m.Called(ctx, airport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportService) ListAirports(ctx context.Context, q query.Query) (query.Page[*model.Airport], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(query.Page[*model.Airport]), args.Error(1)
}

func (m *MockAirportService) GetAirportByID(ctx context.Context, id int) (*model.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportService) UpdateAirport(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportService) DeleteAirport(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, caller model.Caller, tickets []model.TicketRequest) (*model.Order, error) {
	args := m.Called(ctx, caller, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, caller model.Caller, q query.Query) (query.Page[*model.Order], error) {
	args := m.Called(ctx, caller, q)
	return args.Get(0).(query.Page[*model.Order]), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, caller model.Caller, id int) (*model.Order, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ReplaceTickets(ctx context.Context, caller model.Caller, id int, tickets []model.TicketRequest) (*model.Order, error) {
	args := m.Called(ctx, caller, id, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, caller model.Caller, id int) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) CreateFlight(ctx context.Context, flight *model.Flight) (*model.Flight, error) {
	args := m.Called(ctx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) ListFlights(ctx context.Context, q query.Query) (query.Page[model.FlightResponse], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(query.Page[model.FlightResponse]), args.Error(1)
}

func (m *MockFlightService) GetFlightByID(ctx context.Context, id int) (*model.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) UpdateFlight(ctx context.Context, id int, params model.UpdateFlightParams) (*model.Flight, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightService) DeleteFlight(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightService) InvalidateListCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) CreateTicket(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) ListTickets(ctx context.Context, q query.Query) (query.Page[*model.Ticket], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(query.Page[*model.Ticket]), args.Error(1)
}

func (m *MockTicketService) GetTicketByID(ctx context.Context, id int) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) UpdateTicket(ctx context.Context, id int, params model.UpdateTicketParams) (*model.Ticket, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) DeleteTicket(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
