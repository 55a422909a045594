package service_test

import (
	"context"

	"go-gin-airport/internal/cache"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/queue"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTx records how a transaction ended. Any other pgx.Tx method panics.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakePool struct {
	tx *fakeTx
}

func newFakePool() *fakePool {
	return &fakePool{tx: &fakeTx{}}
}

func (p *fakePool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return p.tx, nil
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, q query.Query, userID int) ([]*model.Order, int, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]*model.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, userID int) (*model.Order, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) List(ctx context.Context, q query.Query) ([]*model.Ticket, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Ticket), args.Int(1), args.Error(2)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByOrders(ctx context.Context, orderIDs []int) (map[int][]*model.Ticket, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int][]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTicketRepository) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, tx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tx pgx.Tx, orderID int, requests []model.TicketRequest) ([]*model.Ticket, error) {
	args := m.Called(ctx, tx, orderID, requests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateTicketParams) error {
	return m.Called(ctx, tx, id, params).Error(0)
}

func (m *MockTicketRepository) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListSoldByFlights(ctx context.Context, tx pgx.Tx, flightIDs []int, excludeOrderID int) (map[int][]*model.Ticket, error) {
	args := m.Called(ctx, tx, flightIDs, excludeOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int][]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) DeleteByOrder(ctx context.Context, tx pgx.Tx, orderID int) error {
	return m.Called(ctx, tx, orderID).Error(0)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context, q query.Query) ([]*model.Flight, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Flight), args.Int(1), args.Error(2)
}

func (m *MockFlightRepository) FindByID(ctx context.Context, id int) (*model.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFlightRepository) Create(ctx context.Context, tx pgx.Tx, flight *model.Flight) (*model.Flight, error) {
	args := m.Called(ctx, tx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Flight), args.Error(1)
}

func (m *MockFlightRepository) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateFlightParams) error {
	return m.Called(ctx, tx, id, params).Error(0)
}

func (m *MockFlightRepository) SeatGeometry(ctx context.Context, tx pgx.Tx, flightIDs []int) (map[int]model.SeatGeometry, error) {
	args := m.Called(ctx, tx, flightIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]model.SeatGeometry), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, tx pgx.Tx, user *model.User) (*model.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockCrewRepository struct {
	mock.Mock
}

func (m *MockCrewRepository) Create(ctx context.Context, crew *model.Crew) (*model.Crew, error) {
	args := m.Called(ctx, crew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crew), args.Error(1)
}

func (m *MockCrewRepository) List(ctx context.Context, q query.Query) ([]*model.Crew, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Crew), args.Int(1), args.Error(2)
}

func (m *MockCrewRepository) FindByID(ctx context.Context, id int) (*model.Crew, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crew), args.Error(1)
}

func (m *MockCrewRepository) FindByIDs(ctx context.Context, ids []int) ([]*model.Crew, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*model.Crew), args.Error(1)
}

func (m *MockCrewRepository) ExistsByName(ctx context.Context, firstName, lastName string, excludeID int) (bool, error) {
	args := m.Called(ctx, firstName, lastName, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCrewRepository) Update(ctx context.Context, id int, params model.UpdateCrewParams) (*model.Crew, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Crew), args.Error(1)
}

func (m *MockCrewRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockAirportRepository struct {
	mock.Mock
}

func (m *MockAirportRepository) Create(ctx context.Context, airport *model.Airport) (*model.Airport, error) {
	args := m.Called(ctx, airport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportRepository) List(ctx context.Context, q query.Query) ([]*model.Airport, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Airport), args.Int(1), args.Error(2)
}

func (m *MockAirportRepository) FindByID(ctx context.Context, id int) (*model.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportRepository) Update(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airport), args.Error(1)
}

func (m *MockAirportRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) Create(ctx context.Context, route *model.Route) (*model.Route, error) {
	args := m.Called(ctx, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *MockRouteRepository) List(ctx context.Context, q query.Query) ([]*model.Route, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Route), args.Int(1), args.Error(2)
}

func (m *MockRouteRepository) FindByID(ctx context.Context, id int) (*model.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *MockRouteRepository) Update(ctx context.Context, id int, params model.UpdateRouteParams) (*model.Route, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *MockRouteRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockAirplaneRepository struct {
	mock.Mock
}

func (m *MockAirplaneRepository) Create(ctx context.Context, airplane *model.Airplane) (*model.Airplane, error) {
	args := m.Called(ctx, airplane)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) List(ctx context.Context, q query.Query) ([]*model.Airplane, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.Airplane), args.Int(1), args.Error(2)
}

func (m *MockAirplaneRepository) FindByID(ctx context.Context, id int) (*model.Airplane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) Update(ctx context.Context, id int, params model.UpdateAirplaneParams) (*model.Airplane, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderEventQueue struct {
	mock.Mock
}

func (m *MockOrderEventQueue) PublishEvent(ctx context.Context, event *model.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockOrderEventQueue) SubscribeEvents(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

func (m *MockOrderEventQueue) Close() error {
	return m.Called().Error(0)
}

type MockFlightListCache struct {
	mock.Mock
}

func (m *MockFlightListCache) Get(ctx context.Context, queryKey string) (*cache.FlightPage, bool, error) {
	args := m.Called(ctx, queryKey)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*cache.FlightPage), args.Bool(1), args.Error(2)
}

func (m *MockFlightListCache) Set(ctx context.Context, queryKey string, page cache.FlightPage) error {
	return m.Called(ctx, queryKey, page).Error(0)
}

func (m *MockFlightListCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
