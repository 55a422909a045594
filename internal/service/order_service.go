package service

import (
	"context"
	"time"

	"go-gin-airport/internal/allocation"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/queue"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"
	"go-gin-airport/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

type OrderService interface {
	// 創建訂單：所有票券一次寫入，任一失敗整筆回滾
	CreateOrder(ctx context.Context, caller model.Caller, tickets []model.TicketRequest) (*model.Order, error)
	ListOrders(ctx context.Context, caller model.Caller, q query.Query) (query.Page[*model.Order], error)
	GetOrderByID(ctx context.Context, caller model.Caller, id int) (*model.Order, error)
	// 更新訂單：以新的票券集合整批取代舊票券
	ReplaceTickets(ctx context.Context, caller model.Caller, id int, tickets []model.TicketRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, caller model.Caller, id int) error
}

type OrderServiceImpl struct {
	pool             TxBeginner
	repository       repository.OrderRepository
	ticketRepository repository.TicketRepository
	flightRepository repository.FlightRepository
	userRepository   repository.UserRepository
	events           eventPublisher
}

func NewOrderService(
	pool TxBeginner,
	orderRepository repository.OrderRepository,
	ticketRepository repository.TicketRepository,
	flightRepository repository.FlightRepository,
	userRepository repository.UserRepository,
	eventQueue queue.OrderEventQueue,
) OrderService {
	return &OrderServiceImpl{
		pool:             pool,
		repository:       orderRepository,
		ticketRepository: ticketRepository,
		flightRepository: flightRepository,
		userRepository:   userRepository,
		events:           eventPublisher{queue: eventQueue},
	}
}

func (s *OrderServiceImpl) CreateOrder(ctx context.Context, caller model.Caller, tickets []model.TicketRequest) (*model.Order, error) {
	if !caller.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}
	if len(tickets) == 0 {
		return nil, allocation.ValidateBatch(nil, nil, nil)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 同步呼叫者身分，orders.user_id 需要對應的 users 資料
	if _, err := s.userRepository.Upsert(ctx, tx, &model.User{
		ID:       caller.UserID,
		Username: caller.Username,
		IsStaff:  caller.IsStaff,
	}); err != nil {
		return nil, err
	}

	// 2. 建立訂單
	order, err := s.repository.Create(ctx, tx, caller.UserID)
	if err != nil {
		return nil, err
	}

	// 3. 驗證座位並寫入票券
	flightIDs, err := s.allocate(ctx, tx, order.ID, tickets)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.publish(ctx, model.OrderEventCreated, order.ID, order.UserID, flightIDs)
	return s.withTickets(ctx, order)
}

// allocate validates requests against the flights' geometry and sold seats
// and inserts them as tickets of orderID. It returns the distinct flight ids.
func (s *OrderServiceImpl) allocate(ctx context.Context, tx pgx.Tx, orderID int, requests []model.TicketRequest) ([]int, error) {
	flightIDs := distinctFlights(requests)

	geometry, err := s.flightRepository.SeatGeometry(ctx, tx, flightIDs)
	if err != nil {
		return nil, err
	}

	sold, err := s.ticketRepository.ListSoldByFlights(ctx, tx, flightIDs, orderID)
	if err != nil {
		return nil, err
	}

	if err := allocation.ValidateBatch(requests, geometry, sold); err != nil {
		return nil, err
	}

	// 唯一索引仍是最終裁決者：並發搶同一座位時，其中一筆會在此得到 ErrConflict
	if _, err := s.ticketRepository.CreateBatch(ctx, tx, orderID, requests); err != nil {
		return nil, err
	}

	return flightIDs, nil
}

func (s *OrderServiceImpl) ListOrders(ctx context.Context, caller model.Caller, q query.Query) (query.Page[*model.Order], error) {
	if !caller.IsAuthenticated() {
		return query.Page[*model.Order]{}, apperrors.ErrUnauthenticated
	}

	scope := caller.UserID
	if caller.IsStaff {
		scope = repository.AllUsers
	}

	orders, total, err := s.repository.List(ctx, q, scope)
	if err != nil {
		return query.Page[*model.Order]{}, err
	}

	if err := s.attachTickets(ctx, orders); err != nil {
		return query.Page[*model.Order]{}, err
	}

	return query.NewPage(orders, total, q), nil
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, caller model.Caller, id int) (*model.Order, error) {
	order, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.withTickets(ctx, order)
}

func (s *OrderServiceImpl) ReplaceTickets(ctx context.Context, caller model.Caller, id int, tickets []model.TicketRequest) (*model.Order, error) {
	if !caller.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}
	if len(tickets) == 0 {
		return nil, allocation.ValidateBatch(nil, nil, nil)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanRead(policy.AuthenticatedOwner, caller, order.UserID) {
		return nil, apperrors.ErrOrderNotFound
	}

	previous, err := s.ticketRepository.ListByOrders(ctx, []int{id})
	if err != nil {
		return nil, err
	}

	if err := s.ticketRepository.DeleteByOrder(ctx, tx, id); err != nil {
		return nil, err
	}

	flightIDs, err := s.allocate(ctx, tx, id, tickets)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.publish(ctx, model.OrderEventUpdated, order.ID, order.UserID, mergeFlights(flightIDs, previous[id]))
	return s.withTickets(ctx, order)
}

func (s *OrderServiceImpl) DeleteOrder(ctx context.Context, caller model.Caller, id int) error {
	order, err := s.findVisible(ctx, caller, id)
	if err != nil {
		return err
	}

	previous, err := s.ticketRepository.ListByOrders(ctx, []int{id})
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.events.publish(ctx, model.OrderEventDeleted, order.ID, order.UserID, mergeFlights(nil, previous[id]))
	return nil
}

// findVisible hides orders of other users behind ErrOrderNotFound.
func (s *OrderServiceImpl) findVisible(ctx context.Context, caller model.Caller, id int) (*model.Order, error) {
	if !caller.IsAuthenticated() {
		return nil, apperrors.ErrUnauthenticated
	}

	order, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanRead(policy.AuthenticatedOwner, caller, order.UserID) {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderServiceImpl) withTickets(ctx context.Context, order *model.Order) (*model.Order, error) {
	if err := s.attachTickets(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderServiceImpl) attachTickets(ctx context.Context, orders []*model.Order) error {
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	grouped, err := s.ticketRepository.ListByOrders(ctx, ids)
	if err != nil {
		return err
	}

	for _, o := range orders {
		o.Tickets = grouped[o.ID]
		if o.Tickets == nil {
			o.Tickets = []*model.Ticket{}
		}
	}
	return nil
}

type eventPublisher struct {
	queue queue.OrderEventQueue
}

// publish 在交易提交後發送事件；失敗只記錄，不影響已提交的訂單
func (p eventPublisher) publish(ctx context.Context, eventType model.OrderEventType, orderID, userID int, flightIDs []int) {
	if p.queue == nil {
		return
	}

	event := &model.OrderEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OrderID:    orderID,
		UserID:     userID,
		FlightIDs:  flightIDs,
		OccurredAt: time.Now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.queue.PublishEvent(pubCtx, event); err != nil {
		logger.WithComponent("service").Error("failed to publish order event",
			zap.String("type", string(eventType)),
			zap.Int("order_id", orderID),
			zap.Error(err),
		)
	}
}

func distinctFlights(requests []model.TicketRequest) []int {
	seen := make(map[int]bool, len(requests))
	ids := make([]int, 0, len(requests))
	for _, r := range requests {
		if !seen[r.FlightID] {
			seen[r.FlightID] = true
			ids = append(ids, r.FlightID)
		}
	}
	return ids
}

func mergeFlights(ids []int, tickets []*model.Ticket) []int {
	seen := make(map[int]bool, len(ids)+len(tickets))
	out := make([]int, 0, len(ids)+len(tickets))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, t := range tickets {
		if !seen[t.FlightID] {
			seen[t.FlightID] = true
			out = append(out, t.FlightID)
		}
	}
	return out
}
