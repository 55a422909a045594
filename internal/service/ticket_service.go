package service

import (
	"context"
	"errors"
	"fmt"

	"go-gin-airport/internal/allocation"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/queue"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
)

// TicketService is the staff-only maintenance surface for tickets. Seat
// rules are the same as for orders.
type TicketService interface {
	CreateTicket(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	ListTickets(ctx context.Context, q query.Query) (query.Page[*model.Ticket], error)
	GetTicketByID(ctx context.Context, id int) (*model.Ticket, error)
	UpdateTicket(ctx context.Context, id int, params model.UpdateTicketParams) (*model.Ticket, error)
	DeleteTicket(ctx context.Context, id int) error
}

type TicketServiceImpl struct {
	pool             TxBeginner
	repository       repository.TicketRepository
	flightRepository repository.FlightRepository
	orderRepository  repository.OrderRepository
	events           eventPublisher
}

func NewTicketService(
	pool TxBeginner,
	ticketRepository repository.TicketRepository,
	flightRepository repository.FlightRepository,
	orderRepository repository.OrderRepository,
	eventQueue queue.OrderEventQueue,
) TicketService {
	return &TicketServiceImpl{
		pool:             pool,
		repository:       ticketRepository,
		flightRepository: flightRepository,
		orderRepository:  orderRepository,
		events:           eventPublisher{queue: eventQueue},
	}
}

// validateSeat checks one ticket against its flight. ignoreID excludes the
// ticket itself from the sold set when updating.
func (s *TicketServiceImpl) validateSeat(ctx context.Context, tx pgx.Tx, ticket *model.Ticket, ignoreID int) error {
	geometry, err := s.flightRepository.SeatGeometry(ctx, tx, []int{ticket.FlightID})
	if err != nil {
		return err
	}
	g, ok := geometry[ticket.FlightID]
	if !ok {
		return apperrors.Validation(apperrors.ErrFlightNotFound, "flight",
			fmt.Sprintf("flight %d does not exist", ticket.FlightID))
	}

	sold, err := s.repository.ListSoldByFlights(ctx, tx, []int{ticket.FlightID}, 0)
	if err != nil {
		return err
	}
	others := make([]*model.Ticket, 0, len(sold[ticket.FlightID]))
	for _, t := range sold[ticket.FlightID] {
		if t.ID != ignoreID {
			others = append(others, t)
		}
	}

	return collectValidation(
		allocation.ValidateRow(ticket.Row, g.Rows),
		allocation.ValidateSeat(ticket.Seat, g.SeatsInRow),
		allocation.ValidateUniqueness(ticket.Row, ticket.Seat, ticket.FlightID, others),
	)
}

func (s *TicketServiceImpl) checkOrder(ctx context.Context, orderID int) (*model.Order, error) {
	order, err := s.orderRepository.FindByID(ctx, orderID)
	if errors.Is(err, apperrors.ErrOrderNotFound) {
		return nil, apperrors.Validation(apperrors.ErrInvalidInput, "order",
			fmt.Sprintf("order %d does not exist", orderID))
	}
	return order, err
}

func (s *TicketServiceImpl) CreateTicket(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	order, err := s.checkOrder(ctx, ticket.OrderID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.validateSeat(ctx, tx, ticket, 0); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, tx, ticket)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.publish(ctx, model.OrderEventUpdated, order.ID, order.UserID, []int{created.FlightID})
	return s.repository.FindByID(ctx, created.ID)
}

func (s *TicketServiceImpl) ListTickets(ctx context.Context, q query.Query) (query.Page[*model.Ticket], error) {
	tickets, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.Ticket]{}, err
	}
	return query.NewPage(tickets, total, q), nil
}

func (s *TicketServiceImpl) GetTicketByID(ctx context.Context, id int) (*model.Ticket, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, id int, params model.UpdateTicketParams) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepository.FindByID(ctx, current.OrderID)
	if err != nil {
		return nil, err
	}

	next := *current
	if params.Row != nil {
		next.Row = *params.Row
	}
	if params.Seat != nil {
		next.Seat = *params.Seat
	}
	if params.FlightID != nil {
		next.FlightID = *params.FlightID
	}

	if err := s.validateSeat(ctx, tx, &next, id); err != nil {
		return nil, err
	}

	if err := s.repository.Update(ctx, tx, id, params); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.events.publish(ctx, model.OrderEventUpdated, order.ID, order.UserID,
		mergeFlights([]int{current.FlightID}, []*model.Ticket{&next}))
	return s.repository.FindByID(ctx, id)
}

func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, id int) error {
	ticket, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 事件需要訂單擁有者
	order, err := s.orderRepository.FindByID(ctx, ticket.OrderID)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.events.publish(ctx, model.OrderEventUpdated, order.ID, order.UserID, []int{ticket.FlightID})
	return nil
}
