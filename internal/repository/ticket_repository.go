package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var TicketQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "flight", Column: "tk.flight_id", Kind: query.Int},
		{Param: "order", Column: "tk.order_id", Kind: query.Int},
		{Param: "row", Column: `tk."row"`, Kind: query.Int},
		{Param: "seat", Column: "tk.seat", Kind: query.Int},
	},
	Orderings:    map[string]string{"id": "tk.id", "row": `tk."row"`, "seat": "tk.seat"},
	DefaultOrder: "tk.seat ASC",
	TieBreaker:   "tk.id",
}

const ticketSelect = `
	SELECT tk.id, tk.order_id, tk.flight_id, tk."row", tk.seat, s.name, d.name
	FROM tickets tk
	JOIN flights f ON f.id = tk.flight_id
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
`

type TicketRepository interface {
	List(ctx context.Context, q query.Query) ([]*model.Ticket, int, error)
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	// ListByOrders groups the tickets of the given orders by order id,
	// each group ordered by seat.
	ListByOrders(ctx context.Context, orderIDs []int) (map[int][]*model.Ticket, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	CreateBatch(ctx context.Context, tx pgx.Tx, orderID int, requests []model.TicketRequest) ([]*model.Ticket, error)
	Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateTicketParams) error
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error)
	// ListSoldByFlights returns the sold seats of each flight, leaving out
	// the tickets of excludeOrderID (0 excludes nothing).
	ListSoldByFlights(ctx context.Context, tx pgx.Tx, flightIDs []int, excludeOrderID int) (map[int][]*model.Ticket, error)
	DeleteByOrder(ctx context.Context, tx pgx.Tx, orderID int) error
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var (
		ticket model.Ticket
		route  model.Route
	)
	err := row.Scan(
		&ticket.ID,
		&ticket.OrderID,
		&ticket.FlightID,
		&ticket.Row,
		&ticket.Seat,
		&route.Source,
		&route.Destination,
	)
	if err != nil {
		return nil, err
	}
	ticket.RouteInfo = route.Info()
	return &ticket, nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Ticket, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool, ticketSelect,
		`SELECT COUNT(*) FROM tickets tk`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0, q.Limit())
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE tk.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByOrders(ctx context.Context, orderIDs []int) (map[int][]*model.Ticket, error) {
	grouped := make(map[int][]*model.Ticket, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.pool.Query(ctx,
		ticketSelect+` WHERE tk.order_id = ANY($1) ORDER BY tk.seat, tk.id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list order tickets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		grouped[ticket.OrderID] = append(grouped[ticket.OrderID], ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grouped, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO tickets (order_id, flight_id, "row", seat)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ticket.OrderID, ticket.FlightID, ticket.Row, ticket.Seat).Scan(&ticket.ID)
	if err != nil {
		return nil, translateWriteError(err, "ticket", "failed to create ticket")
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) CreateBatch(ctx context.Context, tx pgx.Tx, orderID int, requests []model.TicketRequest) ([]*model.Ticket, error) {
	tickets := make([]*model.Ticket, 0, len(requests))
	for _, req := range requests {
		ticket, err := r.Create(ctx, tx, &model.Ticket{
			OrderID:  orderID,
			FlightID: req.FlightID,
			Row:      req.Row,
			Seat:     req.Seat,
		})
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateTicketParams) error {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Row != nil {
		sets = append(sets, fmt.Sprintf(`"row" = $%d`, argPos))
		args = append(args, *params.Row)
		argPos++
	}
	if params.Seat != nil {
		sets = append(sets, fmt.Sprintf("seat = $%d", argPos))
		args = append(args, *params.Seat)
		argPos++
	}
	if params.FlightID != nil {
		sets = append(sets, fmt.Sprintf("flight_id = $%d", argPos))
		args = append(args, *params.FlightID)
		argPos++
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)

	sql := fmt.Sprintf(`
		UPDATE tickets
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), argPos)

	result, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return translateWriteError(err, "ticket", "failed to update ticket")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	var ticket model.Ticket
	err := tx.QueryRow(ctx, `
		SELECT id, order_id, flight_id, "row", seat
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&ticket.ID, &ticket.OrderID, &ticket.FlightID, &ticket.Row, &ticket.Seat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return &ticket, nil
}

func (r *TicketRepositoryImpl) ListSoldByFlights(ctx context.Context, tx pgx.Tx, flightIDs []int, excludeOrderID int) (map[int][]*model.Ticket, error) {
	sold := make(map[int][]*model.Ticket, len(flightIDs))
	if len(flightIDs) == 0 {
		return sold, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT id, order_id, flight_id, "row", seat
		FROM tickets
		WHERE flight_id = ANY($1) AND order_id <> $2
	`, flightIDs, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sold seats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ticket model.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.OrderID, &ticket.FlightID, &ticket.Row, &ticket.Seat); err != nil {
			return nil, err
		}
		sold[ticket.FlightID] = append(sold[ticket.FlightID], &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sold, nil
}

func (r *TicketRepositoryImpl) DeleteByOrder(ctx context.Context, tx pgx.Tx, orderID int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM tickets WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete order tickets: %w", err)
	}
	return nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}
