package repository

import (
	"context"
	"errors"
	"fmt"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var OrderQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "created_date", Column: "o.created_at", Kind: query.Date},
	},
	Orderings:    map[string]string{"id": "o.id", "created_at": "o.created_at"},
	DefaultOrder: "o.created_at DESC",
	TieBreaker:   "o.id DESC",
}

// AllUsers lists orders of every user.
const AllUsers = 0

type OrderRepository interface {
	// List returns one page of orders, limited to userID unless it is AllUsers.
	List(ctx context.Context, q query.Query, userID int) ([]*model.Order, int, error)
	FindByID(ctx context.Context, id int) (*model.Order, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, userID int) (*model.Order, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error)
}

type OrderRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &OrderRepositoryImpl{
		pool: pool,
	}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, userID int) (*model.Order, error) {
	var order model.Order
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id)
		VALUES ($1)
		RETURNING id, user_id, created_at
	`, userID).Scan(&order.ID, &order.UserID, &order.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err, "order", "failed to create order")
	}

	return &order, nil
}

func (r *OrderRepositoryImpl) List(ctx context.Context, q query.Query, userID int) ([]*model.Order, int, error) {
	if userID != AllUsers {
		conditions := make([]query.Condition, 0, len(q.Conditions)+1)
		conditions = append(conditions, q.Conditions...)
		q.Conditions = append(conditions, query.Condition{Column: "o.user_id", Kind: query.Int, Value: userID})
	}

	rows, total, err := countAndQuery(ctx, r.pool,
		`SELECT o.id, o.user_id, o.created_at FROM orders o`,
		`SELECT COUNT(*) FROM orders o`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*model.Order, 0, q.Limit())
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Order, error) {
	var order model.Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Order, error) {
	var order model.Order
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&order.ID, &order.UserID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

// Delete removes the order and, by cascade, its tickets.
func (r *OrderRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	return nil
}
