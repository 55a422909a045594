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

var AirplaneTypeQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "name", Column: "name", Kind: query.String},
	},
	Orderings:    map[string]string{"id": "id", "name": "name"},
	DefaultOrder: "id ASC",
	TieBreaker:   "id",
}

type AirplaneTypeRepository interface {
	Create(ctx context.Context, airplaneType *model.AirplaneType) (*model.AirplaneType, error)
	List(ctx context.Context, q query.Query) ([]*model.AirplaneType, int, error)
	FindByID(ctx context.Context, id int) (*model.AirplaneType, error)
	Update(ctx context.Context, id int, name string) (*model.AirplaneType, error)
	Delete(ctx context.Context, id int) error
}

type AirplaneTypeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAirplaneTypeRepository(pool *pgxpool.Pool) AirplaneTypeRepository {
	return &AirplaneTypeRepositoryImpl{
		pool: pool,
	}
}

func (r *AirplaneTypeRepositoryImpl) Create(ctx context.Context, airplaneType *model.AirplaneType) (*model.AirplaneType, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO airplane_types (name) VALUES ($1) RETURNING id, name`,
		airplaneType.Name,
	).Scan(&airplaneType.ID, &airplaneType.Name)
	if err != nil {
		return nil, translateWriteError(err, "airplane type", "failed to create airplane type")
	}

	return airplaneType, nil
}

func (r *AirplaneTypeRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.AirplaneType, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool,
		`SELECT id, name FROM airplane_types`,
		`SELECT COUNT(*) FROM airplane_types`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list airplane types: %w", err)
	}
	defer rows.Close()

	types := make([]*model.AirplaneType, 0, q.Limit())
	for rows.Next() {
		var t model.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, 0, err
		}
		types = append(types, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return types, total, nil
}

func (r *AirplaneTypeRepositoryImpl) FindByID(ctx context.Context, id int) (*model.AirplaneType, error) {
	var t model.AirplaneType
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM airplane_types WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAirplaneTypeNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *AirplaneTypeRepositoryImpl) Update(ctx context.Context, id int, name string) (*model.AirplaneType, error) {
	var t model.AirplaneType
	err := r.pool.QueryRow(ctx,
		`UPDATE airplane_types SET name = $1 WHERE id = $2 RETURNING id, name`,
		name, id,
	).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAirplaneTypeNotFound
		}
		return nil, translateWriteError(err, "airplane type", "failed to update airplane type")
	}

	return &t, nil
}

// Delete removes the type and, by cascade, its airplanes.
func (r *AirplaneTypeRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM airplane_types WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAirplaneTypeNotFound
	}

	return nil
}
