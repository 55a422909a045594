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

var AirportQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "name", Column: "name", Kind: query.String},
		{Param: "closest_big_city", Column: "closest_big_city", Kind: query.String},
	},
	Orderings:    map[string]string{"id": "id", "name": "name", "closest_big_city": "closest_big_city"},
	DefaultOrder: "id ASC",
	TieBreaker:   "id",
}

type AirportRepository interface {
	Create(ctx context.Context, airport *model.Airport) (*model.Airport, error)
	List(ctx context.Context, q query.Query) ([]*model.Airport, int, error)
	FindByID(ctx context.Context, id int) (*model.Airport, error)
	Update(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error)
	Delete(ctx context.Context, id int) error
}

type AirportRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAirportRepository(pool *pgxpool.Pool) AirportRepository {
	return &AirportRepositoryImpl{
		pool: pool,
	}
}

func (r *AirportRepositoryImpl) Create(ctx context.Context, airport *model.Airport) (*model.Airport, error) {
	query := `
		INSERT INTO airports (name, closest_big_city)
		VALUES ($1, $2)
		RETURNING id, name, closest_big_city
	`

	err := r.pool.QueryRow(ctx, query, airport.Name, airport.ClosestBigCity).Scan(
		&airport.ID,
		&airport.Name,
		&airport.ClosestBigCity,
	)
	if err != nil {
		return nil, translateWriteError(err, "airport", "failed to create airport")
	}

	return airport, nil
}

func (r *AirportRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Airport, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool,
		`SELECT id, name, closest_big_city FROM airports`,
		`SELECT COUNT(*) FROM airports`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list airports: %w", err)
	}
	defer rows.Close()

	airports := make([]*model.Airport, 0, q.Limit())
	for rows.Next() {
		var airport model.Airport
		if err := rows.Scan(&airport.ID, &airport.Name, &airport.ClosestBigCity); err != nil {
			return nil, 0, err
		}
		airports = append(airports, &airport)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return airports, total, nil
}

func (r *AirportRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Airport, error) {
	query := `
		SELECT id, name, closest_big_city
		FROM airports
		WHERE id = $1
	`

	var airport model.Airport
	err := r.pool.QueryRow(ctx, query, id).Scan(&airport.ID, &airport.Name, &airport.ClosestBigCity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAirportNotFound
		}
		return nil, err
	}

	return &airport, nil
}

func (r *AirportRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.ClosestBigCity != nil {
		sets = append(sets, fmt.Sprintf("closest_big_city = $%d", argPos))
		args = append(args, *params.ClosestBigCity)
		argPos++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE airports
		SET %s
		WHERE id = $%d
		RETURNING id, name, closest_big_city
	`, strings.Join(sets, ", "), argPos)

	var airport model.Airport
	err := r.pool.QueryRow(ctx, query, args...).Scan(&airport.ID, &airport.Name, &airport.ClosestBigCity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAirportNotFound
		}
		return nil, translateWriteError(err, "airport", "failed to update airport")
	}

	return &airport, nil
}

// Delete removes the airport and, by cascade, its routes.
func (r *AirportRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM airports WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAirportNotFound
	}

	return nil
}
