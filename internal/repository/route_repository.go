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

var RouteQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "source", Column: "r.source_id", Kind: query.Int},
		{Param: "destination", Column: "r.destination_id", Kind: query.Int},
		{Param: "distance", Column: "r.distance", Kind: query.Int},
	},
	Orderings:    map[string]string{"id": "r.id", "distance": "r.distance"},
	DefaultOrder: "r.id ASC",
	TieBreaker:   "r.id",
}

const routeSelect = `
	SELECT r.id, r.source_id, r.destination_id, r.distance, s.name, d.name
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
`

type RouteRepository interface {
	Create(ctx context.Context, route *model.Route) (*model.Route, error)
	List(ctx context.Context, q query.Query) ([]*model.Route, int, error)
	FindByID(ctx context.Context, id int) (*model.Route, error)
	Update(ctx context.Context, id int, params model.UpdateRouteParams) (*model.Route, error)
	Delete(ctx context.Context, id int) error
}

type RouteRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRouteRepository(pool *pgxpool.Pool) RouteRepository {
	return &RouteRepositoryImpl{
		pool: pool,
	}
}

func scanRoute(row pgx.Row) (*model.Route, error) {
	var route model.Route
	err := row.Scan(
		&route.ID,
		&route.SourceID,
		&route.DestinationID,
		&route.Distance,
		&route.Source,
		&route.Destination,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepositoryImpl) Create(ctx context.Context, route *model.Route) (*model.Route, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO routes (source_id, destination_id, distance)
		VALUES ($1, $2, $3)
		RETURNING id
	`, route.SourceID, route.DestinationID, route.Distance).Scan(&id)
	if err != nil {
		return nil, translateWriteError(err, "route", "failed to create route")
	}

	return r.FindByID(ctx, id)
}

func (r *RouteRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Route, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool, routeSelect,
		`SELECT COUNT(*) FROM routes r`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	routes := make([]*model.Route, 0, q.Limit())
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, 0, err
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return routes, total, nil
}

func (r *RouteRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Route, error) {
	route, err := scanRoute(r.pool.QueryRow(ctx, routeSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRouteNotFound
		}
		return nil, err
	}

	return route, nil
}

func (r *RouteRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateRouteParams) (*model.Route, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.SourceID != nil {
		sets = append(sets, fmt.Sprintf("source_id = $%d", argPos))
		args = append(args, *params.SourceID)
		argPos++
	}
	if params.DestinationID != nil {
		sets = append(sets, fmt.Sprintf("destination_id = $%d", argPos))
		args = append(args, *params.DestinationID)
		argPos++
	}
	if params.Distance != nil {
		sets = append(sets, fmt.Sprintf("distance = $%d", argPos))
		args = append(args, *params.Distance)
		argPos++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)

	sql := fmt.Sprintf(`
		UPDATE routes
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), argPos)

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, translateWriteError(err, "route", "failed to update route")
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrRouteNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes the route and, by cascade, its flights.
func (r *RouteRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRouteNotFound
	}

	return nil
}
