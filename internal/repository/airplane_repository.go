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

var AirplaneQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "name", Column: "a.name", Kind: query.String},
		{Param: "airplane_type", Column: "a.airplane_type_id", Kind: query.Int},
	},
	Orderings: map[string]string{
		"id":           "a.id",
		"name":         "a.name",
		"rows":         `a."rows"`,
		"seats_in_row": "a.seats_in_row",
	},
	DefaultOrder: "a.id ASC",
	TieBreaker:   "a.id",
}

const airplaneSelect = `
	SELECT a.id, a.name, a."rows", a.seats_in_row, a.airplane_type_id, t.name
	FROM airplanes a
	JOIN airplane_types t ON t.id = a.airplane_type_id
`

type AirplaneRepository interface {
	Create(ctx context.Context, airplane *model.Airplane) (*model.Airplane, error)
	List(ctx context.Context, q query.Query) ([]*model.Airplane, int, error)
	FindByID(ctx context.Context, id int) (*model.Airplane, error)
	Update(ctx context.Context, id int, params model.UpdateAirplaneParams) (*model.Airplane, error)
	Delete(ctx context.Context, id int) error
}

type AirplaneRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAirplaneRepository(pool *pgxpool.Pool) AirplaneRepository {
	return &AirplaneRepositoryImpl{
		pool: pool,
	}
}

func scanAirplane(row pgx.Row) (*model.Airplane, error) {
	airplane := model.Airplane{AirplaneType: &model.AirplaneType{}}
	err := row.Scan(
		&airplane.ID,
		&airplane.Name,
		&airplane.Rows,
		&airplane.SeatsInRow,
		&airplane.AirplaneTypeID,
		&airplane.AirplaneType.Name,
	)
	if err != nil {
		return nil, err
	}
	airplane.AirplaneType.ID = airplane.AirplaneTypeID
	return &airplane, nil
}

func (r *AirplaneRepositoryImpl) Create(ctx context.Context, airplane *model.Airplane) (*model.Airplane, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO airplanes (name, "rows", seats_in_row, airplane_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.AirplaneTypeID).Scan(&id)
	if err != nil {
		return nil, translateWriteError(err, "airplane", "failed to create airplane")
	}

	return r.FindByID(ctx, id)
}

func (r *AirplaneRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Airplane, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool, airplaneSelect,
		`SELECT COUNT(*) FROM airplanes a`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list airplanes: %w", err)
	}
	defer rows.Close()

	airplanes := make([]*model.Airplane, 0, q.Limit())
	for rows.Next() {
		airplane, err := scanAirplane(rows)
		if err != nil {
			return nil, 0, err
		}
		airplanes = append(airplanes, airplane)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return airplanes, total, nil
}

func (r *AirplaneRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Airplane, error) {
	airplane, err := scanAirplane(r.pool.QueryRow(ctx, airplaneSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAirplaneNotFound
		}
		return nil, err
	}

	return airplane, nil
}

func (r *AirplaneRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateAirplaneParams) (*model.Airplane, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.Rows != nil {
		sets = append(sets, fmt.Sprintf(`"rows" = $%d`, argPos))
		args = append(args, *params.Rows)
		argPos++
	}
	if params.SeatsInRow != nil {
		sets = append(sets, fmt.Sprintf("seats_in_row = $%d", argPos))
		args = append(args, *params.SeatsInRow)
		argPos++
	}
	if params.AirplaneTypeID != nil {
		sets = append(sets, fmt.Sprintf("airplane_type_id = $%d", argPos))
		args = append(args, *params.AirplaneTypeID)
		argPos++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)

	sql := fmt.Sprintf(`
		UPDATE airplanes
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), argPos)

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, translateWriteError(err, "airplane", "failed to update airplane")
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrAirplaneNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes the airplane and, by cascade, its flights.
func (r *AirplaneRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM airplanes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAirplaneNotFound
	}

	return nil
}
