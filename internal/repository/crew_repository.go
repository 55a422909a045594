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

var CrewQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "first_name", Column: "first_name", Kind: query.String},
		{Param: "last_name", Column: "last_name", Kind: query.String},
	},
	Orderings:    map[string]string{"id": "id", "first_name": "first_name", "last_name": "last_name"},
	DefaultOrder: "id ASC",
	TieBreaker:   "id",
}

type CrewRepository interface {
	Create(ctx context.Context, crew *model.Crew) (*model.Crew, error)
	List(ctx context.Context, q query.Query) ([]*model.Crew, int, error)
	FindByID(ctx context.Context, id int) (*model.Crew, error)
	FindByIDs(ctx context.Context, ids []int) ([]*model.Crew, error)
	// ExistsByName reports whether another crew member (id != excludeID) has
	// exactly this first and last name.
	ExistsByName(ctx context.Context, firstName, lastName string, excludeID int) (bool, error)
	Update(ctx context.Context, id int, params model.UpdateCrewParams) (*model.Crew, error)
	Delete(ctx context.Context, id int) error
}

type CrewRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCrewRepository(pool *pgxpool.Pool) CrewRepository {
	return &CrewRepositoryImpl{
		pool: pool,
	}
}

func (r *CrewRepositoryImpl) Create(ctx context.Context, crew *model.Crew) (*model.Crew, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO crew (first_name, last_name)
		VALUES ($1, $2)
		RETURNING id, first_name, last_name
	`, crew.FirstName, crew.LastName).Scan(&crew.ID, &crew.FirstName, &crew.LastName)
	if err != nil {
		return nil, translateWriteError(err, "crew", "failed to create crew")
	}

	return crew, nil
}

func (r *CrewRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Crew, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool,
		`SELECT id, first_name, last_name FROM crew`,
		`SELECT COUNT(*) FROM crew`, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list crew: %w", err)
	}
	defer rows.Close()

	members, err := scanCrewRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *CrewRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Crew, error) {
	var crew model.Crew
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name FROM crew WHERE id = $1`, id,
	).Scan(&crew.ID, &crew.FirstName, &crew.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCrewNotFound
		}
		return nil, err
	}

	return &crew, nil
}

func (r *CrewRepositoryImpl) FindByIDs(ctx context.Context, ids []int) ([]*model.Crew, error) {
	if len(ids) == 0 {
		return []*model.Crew{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name FROM crew WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find crew: %w", err)
	}
	defer rows.Close()

	return scanCrewRows(rows)
}

func (r *CrewRepositoryImpl) ExistsByName(ctx context.Context, firstName, lastName string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM crew
			WHERE first_name = $1 AND last_name = $2 AND id <> $3
		)
	`, firstName, lastName, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check crew name: %w", err)
	}
	return exists, nil
}

func (r *CrewRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateCrewParams) (*model.Crew, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", argPos))
		args = append(args, *params.FirstName)
		argPos++
	}
	if params.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", argPos))
		args = append(args, *params.LastName)
		argPos++
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)

	sql := fmt.Sprintf(`
		UPDATE crew
		SET %s
		WHERE id = $%d
		RETURNING id, first_name, last_name
	`, strings.Join(sets, ", "), argPos)

	var crew model.Crew
	err := r.pool.QueryRow(ctx, sql, args...).Scan(&crew.ID, &crew.FirstName, &crew.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCrewNotFound
		}
		return nil, translateWriteError(err, "crew", "failed to update crew")
	}

	return &crew, nil
}

func (r *CrewRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM crew WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCrewNotFound
	}

	return nil
}

func scanCrewRows(rows pgx.Rows) ([]*model.Crew, error) {
	members := make([]*model.Crew, 0)
	for rows.Next() {
		var crew model.Crew
		if err := rows.Scan(&crew.ID, &crew.FirstName, &crew.LastName); err != nil {
			return nil, err
		}
		members = append(members, &crew)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
