package repository

import (
	"context"
	"fmt"

	"go-gin-airport/internal/database"
	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
)

// pagedSQL appends the filter, ordering and page window of q to selectSQL
// and builds the matching count query from countSQL.
func pagedSQL(selectSQL, countSQL string, q query.Query) (string, string, []any) {
	where, args := q.Where(1)
	list := fmt.Sprintf("%s %s %s LIMIT $%d OFFSET $%d",
		selectSQL, where, q.OrderClause(), len(args)+1, len(args)+2)
	count := fmt.Sprintf("%s %s", countSQL, where)
	return list, count, args
}

// countAndQuery runs the count query and the page query of one list request.
func countAndQuery(ctx context.Context, db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, selectSQL, countSQL string, q query.Query) (pgx.Rows, int, error) {
	list, count, args := pagedSQL(selectSQL, countSQL, q)

	var total int
	if err := db.QueryRow(ctx, count, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := db.Query(ctx, list, append(args, q.Limit(), q.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// translateWriteError maps constraint violations to domain errors. entity
// names the row kind for duplicate-name messages.
func translateWriteError(err error, entity, op string) error {
	switch {
	case database.IsUniqueViolation(err, database.TicketSeatConstraint):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	case database.IsUniqueViolation(err, ""):
		return apperrors.Validation(apperrors.ErrDuplicateName, "name",
			fmt.Sprintf("%s with this name already exists", entity))
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: referenced %s does not exist: %w", op, database.ConstraintName(err), apperrors.ErrInvalidInput)
	case database.IsCheckViolation(err):
		return fmt.Errorf("%s: %w", op, apperrors.ErrOutOfRange)
	}
	return fmt.Errorf("%s: %w", op, err)
}
