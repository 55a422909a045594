package database_test

import (
	"errors"
	"fmt"
	"testing"

	"go-gin-airport/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	seatErr := fmt.Errorf("failed to create ticket: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: database.TicketSeatConstraint,
	})

	assert.True(t, database.IsUniqueViolation(seatErr, ""))
	assert.True(t, database.IsUniqueViolation(seatErr, database.TicketSeatConstraint))
	assert.False(t, database.IsUniqueViolation(seatErr, "airports_name_key"))
	assert.Equal(t, database.TicketSeatConstraint, database.ConstraintName(seatErr))

	assert.False(t, database.IsUniqueViolation(errors.New("boom"), ""))
	assert.Empty(t, database.ConstraintName(errors.New("boom")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}

	assert.True(t, database.IsForeignKeyViolation(err))
	assert.False(t, database.IsUniqueViolation(err, ""))
	assert.False(t, database.IsCheckViolation(err))
}
