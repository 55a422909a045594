package service

import (
	"context"
	"errors"

	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// collectValidation merges the field errors of every validation failure in
// errs. Any other non-nil error is returned as is.
func collectValidation(errs ...error) error {
	verr := apperrors.NewValidationError(nil)
	for _, err := range errs {
		if err == nil {
			continue
		}
		var v *apperrors.ValidationError
		if !errors.As(err, &v) {
			return err
		}
		verr.Merge(v)
	}
	return verr.OrNil()
}

// asField reports a missing referenced row as a validation failure on field.
func asField(err error, notFound error, field, message string) error {
	if errors.Is(err, notFound) {
		return apperrors.Validation(apperrors.ErrInvalidInput, field, message)
	}
	return err
}
