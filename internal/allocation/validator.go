// Package allocation decides whether a requested (row, seat) on a flight may
// become a ticket. The checks are pure; the storage unique index on
// (flight_id, row, seat) remains the final arbiter under concurrent writers.
package allocation

import (
	"fmt"

	"go-gin-airport/internal/model"
	apperrors "go-gin-airport/pkg/app_errors"
)

// ValidateSeat fails with ErrOutOfRange unless 1 <= seat <= seatsInRow.
func ValidateSeat(seat, seatsInRow int) error {
	if seat < 1 || seat > seatsInRow {
		return apperrors.Validation(apperrors.ErrOutOfRange, "seat",
			fmt.Sprintf("seat must be in range between 1 and %d", seatsInRow))
	}
	return nil
}

// ValidateRow fails with ErrOutOfRange unless 1 <= row <= rows.
func ValidateRow(row, rows int) error {
	if row < 1 || row > rows {
		return apperrors.Validation(apperrors.ErrOutOfRange, "row",
			fmt.Sprintf("row must be in range between 1 and %d", rows))
	}
	return nil
}

// ValidateUniqueness fails with ErrSeatTaken when existing already holds a
// ticket for the same flight, row and seat.
func ValidateUniqueness(row, seat, flightID int, existing []*model.Ticket) error {
	for _, t := range existing {
		if t.FlightID == flightID && t.Row == row && t.Seat == seat {
			return apperrors.Validation(apperrors.ErrSeatTaken, "seat",
				fmt.Sprintf("seat %d in row %d is already taken on flight %d", seat, row, flightID))
		}
	}
	return nil
}

type seatKey struct {
	flightID, row, seat int
}

// ValidateBatch checks every request of one order against its flight's
// geometry, the seats already sold, and the other requests of the batch.
// Field names are prefixed with the request index, e.g. "tickets[1].seat".
// The returned error is a *apperrors.ValidationError or nil.
func ValidateBatch(requests []model.TicketRequest, geometry map[int]model.SeatGeometry, sold map[int][]*model.Ticket) error {
	verr := apperrors.NewValidationError(nil)
	if len(requests) == 0 {
		verr.Cause = apperrors.ErrInvalidInput
		verr.Add("tickets", "at least one ticket is required")
		return verr
	}

	seen := make(map[seatKey]int, len(requests))
	for i, req := range requests {
		prefix := fmt.Sprintf("tickets[%d].", i)

		g, ok := geometry[req.FlightID]
		if !ok {
			addPrefixed(verr, prefix, apperrors.Validation(apperrors.ErrFlightNotFound, "flight",
				fmt.Sprintf("flight %d does not exist", req.FlightID)))
			continue
		}

		rangeOK := true
		if err := ValidateSeat(req.Seat, g.SeatsInRow); err != nil {
			addPrefixed(verr, prefix, err)
			rangeOK = false
		}
		if err := ValidateRow(req.Row, g.Rows); err != nil {
			addPrefixed(verr, prefix, err)
			rangeOK = false
		}
		if !rangeOK {
			continue
		}

		if err := ValidateUniqueness(req.Row, req.Seat, req.FlightID, sold[req.FlightID]); err != nil {
			addPrefixed(verr, prefix, err)
			continue
		}

		key := seatKey{req.FlightID, req.Row, req.Seat}
		if first, dup := seen[key]; dup {
			addPrefixed(verr, prefix, apperrors.Validation(apperrors.ErrSeatTaken, "seat",
				fmt.Sprintf("seat is requested twice in this order (also tickets[%d])", first)))
			continue
		}
		seen[key] = i
	}

	return verr.OrNil()
}

func addPrefixed(dst *apperrors.ValidationError, prefix string, err error) {
	v, ok := err.(*apperrors.ValidationError)
	if !ok {
		return
	}
	if dst.Cause == nil {
		dst.Cause = v.Cause
	}
	for field, messages := range v.Fields {
		for _, m := range messages {
			dst.Add(prefix+field, m)
		}
	}
}
