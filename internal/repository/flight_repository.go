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

var FlightQuery = query.Spec{
	Filters: []query.Filter{
		{Param: "route", Column: "f.route_id", Kind: query.Int},
		{Param: "airplane", Column: "f.airplane_id", Kind: query.Int},
		{Param: "source", Column: "r.source_id", Kind: query.Int},
		{Param: "destination", Column: "r.destination_id", Kind: query.Int},
		{Param: "departure_date", Column: "f.departure_time", Kind: query.Date},
		{Param: "arrival_date", Column: "f.arrival_time", Kind: query.Date},
	},
	Orderings: map[string]string{
		"id":             "f.id",
		"departure_time": "f.departure_time",
		"arrival_time":   "f.arrival_time",
	},
	DefaultOrder: "f.id ASC",
	TieBreaker:   "f.id",
}

const flightSelect = `
	SELECT f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time,
	       r.source_id, r.destination_id, r.distance, s.name, d.name,
	       a.name, a."rows", a.seats_in_row, a.airplane_type_id, t.name,
	       (SELECT COUNT(*) FROM tickets tk WHERE tk.flight_id = f.id)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id
	JOIN airplane_types t ON t.id = a.airplane_type_id
`

const flightCount = `
	SELECT COUNT(*)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
`

type FlightRepository interface {
	List(ctx context.Context, q query.Query) ([]*model.Flight, int, error)
	FindByID(ctx context.Context, id int) (*model.Flight, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, flight *model.Flight) (*model.Flight, error)
	Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateFlightParams) error
	// SeatGeometry locks the given flights against concurrent changes and
	// returns the seat layout of the airplane each one uses. Unknown ids are
	// absent from the result.
	SeatGeometry(ctx context.Context, tx pgx.Tx, flightIDs []int) (map[int]model.SeatGeometry, error)
}

type FlightRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewFlightRepository(pool *pgxpool.Pool) FlightRepository {
	return &FlightRepositoryImpl{
		pool: pool,
	}
}

func scanFlight(row pgx.Row) (*model.Flight, error) {
	f := model.Flight{
		Route:    &model.Route{},
		Airplane: &model.Airplane{AirplaneType: &model.AirplaneType{}},
	}
	err := row.Scan(
		&f.ID,
		&f.RouteID,
		&f.AirplaneID,
		&f.DepartureTime,
		&f.ArrivalTime,
		&f.Route.SourceID,
		&f.Route.DestinationID,
		&f.Route.Distance,
		&f.Route.Source,
		&f.Route.Destination,
		&f.Airplane.Name,
		&f.Airplane.Rows,
		&f.Airplane.SeatsInRow,
		&f.Airplane.AirplaneTypeID,
		&f.Airplane.AirplaneType.Name,
		&f.TicketsSold,
	)
	if err != nil {
		return nil, err
	}
	f.Route.ID = f.RouteID
	f.Airplane.ID = f.AirplaneID
	f.Airplane.AirplaneType.ID = f.Airplane.AirplaneTypeID
	return &f, nil
}

func (r *FlightRepositoryImpl) List(ctx context.Context, q query.Query) ([]*model.Flight, int, error) {
	rows, total, err := countAndQuery(ctx, r.pool, flightSelect, flightCount, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]*model.Flight, 0, q.Limit())
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, 0, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachCrew(ctx, flights); err != nil {
		return nil, 0, err
	}

	return flights, total, nil
}

func (r *FlightRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Flight, error) {
	f, err := scanFlight(r.pool.QueryRow(ctx, flightSelect+` WHERE f.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, err
	}

	if err := r.attachCrew(ctx, []*model.Flight{f}); err != nil {
		return nil, err
	}

	return f, nil
}

// attachCrew loads the crew of every flight in one query.
func (r *FlightRepositoryImpl) attachCrew(ctx context.Context, flights []*model.Flight) error {
	if len(flights) == 0 {
		return nil
	}

	byID := make(map[int]*model.Flight, len(flights))
	ids := make([]int, 0, len(flights))
	for _, f := range flights {
		byID[f.ID] = f
		ids = append(ids, f.ID)
		f.Crew = []*model.Crew{}
		f.CrewIDs = []int{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT fc.flight_id, c.id, c.first_name, c.last_name
		FROM flight_crew fc
		JOIN crew c ON c.id = fc.crew_id
		WHERE fc.flight_id = ANY($1)
		ORDER BY c.id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load flight crew: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var flightID int
		var crew model.Crew
		if err := rows.Scan(&flightID, &crew.ID, &crew.FirstName, &crew.LastName); err != nil {
			return err
		}
		f := byID[flightID]
		f.Crew = append(f.Crew, &crew)
		f.CrewIDs = append(f.CrewIDs, crew.ID)
	}

	return rows.Err()
}

func (r *FlightRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, flight *model.Flight) (*model.Flight, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, flight.RouteID, flight.AirplaneID, flight.DepartureTime, flight.ArrivalTime).Scan(&flight.ID)
	if err != nil {
		return nil, translateWriteError(err, "flight", "failed to create flight")
	}

	if err := setCrew(ctx, tx, flight.ID, flight.CrewIDs); err != nil {
		return nil, err
	}

	return flight, nil
}

func (r *FlightRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateFlightParams) error {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.RouteID != nil {
		sets = append(sets, fmt.Sprintf("route_id = $%d", argPos))
		args = append(args, *params.RouteID)
		argPos++
	}
	if params.AirplaneID != nil {
		sets = append(sets, fmt.Sprintf("airplane_id = $%d", argPos))
		args = append(args, *params.AirplaneID)
		argPos++
	}
	if params.DepartureTime != nil {
		sets = append(sets, fmt.Sprintf("departure_time = $%d", argPos))
		args = append(args, *params.DepartureTime)
		argPos++
	}
	if params.ArrivalTime != nil {
		sets = append(sets, fmt.Sprintf("arrival_time = $%d", argPos))
		args = append(args, *params.ArrivalTime)
		argPos++
	}

	if len(sets) > 0 {
		args = append(args, id)
		sql := fmt.Sprintf(`
			UPDATE flights
			SET %s
			WHERE id = $%d
		`, strings.Join(sets, ", "), argPos)

		result, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return translateWriteError(err, "flight", "failed to update flight")
		}
		if result.RowsAffected() == 0 {
			return apperrors.ErrFlightNotFound
		}
	}

	if params.CrewIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear flight crew: %w", err)
		}
		if err := setCrew(ctx, tx, id, *params.CrewIDs); err != nil {
			return err
		}
	}

	return nil
}

func setCrew(ctx context.Context, tx pgx.Tx, flightID int, crewIDs []int) error {
	if len(crewIDs) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO flight_crew (flight_id, crew_id)
		SELECT $1, UNNEST($2::int[])
		ON CONFLICT DO NOTHING
	`, flightID, crewIDs)
	if err != nil {
		return translateWriteError(err, "crew", "failed to assign crew")
	}
	return nil
}

func (r *FlightRepositoryImpl) SeatGeometry(ctx context.Context, tx pgx.Tx, flightIDs []int) (map[int]model.SeatGeometry, error) {
	rows, err := tx.Query(ctx, `
		SELECT f.id, a."rows", a.seats_in_row
		FROM flights f
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id = ANY($1)
		FOR SHARE
	`, flightIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat geometry: %w", err)
	}
	defer rows.Close()

	geometry := make(map[int]model.SeatGeometry, len(flightIDs))
	for rows.Next() {
		var g model.SeatGeometry
		if err := rows.Scan(&g.FlightID, &g.Rows, &g.SeatsInRow); err != nil {
			return nil, err
		}
		geometry[g.FlightID] = g
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return geometry, nil
}

// Delete removes the flight and, by cascade, its tickets and crew links.
func (r *FlightRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrFlightNotFound
	}

	return nil
}
