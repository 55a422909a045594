package repository_test

import (
	"context"
	"net/url"
	"testing"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/testutil"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, spec query.Spec, raw string) query.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := query.Parse(spec, values)
	require.NoError(t, err)
	return q
}

func TestAirportRepository_ListFiltersAndPages(t *testing.T) {
	pool := testutil.SetupDB(t)
	repo := repository.NewAirportRepository(pool)
	ctx := context.Background()

	for _, a := range []model.Airport{
		{Name: "Boryspil", ClosestBigCity: "Kyiv"},
		{Name: "Zhuliany", ClosestBigCity: "Kyiv"},
		{Name: "Heathrow", ClosestBigCity: "London"},
		{Name: "Gatwick", ClosestBigCity: "London"},
		{Name: "Stansted", ClosestBigCity: "London"},
		{Name: "Luton", ClosestBigCity: "London"},
	} {
		_, err := repo.Create(ctx, &a)
		require.NoError(t, err)
	}

	t.Run("Filter", func(t *testing.T) {
		airports, total, err := repo.List(ctx, parse(t, repository.AirportQuery, "closest_big_city=Kyiv"))

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, airports, 2)
	})

	t.Run("Ordering and paging", func(t *testing.T) {
		airports, total, err := repo.List(ctx, parse(t, repository.AirportQuery, "closest_big_city=London&ordering=-name&page=1"))

		require.NoError(t, err)
		assert.Equal(t, 4, total)
		require.Len(t, airports, query.PageSize)
		assert.Equal(t, "Stansted", airports[0].Name)

		airports, _, err = repo.List(ctx, parse(t, repository.AirportQuery, "page=2"))
		require.NoError(t, err)
		assert.Len(t, airports, 2)
	})

	t.Run("Out of range page", func(t *testing.T) {
		airports, total, err := repo.List(ctx, parse(t, repository.AirportQuery, "page=9"))

		require.NoError(t, err)
		assert.Equal(t, 6, total)
		assert.Empty(t, airports)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Airport{Name: "Luton", ClosestBigCity: "London"})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	})
}

type fixture struct {
	flightID int
	orderID  int
}

func seed(t *testing.T, pool *pgxpool.Pool) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	err := pool.QueryRow(ctx, `
		WITH src AS (INSERT INTO airports (name, closest_big_city) VALUES ('A', 'a') RETURNING id),
		     dst AS (INSERT INTO airports (name, closest_big_city) VALUES ('B', 'b') RETURNING id),
		     rt  AS (INSERT INTO routes (source_id, destination_id, distance)
		             SELECT src.id, dst.id, 100 FROM src, dst RETURNING id),
		     typ AS (INSERT INTO airplane_types (name) VALUES ('T') RETURNING id),
		     pl  AS (INSERT INTO airplanes (name, "rows", seats_in_row, airplane_type_id)
		             SELECT 'P', 2, 2, typ.id FROM typ RETURNING id)
		INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		SELECT rt.id, pl.id, NOW() + INTERVAL '1 day', NOW() + INTERVAL '1 day 2 hours' FROM rt, pl
		RETURNING id
	`).Scan(&f.flightID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO users (id, username, is_staff) VALUES (1, 'alice', false)`)
	require.NoError(t, err)
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO orders (user_id) VALUES (1) RETURNING id`).Scan(&f.orderID))
	return f
}

func inTx(t *testing.T, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	t.Helper()
	ctx := context.Background()
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func TestTicketRepository_SeatConstraint(t *testing.T) {
	pool := testutil.SetupDB(t)
	f := seed(t, pool)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	err := inTx(t, pool, func(tx pgx.Tx) error {
		_, err := repo.CreateBatch(ctx, tx, f.orderID, []model.TicketRequest{{Row: 1, Seat: 1, FlightID: f.flightID}})
		return err
	})
	require.NoError(t, err)

	err = inTx(t, pool, func(tx pgx.Tx) error {
		_, err := repo.Create(ctx, tx, &model.Ticket{OrderID: f.orderID, FlightID: f.flightID, Row: 1, Seat: 1})
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = inTx(t, pool, func(tx pgx.Tx) error {
		sold, err := repo.ListSoldByFlights(ctx, tx, []int{f.flightID}, 0)
		require.NoError(t, err)
		assert.Len(t, sold[f.flightID], 1)

		sold, err = repo.ListSoldByFlights(ctx, tx, []int{f.flightID}, f.orderID)
		require.NoError(t, err)
		assert.Empty(t, sold[f.flightID])
		return nil
	})
	require.NoError(t, err)
}

func TestFlightRepository_SeatGeometry(t *testing.T) {
	pool := testutil.SetupDB(t)
	f := seed(t, pool)
	repo := repository.NewFlightRepository(pool)
	ctx := context.Background()

	err := inTx(t, pool, func(tx pgx.Tx) error {
		geometry, err := repo.SeatGeometry(ctx, tx, []int{f.flightID, 999})
		require.NoError(t, err)
		assert.Equal(t, model.SeatGeometry{FlightID: f.flightID, Rows: 2, SeatsInRow: 2}, geometry[f.flightID])
		assert.NotContains(t, geometry, 999)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderRepository_DeleteCascadesTickets(t *testing.T) {
	pool := testutil.SetupDB(t)
	f := seed(t, pool)
	orders := repository.NewOrderRepository(pool)
	tickets := repository.NewTicketRepository(pool)
	ctx := context.Background()

	require.NoError(t, inTx(t, pool, func(tx pgx.Tx) error {
		_, err := tickets.CreateBatch(ctx, tx, f.orderID, []model.TicketRequest{
			{Row: 1, Seat: 1, FlightID: f.flightID},
			{Row: 2, Seat: 2, FlightID: f.flightID},
		})
		return err
	}))

	require.NoError(t, orders.Delete(ctx, f.orderID))

	grouped, err := tickets.ListByOrders(ctx, []int{f.orderID})
	require.NoError(t, err)
	assert.Empty(t, grouped[f.orderID])

	_, err = orders.FindByID(ctx, f.orderID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}
