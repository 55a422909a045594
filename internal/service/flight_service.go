package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-airport/internal/cache"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"
	"go-gin-airport/pkg/logger"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FlightService interface {
	CreateFlight(ctx context.Context, flight *model.Flight) (*model.Flight, error)
	ListFlights(ctx context.Context, q query.Query) (query.Page[model.FlightResponse], error)
	GetFlightByID(ctx context.Context, id int) (*model.Flight, error)
	UpdateFlight(ctx context.Context, id int, params model.UpdateFlightParams) (*model.Flight, error)
	DeleteFlight(ctx context.Context, id int) error
	// InvalidateListCache drops cached flight lists, e.g. after tickets change.
	InvalidateListCache(ctx context.Context) error
}

type FlightServiceImpl struct {
	pool               TxBeginner
	repository         repository.FlightRepository
	routeRepository    repository.RouteRepository
	airplaneRepository repository.AirplaneRepository
	crewRepository     repository.CrewRepository
	listCache          cache.FlightListCache
	now                func() time.Time
}

// NewFlightService builds the flight service. listCache may be nil to
// disable caching; now defaults to time.Now.
func NewFlightService(
	pool TxBeginner,
	flightRepository repository.FlightRepository,
	routeRepository repository.RouteRepository,
	airplaneRepository repository.AirplaneRepository,
	crewRepository repository.CrewRepository,
	listCache cache.FlightListCache,
	now func() time.Time,
) FlightService {
	if now == nil {
		now = time.Now
	}
	return &FlightServiceImpl{
		pool:               pool,
		repository:         flightRepository,
		routeRepository:    routeRepository,
		airplaneRepository: airplaneRepository,
		crewRepository:     crewRepository,
		listCache:          listCache,
		now:                now,
	}
}

// ValidateSchedule reports every violated schedule rule at once. The
// "not in the past" rule applies only when checkPast is set (creation).
func ValidateSchedule(departure, arrival, now time.Time, checkPast bool) error {
	verr := apperrors.NewValidationError(apperrors.ErrInvalidSchedule)
	if !departure.Before(arrival) {
		verr.Add("arrival_time", "departure time cannot be greater than arrival time")
	}
	if checkPast && departure.Before(now) {
		verr.Add("departure_time", "departure time cannot be in the past")
	}
	return verr.OrNil()
}

// checkReferences verifies the route, airplane and crew members exist.
// Zero ids and a nil crew list are not checked.
func (s *FlightServiceImpl) checkReferences(ctx context.Context, routeID, airplaneID int, crewIDs []int) error {
	verr := apperrors.NewValidationError(apperrors.ErrInvalidInput)

	if routeID != 0 {
		_, err := s.routeRepository.FindByID(ctx, routeID)
		switch {
		case errors.Is(err, apperrors.ErrRouteNotFound):
			verr.Add("route", fmt.Sprintf("route %d does not exist", routeID))
		case err != nil:
			return err
		}
	}

	if airplaneID != 0 {
		_, err := s.airplaneRepository.FindByID(ctx, airplaneID)
		switch {
		case errors.Is(err, apperrors.ErrAirplaneNotFound):
			verr.Add("airplane", fmt.Sprintf("airplane %d does not exist", airplaneID))
		case err != nil:
			return err
		}
	}

	if len(crewIDs) > 0 {
		found, err := s.crewRepository.FindByIDs(ctx, crewIDs)
		if err != nil {
			return err
		}
		known := make(map[int]bool, len(found))
		for _, c := range found {
			known[c.ID] = true
		}
		for _, id := range crewIDs {
			if !known[id] {
				verr.Add("crew", fmt.Sprintf("crew member %d does not exist", id))
			}
		}
	}

	return verr.OrNil()
}

func (s *FlightServiceImpl) CreateFlight(ctx context.Context, flight *model.Flight) (*model.Flight, error) {
	if err := collectValidation(
		ValidateSchedule(flight.DepartureTime, flight.ArrivalTime, s.now(), true),
		s.checkReferences(ctx, flight.RouteID, flight.AirplaneID, flight.CrewIDs),
	); err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := s.repository.Create(ctx, tx, flight)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repository.FindByID(ctx, created.ID)
}

// ListFlights serves flight pages from the list cache when possible. Cache
// failures only cost a database read.
func (s *FlightServiceImpl) ListFlights(ctx context.Context, q query.Query) (query.Page[model.FlightResponse], error) {
	log := logger.WithComponent("service").With(zap.String("operation", "ListFlights"))
	key := q.CacheKey()

	if s.listCache != nil {
		page, ok, err := s.listCache.Get(ctx, key)
		if err != nil {
			log.Warn("flight list cache read failed", zap.Error(err))
		} else if ok {
			return *page, nil
		}
	}

	flights, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[model.FlightResponse]{}, err
	}

	page := query.Map(query.NewPage(flights, total, q), func(f *model.Flight) model.FlightResponse {
		return f.ToResponse()
	})

	if s.listCache != nil {
		if err := s.listCache.Set(ctx, key, page); err != nil {
			log.Warn("flight list cache write failed", zap.Error(err))
		}
	}

	return page, nil
}

func (s *FlightServiceImpl) GetFlightByID(ctx context.Context, id int) (*model.Flight, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *FlightServiceImpl) UpdateFlight(ctx context.Context, id int, params model.UpdateFlightParams) (*model.Flight, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	departure, arrival := current.DepartureTime, current.ArrivalTime
	if params.DepartureTime != nil {
		departure = *params.DepartureTime
	}
	if params.ArrivalTime != nil {
		arrival = *params.ArrivalTime
	}

	var routeID, airplaneID int
	var crewIDs []int
	if params.RouteID != nil {
		routeID = *params.RouteID
	}
	if params.AirplaneID != nil {
		airplaneID = *params.AirplaneID
	}
	if params.CrewIDs != nil {
		crewIDs = *params.CrewIDs
	}

	if err := collectValidation(
		ValidateSchedule(departure, arrival, s.now(), false),
		s.checkReferences(ctx, routeID, airplaneID, crewIDs),
	); err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repository.Update(ctx, tx, id, params); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repository.FindByID(ctx, id)
}

func (s *FlightServiceImpl) DeleteFlight(ctx context.Context, id int) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightServiceImpl) InvalidateListCache(ctx context.Context) error {
	if s.listCache == nil {
		return nil
	}
	return s.listCache.Invalidate(ctx)
}

func (s *FlightServiceImpl) invalidate(ctx context.Context) {
	if err := s.InvalidateListCache(ctx); err != nil {
		logger.WithComponent("service").Warn("flight list cache invalidation failed", zap.Error(err))
	}
}
