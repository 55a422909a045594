package service

import (
	"context"
	"errors"
	"fmt"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"
)

type RouteService interface {
	CreateRoute(ctx context.Context, route *model.Route) (*model.Route, error)
	ListRoutes(ctx context.Context, q query.Query) (query.Page[*model.Route], error)
	GetRouteByID(ctx context.Context, id int) (*model.Route, error)
	UpdateRoute(ctx context.Context, id int, params model.UpdateRouteParams) (*model.Route, error)
	DeleteRoute(ctx context.Context, id int) error
}

type RouteServiceImpl struct {
	repository        repository.RouteRepository
	airportRepository repository.AirportRepository
}

func NewRouteService(repository repository.RouteRepository, airportRepository repository.AirportRepository) RouteService {
	return &RouteServiceImpl{
		repository:        repository,
		airportRepository: airportRepository,
	}
}

// validate checks both endpoints exist and differ.
func (s *RouteServiceImpl) validate(ctx context.Context, sourceID, destinationID int) error {
	verr := apperrors.NewValidationError(apperrors.ErrInvalidInput)

	endpoints := []struct {
		field string
		id    int
	}{
		{"source", sourceID},
		{"destination", destinationID},
	}
	for _, ep := range endpoints {
		_, err := s.airportRepository.FindByID(ctx, ep.id)
		switch {
		case errors.Is(err, apperrors.ErrAirportNotFound):
			verr.Add(ep.field, fmt.Sprintf("airport %d does not exist", ep.id))
		case err != nil:
			return err
		}
	}

	if sourceID == destinationID {
		verr.Add("destination", "source and destination must be different airports")
	}

	return verr.OrNil()
}

func (s *RouteServiceImpl) CreateRoute(ctx context.Context, route *model.Route) (*model.Route, error) {
	if err := s.validate(ctx, route.SourceID, route.DestinationID); err != nil {
		return nil, err
	}
	return s.repository.Create(ctx, route)
}

func (s *RouteServiceImpl) ListRoutes(ctx context.Context, q query.Query) (query.Page[*model.Route], error) {
	routes, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.Route]{}, err
	}
	return query.NewPage(routes, total, q), nil
}

func (s *RouteServiceImpl) GetRouteByID(ctx context.Context, id int) (*model.Route, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *RouteServiceImpl) UpdateRoute(ctx context.Context, id int, params model.UpdateRouteParams) (*model.Route, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sourceID, destinationID := current.SourceID, current.DestinationID
	if params.SourceID != nil {
		sourceID = *params.SourceID
	}
	if params.DestinationID != nil {
		destinationID = *params.DestinationID
	}
	if err := s.validate(ctx, sourceID, destinationID); err != nil {
		return nil, err
	}

	return s.repository.Update(ctx, id, params)
}

func (s *RouteServiceImpl) DeleteRoute(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}
