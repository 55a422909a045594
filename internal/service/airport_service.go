package service

import (
	"context"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
)

type AirportService interface {
	CreateAirport(ctx context.Context, airport *model.Airport) (*model.Airport, error)
	ListAirports(ctx context.Context, q query.Query) (query.Page[*model.Airport], error)
	GetAirportByID(ctx context.Context, id int) (*model.Airport, error)
	UpdateAirport(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error)
	DeleteAirport(ctx context.Context, id int) error
}

type AirportServiceImpl struct {
	repository repository.AirportRepository
}

func NewAirportService(repository repository.AirportRepository) AirportService {
	return &AirportServiceImpl{repository: repository}
}

func (s *AirportServiceImpl) CreateAirport(ctx context.Context, airport *model.Airport) (*model.Airport, error) {
	return s.repository.Create(ctx, airport)
}

func (s *AirportServiceImpl) ListAirports(ctx context.Context, q query.Query) (query.Page[*model.Airport], error) {
	airports, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.Airport]{}, err
	}
	return query.NewPage(airports, total, q), nil
}

func (s *AirportServiceImpl) GetAirportByID(ctx context.Context, id int) (*model.Airport, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *AirportServiceImpl) UpdateAirport(ctx context.Context, id int, params model.UpdateAirportParams) (*model.Airport, error) {
	return s.repository.Update(ctx, id, params)
}

func (s *AirportServiceImpl) DeleteAirport(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}
