package service

import (
	"context"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
)

type AirplaneTypeService interface {
	CreateAirplaneType(ctx context.Context, name string) (*model.AirplaneType, error)
	ListAirplaneTypes(ctx context.Context, q query.Query) (query.Page[*model.AirplaneType], error)
	GetAirplaneTypeByID(ctx context.Context, id int) (*model.AirplaneType, error)
	RenameAirplaneType(ctx context.Context, id int, name string) (*model.AirplaneType, error)
	DeleteAirplaneType(ctx context.Context, id int) error
}

type AirplaneTypeServiceImpl struct {
	repository repository.AirplaneTypeRepository
}

func NewAirplaneTypeService(repository repository.AirplaneTypeRepository) AirplaneTypeService {
	return &AirplaneTypeServiceImpl{repository: repository}
}

func (s *AirplaneTypeServiceImpl) CreateAirplaneType(ctx context.Context, name string) (*model.AirplaneType, error) {
	return s.repository.Create(ctx, &model.AirplaneType{Name: name})
}

func (s *AirplaneTypeServiceImpl) ListAirplaneTypes(ctx context.Context, q query.Query) (query.Page[*model.AirplaneType], error) {
	types, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.AirplaneType]{}, err
	}
	return query.NewPage(types, total, q), nil
}

func (s *AirplaneTypeServiceImpl) GetAirplaneTypeByID(ctx context.Context, id int) (*model.AirplaneType, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *AirplaneTypeServiceImpl) RenameAirplaneType(ctx context.Context, id int, name string) (*model.AirplaneType, error) {
	return s.repository.Update(ctx, id, name)
}

func (s *AirplaneTypeServiceImpl) DeleteAirplaneType(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}
