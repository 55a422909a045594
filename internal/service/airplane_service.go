package service

import (
	"context"
	"fmt"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"
)

type AirplaneService interface {
	CreateAirplane(ctx context.Context, airplane *model.Airplane) (*model.Airplane, error)
	ListAirplanes(ctx context.Context, q query.Query) (query.Page[*model.Airplane], error)
	GetAirplaneByID(ctx context.Context, id int) (*model.Airplane, error)
	UpdateAirplane(ctx context.Context, id int, params model.UpdateAirplaneParams) (*model.Airplane, error)
	DeleteAirplane(ctx context.Context, id int) error
}

type AirplaneServiceImpl struct {
	repository     repository.AirplaneRepository
	typeRepository repository.AirplaneTypeRepository
}

func NewAirplaneService(repository repository.AirplaneRepository, typeRepository repository.AirplaneTypeRepository) AirplaneService {
	return &AirplaneServiceImpl{
		repository:     repository,
		typeRepository: typeRepository,
	}
}

func (s *AirplaneServiceImpl) checkType(ctx context.Context, typeID int) error {
	_, err := s.typeRepository.FindByID(ctx, typeID)
	return asField(err, apperrors.ErrAirplaneTypeNotFound, "airplane_type",
		fmt.Sprintf("airplane type %d does not exist", typeID))
}

func (s *AirplaneServiceImpl) CreateAirplane(ctx context.Context, airplane *model.Airplane) (*model.Airplane, error) {
	if err := s.checkType(ctx, airplane.AirplaneTypeID); err != nil {
		return nil, err
	}
	return s.repository.Create(ctx, airplane)
}

func (s *AirplaneServiceImpl) ListAirplanes(ctx context.Context, q query.Query) (query.Page[*model.Airplane], error) {
	airplanes, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.Airplane]{}, err
	}
	return query.NewPage(airplanes, total, q), nil
}

func (s *AirplaneServiceImpl) GetAirplaneByID(ctx context.Context, id int) (*model.Airplane, error) {
	return s.repository.FindByID(ctx, id)
}

// UpdateAirplane changes the geometry of the airplane. Tickets already
// sold keep their seats even if they fall outside the new geometry.
func (s *AirplaneServiceImpl) UpdateAirplane(ctx context.Context, id int, params model.UpdateAirplaneParams) (*model.Airplane, error) {
	if params.AirplaneTypeID != nil {
		if err := s.checkType(ctx, *params.AirplaneTypeID); err != nil {
			return nil, err
		}
	}
	return s.repository.Update(ctx, id, params)
}

func (s *AirplaneServiceImpl) DeleteAirplane(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}
