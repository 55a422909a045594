package service

import (
	"context"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	apperrors "go-gin-airport/pkg/app_errors"
)

type CrewService interface {
	CreateCrew(ctx context.Context, crew *model.Crew) (*model.Crew, error)
	ListCrew(ctx context.Context, q query.Query) (query.Page[*model.Crew], error)
	GetCrewByID(ctx context.Context, id int) (*model.Crew, error)
	UpdateCrew(ctx context.Context, id int, params model.UpdateCrewParams) (*model.Crew, error)
	DeleteCrew(ctx context.Context, id int) error
}

type CrewServiceImpl struct {
	repository repository.CrewRepository
}

func NewCrewService(repository repository.CrewRepository) CrewService {
	return &CrewServiceImpl{repository: repository}
}

// checkDuplicate 檢查是否已有同名機組人員。此檢查在應用層完成，
// 兩個並發請求仍可能寫入同名資料。
func (s *CrewServiceImpl) checkDuplicate(ctx context.Context, firstName, lastName string, excludeID int) error {
	exists, err := s.repository.ExistsByName(ctx, firstName, lastName, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Validation(apperrors.ErrDuplicateCrew, "non_field_errors", "This person already exists")
	}
	return nil
}

func (s *CrewServiceImpl) CreateCrew(ctx context.Context, crew *model.Crew) (*model.Crew, error) {
	if err := s.checkDuplicate(ctx, crew.FirstName, crew.LastName, 0); err != nil {
		return nil, err
	}
	return s.repository.Create(ctx, crew)
}

func (s *CrewServiceImpl) ListCrew(ctx context.Context, q query.Query) (query.Page[*model.Crew], error) {
	members, total, err := s.repository.List(ctx, q)
	if err != nil {
		return query.Page[*model.Crew]{}, err
	}
	return query.NewPage(members, total, q), nil
}

func (s *CrewServiceImpl) GetCrewByID(ctx context.Context, id int) (*model.Crew, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *CrewServiceImpl) UpdateCrew(ctx context.Context, id int, params model.UpdateCrewParams) (*model.Crew, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName, lastName := current.FirstName, current.LastName
	if params.FirstName != nil {
		firstName = *params.FirstName
	}
	if params.LastName != nil {
		lastName = *params.LastName
	}
	if firstName != current.FirstName || lastName != current.LastName {
		if err := s.checkDuplicate(ctx, firstName, lastName, id); err != nil {
			return nil, err
		}
	}

	return s.repository.Update(ctx, id, params)
}

func (s *CrewServiceImpl) DeleteCrew(ctx context.Context, id int) error {
	return s.repository.Delete(ctx, id)
}
