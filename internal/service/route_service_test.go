package service_test

import (
	"context"
	"testing"

	"go-gin-airport/internal/model"
	"go-gin-airport/internal/service"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRouteService_CreateRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		routes, airports := new(MockRouteRepository), new(MockAirportRepository)
		svc := service.NewRouteService(routes, airports)
		route := &model.Route{SourceID: 1, DestinationID: 2, Distance: 2100}

		airports.On("FindByID", ctx, 1).Return(&model.Airport{ID: 1}, nil).Once()
		airports.On("FindByID", ctx, 2).Return(&model.Airport{ID: 2}, nil).Once()
		routes.On("Create", ctx, route).Return(&model.Route{ID: 5, Source: "A", Destination: "B"}, nil).Once()

		created, err := svc.CreateRoute(ctx, route)

		require.NoError(t, err)
		assert.Equal(t, "A - B", created.Info())
	})

	t.Run("Failed - same endpoints", func(t *testing.T) {
		routes, airports := new(MockRouteRepository), new(MockAirportRepository)
		svc := service.NewRouteService(routes, airports)

		airports.On("FindByID", ctx, 1).Return(&model.Airport{ID: 1}, nil).Twice()

		_, err := svc.CreateRoute(ctx, &model.Route{SourceID: 1, DestinationID: 1, Distance: 10})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"source and destination must be different airports"}, verr.Fields["destination"])
		routes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - unknown airport", func(t *testing.T) {
		routes, airports := new(MockRouteRepository), new(MockAirportRepository)
		svc := service.NewRouteService(routes, airports)

		airports.On("FindByID", ctx, 1).Return(&model.Airport{ID: 1}, nil).Once()
		airports.On("FindByID", ctx, 9).Return(nil, apperrors.ErrAirportNotFound).Once()

		_, err := svc.CreateRoute(ctx, &model.Route{SourceID: 1, DestinationID: 9, Distance: 10})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
