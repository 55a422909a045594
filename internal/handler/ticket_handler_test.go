package handler_test

import (
	"net/http"
	"testing"

	"go-gin-airport/internal/handler"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/query"
	apperrors "go-gin-airport/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTickets_StaffOnly(t *testing.T) {
	mockService := new(MockTicketService)
	router := setupRouter(handler.NewTicketHandler(mockService))

	w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/tickets", nil), tokenFor(t, 5, false))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/tickets", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	mockService.AssertNotCalled(t, "ListTickets")
}

func TestListTickets(t *testing.T) {
	mockService := new(MockTicketService)
	router := setupRouter(handler.NewTicketHandler(mockService))

	tickets := []*model.Ticket{{ID: 1, OrderID: 2, FlightID: 3, Row: 4, Seat: 1, RouteInfo: "A - B"}}
	mockService.On("ListTickets", mock.Anything, mock.MatchedBy(func(q query.Query) bool {
		return len(q.Conditions) == 2
	})).Return(query.NewPage(tickets, 1, query.Query{Page: 1}), nil).Once()

	w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/tickets?flight=3&row=4", nil), tokenFor(t, 1, true))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"flight":"A - B"`)
	mockService.AssertExpectations(t)
}

func TestCreateTicket_SeatTaken(t *testing.T) {
	mockService := new(MockTicketService)
	router := setupRouter(handler.NewTicketHandler(mockService))

	mockService.On("CreateTicket", mock.Anything, &model.Ticket{OrderID: 2, FlightID: 3, Row: 4, Seat: 1}).
		Return(nil, apperrors.Validation(apperrors.ErrSeatTaken, "seat", "seat 1 in row 4 is already taken")).Once()

	w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/tickets", map[string]int{
		"row": 4, "seat": 1, "flight": 3, "order": 2,
	}), tokenFor(t, 1, true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrSeatTaken.Error(), decodeError(t, w).Error)
	mockService.AssertExpectations(t)
}

func TestCreateTicket_ZeroSeatReachesRangeCheck(t *testing.T) {
	mockService := new(MockTicketService)
	router := setupRouter(handler.NewTicketHandler(mockService))

	mockService.On("CreateTicket", mock.Anything, &model.Ticket{OrderID: 2, FlightID: 3, Row: 1, Seat: 0}).
		Return(nil, apperrors.Validation(apperrors.ErrOutOfRange, "seat", "seat must be in range [1, 6]")).Once()

	w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/tickets", map[string]int{
		"row": 1, "seat": 0, "flight": 3, "order": 2,
	}), tokenFor(t, 1, true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperrors.ErrOutOfRange.Error(), body.Error)
	assert.Equal(t, []string{"seat must be in range [1, 6]"}, body.Fields["seat"])
	mockService.AssertExpectations(t)
}

func TestCreateTicket_MissingOrder(t *testing.T) {
	mockService := new(MockTicketService)
	router := setupRouter(handler.NewTicketHandler(mockService))

	w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/tickets", map[string]int{
		"row": 1, "seat": 1, "flight": 3,
	}), tokenFor(t, 1, true))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"This field is required."}, decodeError(t, w).Fields["order"])
	mockService.AssertNotCalled(t, "CreateTicket")
}
