package handler

import (
	"net/http"

	"go-gin-airport/internal/middleware"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"
	"go-gin-airport/internal/query"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/service"

	"github.com/gin-gonic/gin"
)

// pointers check presence only; a row or seat of 0 gets the range error.
type ticketRequest struct {
	Row    *int `json:"row" binding:"required"`
	Seat   *int `json:"seat" binding:"required"`
	Flight *int `json:"flight" binding:"required"`
	Order  *int `json:"order" binding:"required"`
}

// a ticket cannot move to another order, so Order is not patchable.
type ticketPatch struct {
	Row    *int `json:"row"`
	Seat   *int `json:"seat"`
	Flight *int `json:"flight"`
}

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/tickets", middleware.Authorize(policy.Collections["tickets"]))
	{
		router.GET("", h.ListTickets)
		router.POST("", h.CreateTicket)
		router.GET("/:id", h.GetTicket)
		router.PUT("/:id", h.ReplaceTicket)
		router.PATCH("/:id", h.PatchTicket)
		router.DELETE("/:id", h.DeleteTicket)
	}
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	q, ok := bindQuery(c, repository.TicketQuery, "ListTickets")
	if !ok {
		return
	}

	page, err := h.service.ListTickets(c, q)
	if err != nil {
		handleError(c, err, "ListTickets")
		return
	}

	c.JSON(http.StatusOK, query.Map(page, (*model.Ticket).ToResponse))
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req ticketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateTicket(c, &model.Ticket{
		OrderID:  *req.Order,
		FlightID: *req.Flight,
		Row:      *req.Row,
		Seat:     *req.Seat,
	})
	if err != nil {
		handleError(c, err, "CreateTicket")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	ticket, err := h.service.GetTicketByID(c, id)
	if err != nil {
		handleError(c, err, "GetTicket")
		return
	}

	c.JSON(http.StatusOK, ticket.ToResponse())
}

func (h *TicketHandler) ReplaceTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ticketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateTicketParams{
		Row:      req.Row,
		Seat:     req.Seat,
		FlightID: req.Flight,
	})
}

func (h *TicketHandler) PatchTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ticketPatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateTicketParams{
		Row:      req.Row,
		Seat:     req.Seat,
		FlightID: req.Flight,
	})
}

func (h *TicketHandler) update(c *gin.Context, id int, params model.UpdateTicketParams) {
	updated, err := h.service.UpdateTicket(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateTicket")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTicket(c, id); err != nil {
		handleError(c, err, "DeleteTicket")
		return
	}

	c.Status(http.StatusNoContent)
}
