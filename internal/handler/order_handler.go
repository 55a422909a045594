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

type orderPatch struct {
	Tickets *[]model.TicketLine `json:"tickets" binding:"omitnil,min=1,dive"`
}

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/orders", middleware.Authorize(policy.Collections["orders"]))
	{
		router.GET("", h.GetOrders)
		router.POST("", h.CreateOrder)
		router.GET("/:id", h.GetOrder)
		router.PUT("/:id", h.ReplaceOrder)
		router.PATCH("/:id", h.PatchOrder)
		router.DELETE("/:id", h.DeleteOrder)
	}
}

// CreateOrder godoc
// @Summary Create an order with its tickets
// @Tags orders
// @Accept json
// @Produce json
// @Param body body model.CreateOrderRequest true "tickets"
// @Success 201 {object} model.OrderResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var orderReq model.CreateOrderRequest
	if err := BindJson(c, &orderReq); err != nil {
		return
	}

	created, err := h.service.CreateOrder(c, middleware.CallerFrom(c), model.TicketRequests(orderReq.Tickets))
	if err != nil {
		handleError(c, err, "CreateOrder")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByID(c, middleware.CallerFrom(c), id)
	if err != nil {
		handleError(c, err, "GetOrder")
		return
	}

	c.JSON(http.StatusOK, order.ToResponse())
}

// GetOrders 一般使用者只看到自己的訂單
func (h *OrderHandler) GetOrders(c *gin.Context) {
	q, ok := bindQuery(c, repository.OrderQuery, "GetOrders")
	if !ok {
		return
	}

	page, err := h.service.ListOrders(c, middleware.CallerFrom(c), q)
	if err != nil {
		handleError(c, err, "GetOrders")
		return
	}

	c.JSON(http.StatusOK, query.Map(page, (*model.Order).ToResponse))
}

func (h *OrderHandler) ReplaceOrder(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var orderReq model.CreateOrderRequest
	if err := BindJson(c, &orderReq); err != nil {
		return
	}

	h.replaceTickets(c, id, model.TicketRequests(orderReq.Tickets))
}

// PatchOrder without tickets leaves the order untouched.
func (h *OrderHandler) PatchOrder(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req orderPatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	if req.Tickets == nil {
		order, err := h.service.GetOrderByID(c, middleware.CallerFrom(c), id)
		if err != nil {
			handleError(c, err, "PatchOrder")
			return
		}
		c.JSON(http.StatusOK, order.ToResponse())
		return
	}

	h.replaceTickets(c, id, model.TicketRequests(*req.Tickets))
}

func (h *OrderHandler) replaceTickets(c *gin.Context, id int, tickets []model.TicketRequest) {
	updated, err := h.service.ReplaceTickets(c, middleware.CallerFrom(c), id, tickets)
	if err != nil {
		handleError(c, err, "ReplaceTickets")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c, middleware.CallerFrom(c), id); err != nil {
		handleError(c, err, "DeleteOrder")
		return
	}

	c.Status(http.StatusNoContent)
}
