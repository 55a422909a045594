package handler

import (
	"net/http"

	"go-gin-airport/internal/middleware"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/service"

	"github.com/gin-gonic/gin"
)

type airportRequest struct {
	Name           string `json:"name" binding:"required,max=64"`
	ClosestBigCity string `json:"closest_big_city" binding:"required,max=64"`
}

type airportPatch struct {
	Name           *string `json:"name" binding:"omitnil,min=1,max=64"`
	ClosestBigCity *string `json:"closest_big_city" binding:"omitnil,min=1,max=64"`
}

type AirportHandler struct {
	service service.AirportService
}

func NewAirportHandler(service service.AirportService) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/airports", middleware.Authorize(policy.Collections["airports"]))
	{
		router.GET("", h.ListAirports)
		router.POST("", h.CreateAirport)
		router.GET("/:id", h.GetAirport)
		router.PUT("/:id", h.ReplaceAirport)
		router.PATCH("/:id", h.PatchAirport)
		router.DELETE("/:id", h.DeleteAirport)
	}
}

func (h *AirportHandler) ListAirports(c *gin.Context) {
	q, ok := bindQuery(c, repository.AirportQuery, "ListAirports")
	if !ok {
		return
	}

	page, err := h.service.ListAirports(c, q)
	if err != nil {
		handleError(c, err, "ListAirports")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AirportHandler) CreateAirport(c *gin.Context) {
	var req airportRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateAirport(c, &model.Airport{
		Name:           req.Name,
		ClosestBigCity: req.ClosestBigCity,
	})
	if err != nil {
		handleError(c, err, "CreateAirport")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AirportHandler) GetAirport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	airport, err := h.service.GetAirportByID(c, id)
	if err != nil {
		handleError(c, err, "GetAirport")
		return
	}

	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) ReplaceAirport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req airportRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateAirportParams{
		Name:           &req.Name,
		ClosestBigCity: &req.ClosestBigCity,
	})
}

func (h *AirportHandler) PatchAirport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req airportPatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateAirportParams{
		Name:           req.Name,
		ClosestBigCity: req.ClosestBigCity,
	})
}

func (h *AirportHandler) update(c *gin.Context, id int, params model.UpdateAirportParams) {
	updated, err := h.service.UpdateAirport(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateAirport")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AirportHandler) DeleteAirport(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAirport(c, id); err != nil {
		handleError(c, err, "DeleteAirport")
		return
	}

	c.Status(http.StatusNoContent)
}
