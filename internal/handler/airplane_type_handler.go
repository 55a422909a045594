package handler

import (
	"net/http"

	"go-gin-airport/internal/middleware"
	"go-gin-airport/internal/policy"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/service"

	"github.com/gin-gonic/gin"
)

// airplane types have a single field, so PUT and PATCH share one body.
type airplaneTypeRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

type AirplaneTypeHandler struct {
	service service.AirplaneTypeService
}

func NewAirplaneTypeHandler(service service.AirplaneTypeService) *AirplaneTypeHandler {
	return &AirplaneTypeHandler{service: service}
}

func (h *AirplaneTypeHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/airplane-types", middleware.Authorize(policy.Collections["airplane-types"]))
	{
		router.GET("", h.ListAirplaneTypes)
		router.POST("", h.CreateAirplaneType)
		router.GET("/:id", h.GetAirplaneType)
		router.PUT("/:id", h.RenameAirplaneType)
		router.PATCH("/:id", h.RenameAirplaneType)
		router.DELETE("/:id", h.DeleteAirplaneType)
	}
}

func (h *AirplaneTypeHandler) ListAirplaneTypes(c *gin.Context) {
	q, ok := bindQuery(c, repository.AirplaneTypeQuery, "ListAirplaneTypes")
	if !ok {
		return
	}

	page, err := h.service.ListAirplaneTypes(c, q)
	if err != nil {
		handleError(c, err, "ListAirplaneTypes")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *AirplaneTypeHandler) CreateAirplaneType(c *gin.Context) {
	var req airplaneTypeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateAirplaneType(c, req.Name)
	if err != nil {
		handleError(c, err, "CreateAirplaneType")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *AirplaneTypeHandler) GetAirplaneType(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	airplaneType, err := h.service.GetAirplaneTypeByID(c, id)
	if err != nil {
		handleError(c, err, "GetAirplaneType")
		return
	}

	c.JSON(http.StatusOK, airplaneType)
}

func (h *AirplaneTypeHandler) RenameAirplaneType(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req airplaneTypeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.RenameAirplaneType(c, id, req.Name)
	if err != nil {
		handleError(c, err, "RenameAirplaneType")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AirplaneTypeHandler) DeleteAirplaneType(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAirplaneType(c, id); err != nil {
		handleError(c, err, "DeleteAirplaneType")
		return
	}

	c.Status(http.StatusNoContent)
}
