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

type airplaneRequest struct {
	Name         string `json:"name" binding:"required,max=64"`
	Rows         int    `json:"rows" binding:"required,gt=0"`
	SeatsInRow   int    `json:"seats_in_row" binding:"required,gt=0"`
	AirplaneType int    `json:"airplane_type" binding:"required"`
}

type airplanePatch struct {
	Name         *string `json:"name" binding:"omitnil,min=1,max=64"`
	Rows         *int    `json:"rows" binding:"omitnil,gt=0"`
	SeatsInRow   *int    `json:"seats_in_row" binding:"omitnil,gt=0"`
	AirplaneType *int    `json:"airplane_type"`
}

type AirplaneHandler struct {
	service service.AirplaneService
}

func NewAirplaneHandler(service service.AirplaneService) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/airplanes", middleware.Authorize(policy.Collections["airplanes"]))
	{
		router.GET("", h.ListAirplanes)
		router.POST("", h.CreateAirplane)
		router.GET("/:id", h.GetAirplane)
		router.PUT("/:id", h.ReplaceAirplane)
		router.PATCH("/:id", h.PatchAirplane)
		router.DELETE("/:id", h.DeleteAirplane)
	}
}

// ListAirplanes 列表只顯示機型名稱
func (h *AirplaneHandler) ListAirplanes(c *gin.Context) {
	q, ok := bindQuery(c, repository.AirplaneQuery, "ListAirplanes")
	if !ok {
		return
	}

	page, err := h.service.ListAirplanes(c, q)
	if err != nil {
		handleError(c, err, "ListAirplanes")
		return
	}

	c.JSON(http.StatusOK, query.Map(page, (*model.Airplane).ToResponse))
}

func (h *AirplaneHandler) CreateAirplane(c *gin.Context) {
	var req airplaneRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateAirplane(c, &model.Airplane{
		Name:           req.Name,
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneType,
	})
	if err != nil {
		handleError(c, err, "CreateAirplane")
		return
	}

	c.JSON(http.StatusCreated, created.ToDetailResponse())
}

// GetAirplane 詳細資料包含完整機型
func (h *AirplaneHandler) GetAirplane(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	airplane, err := h.service.GetAirplaneByID(c, id)
	if err != nil {
		handleError(c, err, "GetAirplane")
		return
	}

	c.JSON(http.StatusOK, airplane.ToDetailResponse())
}

func (h *AirplaneHandler) ReplaceAirplane(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req airplaneRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateAirplaneParams{
		Name:           &req.Name,
		Rows:           &req.Rows,
		SeatsInRow:     &req.SeatsInRow,
		AirplaneTypeID: &req.AirplaneType,
	})
}

func (h *AirplaneHandler) PatchAirplane(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req airplanePatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateAirplaneParams{
		Name:           req.Name,
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneType,
	})
}

func (h *AirplaneHandler) update(c *gin.Context, id int, params model.UpdateAirplaneParams) {
	updated, err := h.service.UpdateAirplane(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateAirplane")
		return
	}

	c.JSON(http.StatusOK, updated.ToDetailResponse())
}

func (h *AirplaneHandler) DeleteAirplane(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAirplane(c, id); err != nil {
		handleError(c, err, "DeleteAirplane")
		return
	}

	c.Status(http.StatusNoContent)
}
