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

type crewRequest struct {
	FirstName string `json:"first_name" binding:"required,max=64"`
	LastName  string `json:"last_name" binding:"required,max=64"`
}

type crewPatch struct {
	FirstName *string `json:"first_name" binding:"omitnil,min=1,max=64"`
	LastName  *string `json:"last_name" binding:"omitnil,min=1,max=64"`
}

type CrewHandler struct {
	service service.CrewService
}

func NewCrewHandler(service service.CrewService) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/crew", middleware.Authorize(policy.Collections["crew"]))
	{
		router.GET("", h.ListCrew)
		router.POST("", h.CreateCrew)
		router.GET("/:id", h.GetCrew)
		router.PUT("/:id", h.ReplaceCrew)
		router.PATCH("/:id", h.PatchCrew)
		router.DELETE("/:id", h.DeleteCrew)
	}
}

func (h *CrewHandler) ListCrew(c *gin.Context) {
	q, ok := bindQuery(c, repository.CrewQuery, "ListCrew")
	if !ok {
		return
	}

	page, err := h.service.ListCrew(c, q)
	if err != nil {
		handleError(c, err, "ListCrew")
		return
	}

	c.JSON(http.StatusOK, query.Map(page, (*model.Crew).ToResponse))
}

func (h *CrewHandler) CreateCrew(c *gin.Context) {
	var req crewRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateCrew(c, &model.Crew{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		handleError(c, err, "CreateCrew")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *CrewHandler) GetCrew(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	crew, err := h.service.GetCrewByID(c, id)
	if err != nil {
		handleError(c, err, "GetCrew")
		return
	}

	c.JSON(http.StatusOK, crew.ToResponse())
}

func (h *CrewHandler) ReplaceCrew(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req crewRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateCrewParams{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
	})
}

func (h *CrewHandler) PatchCrew(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req crewPatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateCrewParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
}

func (h *CrewHandler) update(c *gin.Context, id int, params model.UpdateCrewParams) {
	updated, err := h.service.UpdateCrew(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateCrew")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *CrewHandler) DeleteCrew(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCrew(c, id); err != nil {
		handleError(c, err, "DeleteCrew")
		return
	}

	c.Status(http.StatusNoContent)
}
