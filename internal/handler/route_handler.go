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

type routeRequest struct {
	Source      int `json:"source" binding:"required"`
	Destination int `json:"destination" binding:"required"`
	Distance    int `json:"distance" binding:"required,gt=0"`
}

type routePatch struct {
	Source      *int `json:"source"`
	Destination *int `json:"destination"`
	Distance    *int `json:"distance" binding:"omitnil,gt=0"`
}

type RouteHandler struct {
	service service.RouteService
}

func NewRouteHandler(service service.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/routes", middleware.Authorize(policy.Collections["routes"]))
	{
		router.GET("", h.ListRoutes)
		router.POST("", h.CreateRoute)
		router.GET("/:id", h.GetRoute)
		router.PUT("/:id", h.ReplaceRoute)
		router.PATCH("/:id", h.PatchRoute)
		router.DELETE("/:id", h.DeleteRoute)
	}
}

func (h *RouteHandler) ListRoutes(c *gin.Context) {
	q, ok := bindQuery(c, repository.RouteQuery, "ListRoutes")
	if !ok {
		return
	}

	page, err := h.service.ListRoutes(c, q)
	if err != nil {
		handleError(c, err, "ListRoutes")
		return
	}

	c.JSON(http.StatusOK, query.Map(page, (*model.Route).ToResponse))
}

func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req routeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateRoute(c, &model.Route{
		SourceID:      req.Source,
		DestinationID: req.Destination,
		Distance:      req.Distance,
	})
	if err != nil {
		handleError(c, err, "CreateRoute")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	route, err := h.service.GetRouteByID(c, id)
	if err != nil {
		handleError(c, err, "GetRoute")
		return
	}

	c.JSON(http.StatusOK, route.ToResponse())
}

func (h *RouteHandler) ReplaceRoute(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req routeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateRouteParams{
		SourceID:      &req.Source,
		DestinationID: &req.Destination,
		Distance:      &req.Distance,
	})
}

func (h *RouteHandler) PatchRoute(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req routePatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateRouteParams{
		SourceID:      req.Source,
		DestinationID: req.Destination,
		Distance:      req.Distance,
	})
}

func (h *RouteHandler) update(c *gin.Context, id int, params model.UpdateRouteParams) {
	updated, err := h.service.UpdateRoute(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateRoute")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteRoute(c, id); err != nil {
		handleError(c, err, "DeleteRoute")
		return
	}

	c.Status(http.StatusNoContent)
}
