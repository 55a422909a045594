package handler

import (
	"net/http"
	"time"

	"go-gin-airport/internal/middleware"
	"go-gin-airport/internal/model"
	"go-gin-airport/internal/policy"
	"go-gin-airport/internal/repository"
	"go-gin-airport/internal/service"

	"github.com/gin-gonic/gin"
)

type flightRequest struct {
	Route         int       `json:"route" binding:"required"`
	Airplane      int       `json:"airplane" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Crew          []int     `json:"crew"`
}

type flightPatch struct {
	Route         *int       `json:"route"`
	Airplane      *int       `json:"airplane"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Crew          *[]int     `json:"crew"`
}

type FlightHandler struct {
	service service.FlightService
}

func NewFlightHandler(service service.FlightService) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/flights", middleware.Authorize(policy.Collections["flights"]))
	{
		router.GET("", h.ListFlights)
		router.POST("", h.CreateFlight)
		router.GET("/:id", h.GetFlight)
		router.PUT("/:id", h.ReplaceFlight)
		router.PATCH("/:id", h.PatchFlight)
		router.DELETE("/:id", h.DeleteFlight)
	}
}

// ListFlights 回應由 service 快取，已是輸出格式
func (h *FlightHandler) ListFlights(c *gin.Context) {
	q, ok := bindQuery(c, repository.FlightQuery, "ListFlights")
	if !ok {
		return
	}

	page, err := h.service.ListFlights(c, q)
	if err != nil {
		handleError(c, err, "ListFlights")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *FlightHandler) CreateFlight(c *gin.Context) {
	var req flightRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.CreateFlight(c, &model.Flight{
		RouteID:       req.Route,
		AirplaneID:    req.Airplane,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.Crew,
	})
	if err != nil {
		handleError(c, err, "CreateFlight")
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}

func (h *FlightHandler) GetFlight(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	flight, err := h.service.GetFlightByID(c, id)
	if err != nil {
		handleError(c, err, "GetFlight")
		return
	}

	c.JSON(http.StatusOK, flight.ToResponse())
}

func (h *FlightHandler) ReplaceFlight(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req flightRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	crew := req.Crew
	if crew == nil {
		crew = []int{}
	}
	h.update(c, id, model.UpdateFlightParams{
		RouteID:       &req.Route,
		AirplaneID:    &req.Airplane,
		DepartureTime: &req.DepartureTime,
		ArrivalTime:   &req.ArrivalTime,
		CrewIDs:       &crew,
	})
}

func (h *FlightHandler) PatchFlight(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req flightPatch
	if err := BindJson(c, &req); err != nil {
		return
	}

	h.update(c, id, model.UpdateFlightParams{
		RouteID:       req.Route,
		AirplaneID:    req.Airplane,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		CrewIDs:       req.Crew,
	})
}

func (h *FlightHandler) update(c *gin.Context, id int, params model.UpdateFlightParams) {
	updated, err := h.service.UpdateFlight(c, id, params)
	if err != nil {
		handleError(c, err, "UpdateFlight")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteFlight(c, id); err != nil {
		handleError(c, err, "DeleteFlight")
		return
	}

	c.Status(http.StatusNoContent)
}
