package model

import "time"

// Flight 航班模型
type Flight struct {
	ID            int       `json:"id" db:"id"`
	RouteID       int       `json:"route_id" db:"route_id"`
	AirplaneID    int       `json:"airplane_id" db:"airplane_id"`
	DepartureTime time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" db:"arrival_time"`
	CrewIDs       []int     `json:"crew_ids" db:"-"`

	Route       *Route    `json:"-" db:"-"`
	Airplane    *Airplane `json:"-" db:"-"`
	Crew        []*Crew   `json:"-" db:"-"`
	TicketsSold int       `json:"-" db:"-"`
}

// TicketsAvailable is the number of seats not yet sold. It needs Airplane.
func (f *Flight) TicketsAvailable() int {
	if f.Airplane == nil {
		return 0
	}
	return f.Airplane.Capacity() - f.TicketsSold
}

type UpdateFlightParams struct {
	RouteID       *int
	AirplaneID    *int
	DepartureTime *time.Time
	ArrivalTime   *time.Time
	CrewIDs       *[]int
}

// FlightResponse 航班響應
type FlightResponse struct {
	ID               int              `json:"id"`
	RouteID          int              `json:"route_id"`
	RouteInfo        string           `json:"route_info"`
	Airplane         AirplaneResponse `json:"airplane"`
	DepartureTime    time.Time        `json:"departure_time"`
	ArrivalTime      time.Time        `json:"arrival_time"`
	Crew             []string         `json:"crew"`
	TicketsAvailable int              `json:"tickets_available"`
}

func (f *Flight) ToResponse() FlightResponse {
	resp := FlightResponse{
		ID:               f.ID,
		RouteID:          f.RouteID,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Crew:             make([]string, 0, len(f.Crew)),
		TicketsAvailable: f.TicketsAvailable(),
	}
	if f.Route != nil {
		resp.RouteInfo = f.Route.Info()
	}
	if f.Airplane != nil {
		resp.Airplane = f.Airplane.ToResponse()
	}
	for _, c := range f.Crew {
		resp.Crew = append(resp.Crew, c.FullName())
	}
	return resp
}
