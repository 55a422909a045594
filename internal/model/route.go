package model

import "fmt"

// Route is an ordered pair of airports with a distance in kilometers.
type Route struct {
	ID            int `json:"id" db:"id"`
	SourceID      int `json:"source_id" db:"source_id"`
	DestinationID int `json:"destination_id" db:"destination_id"`
	Distance      int `json:"distance" db:"distance"`

	Source      string `json:"source" db:"-"`
	Destination string `json:"destination" db:"-"`
}

// Info renders the route the way it is shown on flights and tickets.
func (r *Route) Info() string {
	return fmt.Sprintf("%s - %s", r.Source, r.Destination)
}

type UpdateRouteParams struct {
	SourceID      *int
	DestinationID *int
	Distance      *int
}

// RouteResponse 航線響應
type RouteResponse struct {
	ID            int    `json:"id"`
	SourceID      int    `json:"source_id"`
	DestinationID int    `json:"destination_id"`
	Distance      int    `json:"distance"`
	Info          string `json:"info"`
}

func (r *Route) ToResponse() RouteResponse {
	return RouteResponse{
		ID:            r.ID,
		SourceID:      r.SourceID,
		DestinationID: r.DestinationID,
		Distance:      r.Distance,
		Info:          r.Info(),
	}
}
