package model

// Ticket 票券模型，(flight_id, row, seat) 在資料庫中唯一
type Ticket struct {
	ID       int `json:"id" db:"id"`
	OrderID  int `json:"order_id" db:"order_id"`
	FlightID int `json:"flight_id" db:"flight_id"`
	Row      int `json:"row" db:"row"`
	Seat     int `json:"seat" db:"seat"`

	RouteInfo string `json:"-" db:"-"`
}

type UpdateTicketParams struct {
	Row      *int
	Seat     *int
	FlightID *int
}

// SeatGeometry is the part of an airplane a seat is validated against.
type SeatGeometry struct {
	FlightID   int
	Rows       int
	SeatsInRow int
}

// TicketResponse 票券響應
type TicketResponse struct {
	ID       int    `json:"id"`
	OrderID  int    `json:"order_id"`
	FlightID int    `json:"flight_id"`
	Flight   string `json:"flight"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
}

func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:       t.ID,
		OrderID:  t.OrderID,
		FlightID: t.FlightID,
		Flight:   t.RouteInfo,
		Row:      t.Row,
		Seat:     t.Seat,
	}
}
