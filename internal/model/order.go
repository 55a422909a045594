package model

import "time"

// Order 訂單模型，擁有其下所有票券（刪除時一併刪除）
type Order struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Tickets []*Ticket `json:"tickets" db:"-"`
}

// TicketRequest is one requested seat inside an order.
type TicketRequest struct {
	Row      int `json:"row"`
	Seat     int `json:"seat"`
	FlightID int `json:"flight"`
}

// TicketLine is the bound form of a TicketRequest. The pointers only check
// presence; a row or seat of 0 is left to the seat range check.
type TicketLine struct {
	Row    *int `json:"row" binding:"required"`
	Seat   *int `json:"seat" binding:"required"`
	Flight *int `json:"flight" binding:"required"`
}

func (l TicketLine) Request() TicketRequest {
	return TicketRequest{Row: *l.Row, Seat: *l.Seat, FlightID: *l.Flight}
}

func TicketRequests(lines []TicketLine) []TicketRequest {
	requests := make([]TicketRequest, 0, len(lines))
	for _, l := range lines {
		requests = append(requests, l.Request())
	}
	return requests
}

// CreateOrderRequest 創建訂單請求
type CreateOrderRequest struct {
	Tickets []TicketLine `json:"tickets" binding:"required,min=1,dive"`
}

// OrderResponse 訂單響應
type OrderResponse struct {
	ID        int              `json:"id"`
	UserID    int              `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []TicketResponse `json:"tickets"`
}

func (o *Order) ToResponse() OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		Tickets:   make([]TicketResponse, 0, len(o.Tickets)),
	}
	for _, t := range o.Tickets {
		resp.Tickets = append(resp.Tickets, t.ToResponse())
	}
	return resp
}

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderEventCreated OrderEventType = "order.created"
	OrderEventUpdated OrderEventType = "order.updated"
	OrderEventDeleted OrderEventType = "order.deleted"
)

// OrderEvent is published after an order write has committed.
type OrderEvent struct {
	EventID    string         `json:"event_id"`
	Type       OrderEventType `json:"type"`
	OrderID    int            `json:"order_id"`
	UserID     int            `json:"user_id"`
	FlightIDs  []int          `json:"flight_ids"`
	OccurredAt time.Time      `json:"occurred_at"`
}
