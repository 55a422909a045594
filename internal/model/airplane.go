package model

// SmallAirplaneCapacity is the capacity below which an airplane counts as small.
const SmallAirplaneCapacity = 60

type AirplaneType struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Airplane fixes the seat geometry of every flight it operates.
type Airplane struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Rows           int    `json:"rows" db:"rows"`
	SeatsInRow     int    `json:"seats_in_row" db:"seats_in_row"`
	AirplaneTypeID int    `json:"airplane_type_id" db:"airplane_type_id"`

	AirplaneType *AirplaneType `json:"airplane_type,omitempty" db:"-"`
}

func (a *Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

func (a *Airplane) IsSmall() bool {
	return a.Capacity() < SmallAirplaneCapacity
}

type UpdateAirplaneParams struct {
	Name           *string
	Rows           *int
	SeatsInRow     *int
	AirplaneTypeID *int
}

// AirplaneResponse 飛機響應，列表時 airplane_type 只顯示名稱
type AirplaneResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	Capacity     int    `json:"capacity"`
	IsSmall      bool   `json:"is_small"`
	AirplaneType string `json:"airplane_type"`
}

// AirplaneDetailResponse nests the full airplane type.
type AirplaneDetailResponse struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Rows         int           `json:"rows"`
	SeatsInRow   int           `json:"seats_in_row"`
	Capacity     int           `json:"capacity"`
	IsSmall      bool          `json:"is_small"`
	AirplaneType *AirplaneType `json:"airplane_type"`
}

func (a *Airplane) ToResponse() AirplaneResponse {
	resp := AirplaneResponse{
		ID:         a.ID,
		Name:       a.Name,
		Rows:       a.Rows,
		SeatsInRow: a.SeatsInRow,
		Capacity:   a.Capacity(),
		IsSmall:    a.IsSmall(),
	}
	if a.AirplaneType != nil {
		resp.AirplaneType = a.AirplaneType.Name
	}
	return resp
}

func (a *Airplane) ToDetailResponse() AirplaneDetailResponse {
	return AirplaneDetailResponse{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		Capacity:     a.Capacity(),
		IsSmall:      a.IsSmall(),
		AirplaneType: a.AirplaneType,
	}
}
