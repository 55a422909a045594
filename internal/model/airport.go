package model

// Airport is a leaf entity referenced by routes.
type Airport struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	ClosestBigCity string `json:"closest_big_city" db:"closest_big_city"`
}

type UpdateAirportParams struct {
	Name           *string
	ClosestBigCity *string
}
