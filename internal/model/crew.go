package model

type Crew struct {
	ID        int    `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

func (c *Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type UpdateCrewParams struct {
	FirstName *string
	LastName  *string
}

// CrewResponse 機組人員響應
type CrewResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func (c *Crew) ToResponse() CrewResponse {
	return CrewResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
	}
}
