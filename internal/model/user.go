package model

import "time"

// User mirrors an identity issued by the external identity provider. The
// row exists so orders can reference their owner.
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	IsStaff   bool      `json:"is_staff" db:"is_staff"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Caller is the identity attached to a request. The zero value is anonymous.
type Caller struct {
	UserID   int
	Username string
	IsStaff  bool
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID > 0
}
