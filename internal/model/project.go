package model

import "time"

// Project is a named container owning a set of issues.
// Listing is scoped to the owner; issues inside it are visible to any
// authenticated session that selects the project.
type Project struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id,string"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
