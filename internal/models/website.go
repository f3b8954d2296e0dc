package models

import "time"

// Website holds the editor configuration for one site. Page content lives
// in the editor's own datastore; this table only backs the editor
// bootstrap endpoint.
type Website struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Configuration string    `json:"configuration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
