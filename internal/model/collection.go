package model

import "time"

// Collection is a named grouping of items owned by exactly one user.
//
// (owner_id, name, acquired_date) is the natural key: CSV import matches
// existing collections on this triple, independent of the assigned ID.
type Collection struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	AcquiredDate string    `json:"acquired_date"`
	CreatedAt    time.Time `json:"created_at"`
}
