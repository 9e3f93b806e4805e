package model

import "time"

// Lift is a physical service bay.  Only active lifts are shown on the
// board and they are displayed in ascending Position order.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – label painted on the bay (e.g. "Cầu 3").
//  Position  – ordering key on the board.
//  IsActive  – inactive lifts are hidden from the board.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Lift struct {
	ID        string    `json:"id"`         // lifts.id
	Name      string    `json:"name"`       // lifts.name
	Position  int       `json:"position"`   // lifts.position
	IsActive  bool      `json:"is_active"`  // lifts.is_active
	CreatedAt time.Time `json:"created_at"` // lifts.created_at
	UpdatedAt time.Time `json:"updated_at"` // lifts.updated_at
}
