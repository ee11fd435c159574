package federation

import (
	"database/sql"
	"sync"
)

// store handles database operations for clubs and federations.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Federation groups clubs under one governing body.
type Federation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Club is a venue where games are played and players are registered.
type Club struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city,omitempty"`
	FederationID string `json:"federation_id,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}
