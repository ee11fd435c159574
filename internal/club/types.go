package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// seatQueryChunk caps the number of bound variables per IN clause; SQLite
// limits a statement to 999 parameters.
const seatQueryChunk = 500
