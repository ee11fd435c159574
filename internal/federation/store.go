package federation

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewStore creates a new federation store.
func NewStore(db *sql.DB) FederationService {
	return &store{
		db: db,
	}
}

func (s *store) CreateFederation(name string) (*Federation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fed := &Federation{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.Exec("INSERT INTO federations (id, name, created_at) VALUES (?, ?, ?)",
		fed.ID, fed.Name, fed.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create federation: %w", err)
	}
	log.Info("Created federation", "federationID", fed.ID, "name", name)
	return fed, nil
}

func (s *store) ListFederations() ([]Federation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM federations ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feds []Federation
	for rows.Next() {
		var f Federation
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, err
		}
		feds = append(feds, f)
	}
	return feds, rows.Err()
}

func (s *store) CreateClub(name, city string) (*Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	club := &Club{
		ID:        uuid.New().String(),
		Name:      name,
		City:      city,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.Exec("INSERT INTO clubs (id, name, city, created_at) VALUES (?, ?, ?, ?)",
		club.ID, club.Name, club.City, club.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	log.Info("Created club", "clubID", club.ID, "name", name)
	return club, nil
}

func (s *store) GetClub(clubID string) (*Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Club
	var city, fedID sql.NullString
	err := s.db.QueryRow("SELECT id, name, city, federation_id, created_at FROM clubs WHERE id = ?", clubID).
		Scan(&c.ID, &c.Name, &city, &fedID, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("club %q not found", clubID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	c.City = city.String
	c.FederationID = fedID.String
	return &c, nil
}

func (s *store) ListClubs() ([]Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, city, federation_id, created_at FROM clubs ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []Club
	for rows.Next() {
		var c Club
		var city, fedID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &city, &fedID, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.City = city.String
		c.FederationID = fedID.String
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

func (s *store) AssignClubToFederation(clubID, federationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE clubs SET federation_id = ? WHERE id = ?", federationID, clubID)
	if err != nil {
		return fmt.Errorf("failed to assign club to federation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("club %q not found", clubID)
	}
	return nil
}
