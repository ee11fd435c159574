package club

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mafclub/ledger/internal/mafia"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

func (s *store) AddPlayer(playerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return
	}

	if !exists {
		_, err := s.db.Exec("INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)", playerID, name, time.Now().Unix())
		if err != nil {
			log.Error("Failed to add player", "error", err, "playerID", playerID)
		} else {
			log.Info("Registered new player", "playerID", playerID, "name", name)
		}
	} else {
		_, err := s.db.Exec("UPDATE players SET name = ? WHERE id = ?", name, playerID)
		if err != nil {
			log.Error("Failed to update player", "error", err, "playerID", playerID)
		}
	}
}

func (s *store) UpsertPlayers(players []mafia.Player) error {
	if len(players) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, club_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			club_id = excluded.club_id;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range players {
		createdAt := p.CreatedAt
		if createdAt == 0 {
			createdAt = now
		}
		if _, err := stmt.Exec(p.ID, p.Name, nullIfEmpty(p.ClubID), createdAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

func (s *store) GetAllPlayers() ([]mafia.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, COALESCE(club_id, ''), created_at FROM players ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []mafia.Player
	for rows.Next() {
		var p mafia.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.ClubID, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RecordGame inserts a game and all of its seats in one transaction. Slots
// and players must be unique within the game; the schema enforces both.
func (s *store) RecordGame(game *mafia.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	for _, seat := range game.Seats {
		if !mafia.ValidRole(seat.Role) {
			return fmt.Errorf("seat %d: invalid role %q", seat.Slot, seat.Role)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}
	_, err = tx.Exec(`
		INSERT INTO games (id, club_id, result, played_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, game.ID, nullIfEmpty(game.ClubID), string(game.Result), game.PlayedAt, game.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert game: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO seats (game_id, slot, player_id, role, fouls, extra_points)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, seat := range game.Seats {
		if _, err := stmt.Exec(game.ID, seat.Slot, seat.PlayerID, string(seat.Role), seat.Fouls, rawPointsToText(seat.ExtraPoints)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert seat %d: %w", seat.Slot, err)
		}
	}

	return tx.Commit()
}

// SetGameResult declares the outcome of a game. Results are written once;
// correcting a mis-entered result is an admin operation that goes through the
// same path.
func (s *store) SetGameResult(gameID string, result mafia.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE games SET result = ? WHERE id = ?", string(result), gameID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %q not found", gameID)
	}
	return nil
}

func (s *store) GetGame(gameID string) (*mafia.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var g mafia.Game
	err := s.db.QueryRow(`
		SELECT id, COALESCE(club_id, ''), result, played_at, created_at
		FROM games WHERE id = ?
	`, gameID).Scan(&g.ID, &g.ClubID, (*string)(&g.Result), &g.PlayedAt, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("game %q not found", gameID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT game_id, slot, player_id, role, fouls, extra_points
		FROM seats WHERE game_id = ? ORDER BY slot
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		g.Seats = append(g.Seats, seat)
	}
	return &g, rows.Err()
}

func (s *store) GetAllGames() ([]*mafia.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, COALESCE(club_id, ''), result, played_at, created_at
		FROM games ORDER BY played_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*mafia.Game
	for rows.Next() {
		var g mafia.Game
		if err := rows.Scan(&g.ID, &g.ClubID, (*string)(&g.Result), &g.PlayedAt, &g.CreatedAt); err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

func (s *store) CreateRating(name string) (*mafia.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rating := &mafia.Rating{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	_, err := s.db.Exec("INSERT INTO ratings (id, name, created_at) VALUES (?, ?, ?)",
		rating.ID, rating.Name, rating.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	log.Info("Created rating", "ratingID", rating.ID, "name", name)
	return rating, nil
}

func (s *store) GetRating(ratingID string) (*mafia.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r mafia.Rating
	err := s.db.QueryRow("SELECT id, name, created_at FROM ratings WHERE id = ?", ratingID).
		Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("rating %q: %w", ratingID, mafia.ErrScopeNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &r, nil
}

func (s *store) ListRatings() ([]mafia.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM ratings ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []mafia.Rating
	for rows.Next() {
		var r mafia.Rating
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *store) AddGameToRating(ratingID, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRating(ratingID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO rating_games (rating_id, game_id) VALUES (?, ?)
		ON CONFLICT(rating_id, game_id) DO NOTHING
	`, ratingID, gameID)
	if err != nil {
		return fmt.Errorf("failed to add game %s to rating %s: %w", gameID, ratingID, err)
	}
	return nil
}

func (s *store) RemoveGameFromRating(ratingID, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRating(ratingID); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM rating_games WHERE rating_id = ? AND game_id = ?", ratingID, gameID)
	return err
}

func (s *store) requireRating(ratingID string) error {
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM ratings WHERE id = ?)", ratingID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("rating %q: %w", ratingID, mafia.ErrScopeNotFound)
	}
	return nil
}

// RatingsForGame returns the ids of every rating that includes the game.
// Used to find which scopes need a recompute when a game's result changes.
func (s *store) RatingsForGame(gameID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT rating_id FROM rating_games WHERE game_id = ?", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadScopeGameIDs resolves a recompute scope to its member games. The
// reserved "overall" scope covers every recorded game.
func (s *store) LoadScopeGameIDs(scopeID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if scopeID == mafia.ScopeOverall {
		rows, err = s.db.Query("SELECT id FROM games")
	} else {
		if err := s.requireRating(scopeID); err != nil {
			return nil, err
		}
		rows, err = s.db.Query("SELECT game_id FROM rating_games WHERE rating_id = ?", scopeID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadSeatsForGames returns every seat of the given games joined with the
// game's declared result, chunked to stay under SQLite's bound-variable cap.
func (s *store) LoadSeatsForGames(gameIDs []string) ([]mafia.SeatResult, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []mafia.SeatResult
	for start := 0; start < len(gameIDs); start += seatQueryChunk {
		end := start + seatQueryChunk
		if end > len(gameIDs) {
			end = len(gameIDs)
		}
		chunk := gameIDs[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := s.db.Query(fmt.Sprintf(`
			SELECT s.game_id, s.slot, s.player_id, s.role, s.fouls, s.extra_points, g.result
			FROM seats s
			JOIN games g ON g.id = s.game_id
			WHERE s.game_id IN (%s)
		`, placeholders), args...)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var sr mafia.SeatResult
			var extra sql.NullString
			var result string
			if err := rows.Scan(&sr.Seat.GameID, &sr.Seat.Slot, &sr.Seat.PlayerID,
				(*string)(&sr.Seat.Role), &sr.Seat.Fouls, &extra, &result); err != nil {
				rows.Close()
				return nil, err
			}
			if extra.Valid {
				sr.Seat.ExtraPoints = extra.String
			}
			sr.Result = mafia.GameResult(result)
			out = append(out, sr)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// ReplaceResults atomically swaps the persisted snapshot for a scope. The
// delete and every insert ride in one transaction so a failed recompute
// leaves the prior snapshot untouched.
func (s *store) ReplaceResults(ctx context.Context, scopeID string, results []mafia.PlayerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM rating_results WHERE scope_id = ?", scopeID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear prior results: %w", err)
	}

	if len(results) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO rating_results
				(scope_id, player_id, games_played, wins, civilian_wins, mafia_wins,
				 don_games, sheriff_games, first_outs, fouls, points)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			tx.Rollback()
			return err
		}
		defer stmt.Close()

		for _, r := range results {
			_, err := stmt.ExecContext(ctx, scopeID, r.PlayerID, r.GamesPlayed, r.Wins,
				r.CivilianWins, r.MafiaWins, r.DonGames, r.SheriffGames, r.FirstOuts, r.Fouls, r.Points)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert result for player %s: %w", r.PlayerID, err)
			}
		}
	}

	return tx.Commit()
}

func (s *store) GetScopeResults(scopeID string) ([]mafia.PlayerResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT rr.scope_id, rr.player_id, COALESCE(p.name, rr.player_id),
			rr.games_played, rr.wins, rr.civilian_wins, rr.mafia_wins,
			rr.don_games, rr.sheriff_games, rr.first_outs, rr.fouls, rr.points
		FROM rating_results rr
		LEFT JOIN players p ON p.id = rr.player_id
		WHERE rr.scope_id = ?
		ORDER BY rr.points DESC, rr.wins DESC, rr.player_id;
	`, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []mafia.PlayerResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetPlayerResultByName retrieves the snapshot row for a single player by
// name. It performs a case-insensitive, fuzzy search (e.g. "anna" matches
// "Anna Weiss").
func (s *store) GetPlayerResultByName(scopeID, playerName string) (*mafia.PlayerResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + playerName + "%"
	row := s.db.QueryRow(`
		SELECT rr.scope_id, rr.player_id, p.name,
			rr.games_played, rr.wins, rr.civilian_wins, rr.mafia_wins,
			rr.don_games, rr.sheriff_games, rr.first_outs, rr.fouls, rr.points
		FROM rating_results rr
		JOIN players p ON p.id = rr.player_id
		WHERE rr.scope_id = ? AND p.name LIKE ? COLLATE NOCASE
		LIMIT 1
	`, scopeID, pattern)

	r, err := scanResult(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player matching '%s' not found", playerName)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &r, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"rating_results", "rating_games", "seats", "games", "ratings", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit clear transaction", "error", err)
	} else {
		log.Info("Store cleared")
	}
}

func (s *store) ClearGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Seats and rating memberships cascade.
	if _, err := s.db.Exec("DELETE FROM games WHERE id = ?", gameID); err != nil {
		log.Error("Failed to clear game", "error", err, "gameID", gameID)
	}
}

func scanSeat(scanner interface{ Scan(...any) error }) (mafia.Seat, error) {
	var seat mafia.Seat
	var extra sql.NullString
	err := scanner.Scan(&seat.GameID, &seat.Slot, &seat.PlayerID, (*string)(&seat.Role), &seat.Fouls, &extra)
	if err != nil {
		return seat, err
	}
	if extra.Valid {
		seat.ExtraPoints = extra.String
	}
	return seat, nil
}

func scanResult(scanner interface{ Scan(...any) error }) (mafia.PlayerResult, error) {
	var r mafia.PlayerResult
	err := scanner.Scan(&r.ScopeID, &r.PlayerID, &r.PlayerName,
		&r.GamesPlayed, &r.Wins, &r.CivilianWins, &r.MafiaWins,
		&r.DonGames, &r.SheriffGames, &r.FirstOuts, &r.Fouls, &r.Points)
	if err != nil {
		return r, err
	}
	if r.GamesPlayed > 0 {
		r.WinRate = float64(r.Wins) / float64(r.GamesPlayed) * 100
	}
	return r, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rawPointsToText(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
