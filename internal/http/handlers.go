package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/metrics"
	"github.com/mafclub/ledger/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to read counters", "error", err)
			http.Error(w, "Failed to read counters", http.StatusInternalServerError)
			return
		}
		respondJSON(w, counters)
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID != "" {
			log.Info("Received request to clear a specific game", "gameID", gameID)
			s.Store.ClearGame(gameID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared game %s from store!", gameID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			log.Error("Failed to list players", "error", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		respondJSON(w, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	type addPlayerRequest struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		ClubID string `json:"club_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Player name is required", http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		if err := s.Store.UpsertPlayers([]mafia.Player{{ID: req.ID, Name: req.Name, ClubID: req.ClubID}}); err != nil {
			log.Error("Failed to add player", "error", err, "playerID", req.ID)
			http.Error(w, "Failed to add player", http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]string{"id": req.ID})
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.Store.GetAllGames()
		if err != nil {
			log.Error("Failed to list games", "error", err)
			http.Error(w, "Failed to list games", http.StatusInternalServerError)
			return
		}
		respondJSON(w, games)
	}
}

type seatPayload struct {
	Slot        int    `json:"slot"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Role        string `json:"role"`
	Fouls       int    `json:"fouls"`
	ExtraPoints any    `json:"extra_points"`
}

type recordGameRequest struct {
	ID       string        `json:"id"`
	ClubID   string        `json:"club_id"`
	Result   string        `json:"result"`
	PlayedAt int64         `json:"played_at"`
	Seats    []seatPayload `json:"seats"`
}

// RecordGameHandler stores a game with its seats, registers any players the
// club has not seen before, and refreshes the overall aggregate.
func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var req recordGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.Seats) == 0 {
			http.Error(w, "A game needs at least one seat", http.StatusBadRequest)
			return
		}
		result := mafia.GameResult(req.Result)
		if !validResult(result) {
			http.Error(w, fmt.Sprintf("Invalid result %q", req.Result), http.StatusBadRequest)
			return
		}

		game := &mafia.Game{
			ID:       req.ID,
			ClubID:   req.ClubID,
			Result:   result,
			PlayedAt: req.PlayedAt,
		}
		var newPlayers []mafia.Player
		for _, seat := range req.Seats {
			game.Seats = append(game.Seats, mafia.Seat{
				Slot:        seat.Slot,
				PlayerID:    seat.PlayerID,
				Role:        mafia.Role(seat.Role),
				Fouls:       seat.Fouls,
				ExtraPoints: seat.ExtraPoints,
			})
			if !s.Store.IsKnownPlayer(seat.PlayerID) {
				name := seat.PlayerName
				if name == "" {
					name = seat.PlayerID
				}
				newPlayers = append(newPlayers, mafia.Player{ID: seat.PlayerID, Name: name, ClubID: req.ClubID})
			}
		}

		if isDryRun {
			log.Info("[Dry Run] Would record game", "seats", len(game.Seats), "new_players", len(newPlayers))
			respondJSON(w, map[string]string{"status": "dry-run"})
			return
		}

		if len(newPlayers) > 0 {
			if err := s.Store.UpsertPlayers(newPlayers); err != nil {
				log.Error("Failed to register players for game", "error", err)
				http.Error(w, "Failed to register players", http.StatusInternalServerError)
				return
			}
		}
		if err := s.Store.RecordGame(game); err != nil {
			log.Error("Failed to record game", "error", err)
			http.Error(w, "Failed to record game", http.StatusInternalServerError)
			return
		}

		s.Metrics.IncGamesRecorded()
		s.Counters.Increment(metrics.KeyGamesRecorded)
		if err := s.pubsub.SendMessage(pubsub.EventGameRecorded, &pubsub.RecomputeRequest{ScopeID: mafia.ScopeOverall}); err != nil {
			log.Error("Failed to publish game-recorded event", "error", err, "gameID", game.ID)
		}

		// The overall aggregate includes every game, so it is stale the
		// moment a game lands.
		outcome, err := s.Engine.Recompute(r.Context(), mafia.ScopeOverall)
		if err != nil {
			log.Error("Recompute after game recording failed", "error", err)
		}

		respondJSON(w, map[string]any{"game_id": game.ID, "recompute": outcome})
	}
}

// SetGameResultHandler declares a game's outcome and refreshes every scope
// the game belongs to.
func (s *Server) SetGameResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		gameID := r.URL.Query().Get("gameID")
		result := mafia.GameResult(r.URL.Query().Get("result"))
		if gameID == "" {
			http.Error(w, "gameID is required", http.StatusBadRequest)
			return
		}
		if !validResult(result) {
			http.Error(w, fmt.Sprintf("Invalid result %q", result), http.StatusBadRequest)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would set game result", "gameID", gameID, "result", result)
			respondJSON(w, map[string]string{"status": "dry-run"})
			return
		}

		if err := s.Store.SetGameResult(gameID, result); err != nil {
			log.Error("Failed to set game result", "error", err, "gameID", gameID)
			http.Error(w, "Failed to set game result", http.StatusNotFound)
			return
		}

		scopes := []string{mafia.ScopeOverall}
		if ratingIDs, err := s.Store.RatingsForGame(gameID); err != nil {
			log.Error("Failed to resolve ratings for game", "error", err, "gameID", gameID)
		} else {
			scopes = append(scopes, ratingIDs...)
		}

		outcomes := make([]any, 0, len(scopes))
		for _, scope := range scopes {
			outcome, err := s.Engine.Recompute(r.Context(), scope)
			if err != nil {
				log.Error("Recompute after result change failed", "error", err, "scope", scope)
			}
			outcomes = append(outcomes, outcome)
		}
		respondJSON(w, outcomes)
	}
}

func (s *Server) ListRatingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ratings, err := s.Store.ListRatings()
		if err != nil {
			log.Error("Failed to list ratings", "error", err)
			http.Error(w, "Failed to list ratings", http.StatusInternalServerError)
			return
		}
		respondJSON(w, ratings)
	}
}

func (s *Server) CreateRatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		rating, err := s.Store.CreateRating(name)
		if err != nil {
			log.Error("Failed to create rating", "error", err, "name", name)
			http.Error(w, "Failed to create rating", http.StatusInternalServerError)
			return
		}
		s.Counters.Increment(metrics.KeyRatingsCreated)
		respondJSON(w, rating)
	}
}

// AddGameToRatingHandler curates a game into a rating and synchronously
// refreshes that rating's snapshot. A recompute event is also published for
// any out-of-process observers.
func (s *Server) AddGameToRatingHandler() http.HandlerFunc {
	return s.membershipHandler(func(ratingID, gameID string) error {
		return s.Store.AddGameToRating(ratingID, gameID)
	})
}

// RemoveGameFromRatingHandler is the inverse curation action.
func (s *Server) RemoveGameFromRatingHandler() http.HandlerFunc {
	return s.membershipHandler(func(ratingID, gameID string) error {
		return s.Store.RemoveGameFromRating(ratingID, gameID)
	})
}

func (s *Server) membershipHandler(mutate func(ratingID, gameID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		ratingID := r.URL.Query().Get("ratingID")
		gameID := r.URL.Query().Get("gameID")
		if ratingID == "" || gameID == "" {
			http.Error(w, "ratingID and gameID are required", http.StatusBadRequest)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would change rating membership", "ratingID", ratingID, "gameID", gameID)
			respondJSON(w, map[string]string{"status": "dry-run"})
			return
		}

		if err := mutate(ratingID, gameID); err != nil {
			if errors.Is(err, mafia.ErrScopeNotFound) {
				http.Error(w, "Rating not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to change rating membership", "error", err, "ratingID", ratingID, "gameID", gameID)
			http.Error(w, "Failed to change rating membership", http.StatusInternalServerError)
			return
		}

		if err := s.pubsub.SendMessage(pubsub.EventRecomputeRating, &pubsub.RecomputeRequest{ScopeID: ratingID}); err != nil {
			log.Error("Failed to publish recompute event", "error", err, "ratingID", ratingID)
		}

		outcome, err := s.Engine.Recompute(r.Context(), ratingID)
		if err != nil {
			log.Error("Recompute after membership change failed", "error", err, "ratingID", ratingID)
			http.Error(w, "Membership changed but recompute failed", http.StatusInternalServerError)
			return
		}
		respondJSON(w, outcome)
	}
}

// RecomputeHandler triggers an on-demand recompute for a scope (the overall
// aggregate when none is given).
func (s *Server) RecomputeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := r.URL.Query().Get("scope")
		if scope == "" {
			scope = mafia.ScopeOverall
		}

		outcome, err := s.Engine.Recompute(r.Context(), scope)
		if err != nil {
			if errors.Is(err, mafia.ErrScopeNotFound) {
				http.Error(w, "Scope not found", http.StatusNotFound)
				return
			}
			log.Error("Recompute failed", "error", err, "scope", scope)
			w.WriteHeader(http.StatusInternalServerError)
			respondJSON(w, outcome)
			return
		}
		respondJSON(w, outcome)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := r.URL.Query().Get("scope")
		if scope == "" {
			scope = mafia.ScopeOverall
		}
		results, err := s.Store.GetScopeResults(scope)
		if err != nil {
			log.Error("Failed to read leaderboard", "error", err, "scope", scope)
			http.Error(w, "Failed to read leaderboard", http.StatusInternalServerError)
			return
		}
		respondJSON(w, results)
	}
}

func (s *Server) ClubsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			name := r.URL.Query().Get("name")
			if name == "" {
				http.Error(w, "name is required", http.StatusBadRequest)
				return
			}
			club, err := s.Federations.CreateClub(name, r.URL.Query().Get("city"))
			if err != nil {
				log.Error("Failed to create club", "error", err, "name", name)
				http.Error(w, "Failed to create club", http.StatusInternalServerError)
				return
			}
			respondJSON(w, club)
		default:
			clubs, err := s.Federations.ListClubs()
			if err != nil {
				log.Error("Failed to list clubs", "error", err)
				http.Error(w, "Failed to list clubs", http.StatusInternalServerError)
				return
			}
			respondJSON(w, clubs)
		}
	}
}

func (s *Server) FederationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			name := r.URL.Query().Get("name")
			if name == "" {
				http.Error(w, "name is required", http.StatusBadRequest)
				return
			}
			fed, err := s.Federations.CreateFederation(name)
			if err != nil {
				log.Error("Failed to create federation", "error", err, "name", name)
				http.Error(w, "Failed to create federation", http.StatusInternalServerError)
				return
			}
			respondJSON(w, fed)
		default:
			feds, err := s.Federations.ListFederations()
			if err != nil {
				log.Error("Failed to list federations", "error", err)
				http.Error(w, "Failed to list federations", http.StatusInternalServerError)
				return
			}
			respondJSON(w, feds)
		}
	}
}

func (s *Server) AssignClubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clubID := r.URL.Query().Get("clubID")
		federationID := r.URL.Query().Get("federationID")
		if clubID == "" || federationID == "" {
			http.Error(w, "clubID and federationID are required", http.StatusBadRequest)
			return
		}
		if err := s.Federations.AssignClubToFederation(clubID, federationID); err != nil {
			log.Error("Failed to assign club to federation", "error", err, "clubID", clubID)
			http.Error(w, "Failed to assign club", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

func validResult(result mafia.GameResult) bool {
	switch result {
	case mafia.ResultUnknown, mafia.ResultCiviliansWin, mafia.ResultMafiaWin, mafia.ResultDraw:
		return true
	}
	return false
}
