package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// parsePlayerStatsText splits the slash command text into a player name and an
// optional trailing scope id.
// Expected formats: "Anna K", "Anna K overall", "Anna K <rating-id>"
func parsePlayerStatsText(text string) (playerName, scopeID string) {
	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", mafia.ScopeOverall
	}

	scopeID = mafia.ScopeOverall
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if strings.HasPrefix(last, "scope:") {
			scopeID = strings.TrimPrefix(last, "scope:")
			parts = parts[:len(parts)-1]
		}
	}

	playerName = strings.Join(parts, " ")
	return playerName, scopeID
}

func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		// The bare command shows the overall standings. A rating id as the
		// text narrows it to that rating.
		scope := strings.TrimSpace(r.FormValue("text"))
		if scope == "" {
			scope = mafia.ScopeOverall
		}

		results, err := s.Store.GetScopeResults(scope)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get scope results from store", "error", err, "scope", scope)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(scope, results)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}

func (s *Server) PlayerStatsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		text := r.FormValue("text")
		if text == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		playerName, scopeID := parsePlayerStatsText(text)
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received player stats command", "player", playerName, "scope", scopeID)
		result, err := s.Store.GetPlayerResultByName(scopeID, playerName)
		var msg any
		if err != nil || result == nil {
			log.Warn("Could not find player result", "player", playerName, "error", err)
			msg, err = s.Notifier.FormatPlayerNotFoundResponse(playerName)
		} else {
			msg, err = s.Notifier.FormatPlayerResultResponse(result, playerName)
		}

		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}
		respondWithSlackMsg(w, slackMsg)
	}
}
