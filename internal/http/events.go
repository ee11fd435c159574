package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/pubsub"
)

// RecomputeEventHandler consumes pushed recompute events. The push delivery
// wraps the published payload in JSON with a base64 data field.
func (s *Server) RecomputeEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received recompute message", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		req := pubsub.RecomputeRequest{}
		if err := s.pubsub.ProcessMessage(rawData, &req); err != nil {
			log.Error("Failed to decode recompute request", "error", err)
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if req.ScopeID == "" {
			req.ScopeID = mafia.ScopeOverall
		}

		outcome, err := s.Engine.Recompute(r.Context(), req.ScopeID)
		if err != nil {
			log.Error("Failed to recompute scope", "error", err, "scope", req.ScopeID)
			// Returning 200 anyway keeps the subscription from redelivering a
			// message that will fail the same way every time.
			w.Write([]byte("OK"))
			return
		}
		if err := s.Notifier.SendRecomputeSummary(req.ScopeID, outcome.AffectedPlayers, isDryRun); err != nil {
			log.Error("Failed to send recompute summary", "error", err, "scope", req.ScopeID)
		}
		w.Write([]byte("OK"))
	}
}
