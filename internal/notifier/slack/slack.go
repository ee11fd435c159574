package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/metrics"
	"github.com/mafclub/ledger/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// Implement the Notifier interface
func (s *Notifier) SendLeaderboard(scopeName string, results []mafia.PlayerResult, dryRun bool) error {
	return s.sendMessage(s.formatLeaderboard(scopeName, results), dryRun)
}

func (s *Notifier) SendRecomputeSummary(scopeName string, affectedPlayers int, dryRun bool) error {
	return s.sendMessage(s.formatRecomputeSummary(scopeName, affectedPlayers), dryRun)
}

func (s *Notifier) SendPlayerResult(result *mafia.PlayerResult, query string, dryRun bool) error {
	return s.sendMessage(s.formatPlayerResult(result, query), dryRun)
}

func (s *Notifier) SendPlayerNotFound(query string, dryRun bool) error {
	return s.sendMessage(s.formatPlayerNotFound(query), dryRun)
}

func (s *Notifier) FormatLeaderboardResponse(scopeName string, results []mafia.PlayerResult) (any, error) {
	return s.formatLeaderboard(scopeName, results), nil
}

func (s *Notifier) FormatPlayerResultResponse(result *mafia.PlayerResult, query string) (any, error) {
	return s.formatPlayerResult(result, query), nil
}

func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}
