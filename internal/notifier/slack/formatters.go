package slack

import (
	"fmt"

	"github.com/mafclub/ledger/internal/mafia"
	"github.com/slack-go/slack"
)

// formatLeaderboard creates a Slack message to display the rating leaderboard.
func (s *Notifier) formatLeaderboard(scopeName string, results []mafia.PlayerResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s Leaderboard 🏆", scopeName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(results) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results yet. Go play some games!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, r := range results {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Points: %.2f | Win %%: %.2f%% (%d/%d) | Civ wins: %d | Maf wins: %d | Fouls: %d",
			rank,
			medal,
			r.PlayerName,
			r.Points,
			r.WinRate,
			r.Wins,
			r.GamesPlayed,
			r.CivilianWins,
			r.MafiaWins,
			r.Fouls,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRecomputeSummary announces that a rating snapshot was refreshed.
func (s *Notifier) formatRecomputeSummary(scopeName string, affectedPlayers int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📊 Rating updated 📊", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	summaryText := fmt.Sprintf("The %s rating has been recomputed. %d players ranked.", scopeName, affectedPlayers)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summaryText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerResult creates a Slack message with one player's snapshot.
func (s *Notifier) formatPlayerResult(r *mafia.PlayerResult, query string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🎭 Stats for %s 🎭", r.PlayerName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Games: %d", r.GamesPlayed), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Points: %.2f", r.Points), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Wins: %d (%.2f%%)", r.Wins, r.WinRate), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Civilian wins: %d", r.CivilianWins), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Mafia wins: %d", r.MafiaWins), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Don games: %d", r.DonGames), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Sheriff games: %d", r.SheriffGames), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Fouls: %d", r.Fouls), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates the response for a query that matched nobody.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	blocks := make([]slack.Block, 0)

	text := fmt.Sprintf("Couldn't find a ranked player matching \"%s\". Check the spelling, or maybe they haven't played a rated game yet.", query)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
