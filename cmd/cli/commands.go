package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the recorded games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games")
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List the curated ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ratings")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [scope]",
	Short: "Show the standings for a scope (overall by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/leaderboard"
		if len(args) == 1 {
			endpoint += "?scope=" + url.QueryEscape(args[0])
		}
		return performGetRequest(endpoint)
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute [scope]",
	Short: "Trigger a recompute for a scope (overall by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/recompute"
		if len(args) == 1 {
			endpoint += "?scope=" + url.QueryEscape(args[0])
		}
		return performGetRequest(endpoint)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the durable operational counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/counters")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
