package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

// A classic ten-seat table: six civilians, a sheriff, two mafia and the don.
var tableRoles = []string{
	"CIVILIAN", "CIVILIAN", "CIVILIAN", "CIVILIAN", "CIVILIAN", "CIVILIAN",
	"SHERIFF", "MAFIA", "MAFIA", "DON",
}

var results = []string{"CIVILIANS_WIN", "CIVILIANS_WIN", "MAFIA_WIN", "MAFIA_WIN", "DRAW"}

// Raw extra-points values mimic the mess found in real judge sheets: clean
// numbers, comma decimals, annotated strings and concatenated values.
var extraPointsSamples = []any{
	nil, nil, nil, 0.3, 0.5, 1.0, "0.3", "0,4", "0.5 best move", "0.30.3", "",
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create a pool of dummy players large enough to rotate tables
	playerIDs := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		id := fmt.Sprintf("seed-player-%d", i)
		name := fmt.Sprintf("Seeder Player %d", i)
		if _, err := db.Exec("INSERT OR IGNORE INTO players (id, name, club_id, created_at) VALUES (?, ?, ?, ?)",
			id, name, "seed-club", time.Now().Unix()); err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", name, err)
		}
		playerIDs = append(playerIDs, id)
	}
	log.Info("Ensured dummy players exist.", "count", len(playerIDs))

	const batchSize = 100 // Insert 100 games at a time
	const numGames = 5000

	log.Info("Preparing to insert dummy games...", "total", numGames, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	gameValues := make([]string, 0, batchSize)
	gameArgs := make([]interface{}, 0, batchSize*5)
	seatValues := make([]string, 0, batchSize*10)
	seatArgs := make([]interface{}, 0, batchSize*10*6)

	for i := 0; i < numGames; i++ {
		gameID := uuid.NewString()
		playedAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		gameValues = append(gameValues, "(?, ?, ?, ?, ?)")
		gameArgs = append(gameArgs,
			gameID,
			"seed-club",
			results[rand.Intn(len(results))],
			playedAt.Unix(),
			playedAt.Unix(),
		)

		// Deal a fresh table of ten from the player pool
		table := rand.Perm(len(playerIDs))[:10]
		for slot, playerIdx := range table {
			var extra any
			if sample := extraPointsSamples[rand.Intn(len(extraPointsSamples))]; sample != nil {
				extra = fmt.Sprint(sample)
			}
			seatValues = append(seatValues, "(?, ?, ?, ?, ?, ?)")
			seatArgs = append(seatArgs,
				gameID,
				slot+1,
				playerIDs[playerIdx],
				tableRoles[slot],
				rand.Intn(3),
				extra,
			)
		}

		if (i+1)%batchSize == 0 || (i+1) == numGames {
			gameStmt := fmt.Sprintf(`
				INSERT INTO games (id, club_id, result, played_at, created_at)
				VALUES %s;`, strings.Join(gameValues, ","))
			if _, err := tx.Exec(gameStmt, gameArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute game batch insert: %s", err)
			}

			seatStmt := fmt.Sprintf(`
				INSERT INTO seats (game_id, slot, player_id, role, fouls, extra_points)
				VALUES %s;`, strings.Join(seatValues, ","))
			if _, err := tx.Exec(seatStmt, seatArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute seat batch insert: %s", err)
			}

			// Reset for the next batch
			gameValues = make([]string, 0, batchSize)
			gameArgs = make([]interface{}, 0, batchSize*5)
			seatValues = make([]string, 0, batchSize*10)
			seatArgs = make([]interface{}, 0, batchSize*10*6)
			log.Info("Inserted batch", "completed", i+1, "total", numGames)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy games.", "duration", duration)
}
