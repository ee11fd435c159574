package rating

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mafclub/ledger/internal/mafia"
	"github.com/mafclub/ledger/internal/metrics"
)

// Store defines the persistence operations the engine needs. The club store
// implements it; tests inject fakes.
type Store interface {
	// LoadScopeGameIDs resolves a scope to its member game ids. An empty
	// slice is a valid answer; an unknown rating id is mafia.ErrScopeNotFound.
	LoadScopeGameIDs(scopeID string) ([]string, error)
	// LoadSeatsForGames returns every seat of the given games joined with the
	// game's declared result.
	LoadSeatsForGames(gameIDs []string) ([]mafia.SeatResult, error)
	// ReplaceResults atomically swaps the persisted snapshot for a scope:
	// delete all prior rows, insert the new set, one transaction.
	ReplaceResults(ctx context.Context, scopeID string, results []mafia.PlayerResult) error
}

// RecomputeStatus is the terminal state of one recompute invocation.
type RecomputeStatus string

const (
	StatusCommitted  RecomputeStatus = "COMMITTED"
	StatusRolledBack RecomputeStatus = "ROLLED_BACK"
)

// RecomputeOutcome reports what a recompute did.
type RecomputeOutcome struct {
	ScopeID         string          `json:"scope_id"`
	Status          RecomputeStatus `json:"status"`
	AffectedPlayers int             `json:"affected_players"`
	Error           string          `json:"error,omitempty"`
}

// parallelFoldThreshold is the row count above which the fold is sharded
// across goroutines. Below it the goroutine overhead is not worth it.
const parallelFoldThreshold = 2048

// Engine recomputes per-player rating snapshots for a scope from scratch.
// Recomputes for the same scope are serialized through a keyed mutex because
// the final write is a destructive delete-then-insert; recomputes for
// different scopes run concurrently.
type Engine struct {
	store   Store
	metrics metrics.Metrics

	mu         sync.Mutex
	scopeLocks map[string]*sync.Mutex
}

// New creates a new Engine.
func New(store Store, metrics metrics.Metrics) *Engine {
	return &Engine{
		store:      store,
		metrics:    metrics,
		scopeLocks: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) scopeLock(scopeID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.scopeLocks[scopeID]
	if !ok {
		l = &sync.Mutex{}
		e.scopeLocks[scopeID] = l
	}
	return l
}

// Recompute rebuilds the persisted results for one scope. Later arrivals for
// the same scope queue on the per-scope lock rather than interleaving. Any
// failure leaves the previously persisted snapshot untouched.
func (e *Engine) Recompute(ctx context.Context, scopeID string) (RecomputeOutcome, error) {
	lock := e.scopeLock(scopeID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	e.metrics.IncRecomputeRuns()
	log.Info("Starting recompute", "scope", scopeID)

	gameIDs, err := e.store.LoadScopeGameIDs(scopeID)
	if err != nil {
		return e.fail(scopeID, fmt.Errorf("loading scope %q: %w", scopeID, err))
	}

	if len(gameIDs) == 0 {
		// An empty scope has a well-defined empty result: clear any stale
		// rows and report success.
		if err := e.store.ReplaceResults(ctx, scopeID, nil); err != nil {
			return e.fail(scopeID, fmt.Errorf("clearing empty scope %q: %w", scopeID, err))
		}
		log.Info("Recompute finished for empty scope", "scope", scopeID)
		e.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
		return RecomputeOutcome{ScopeID: scopeID, Status: StatusCommitted}, nil
	}

	rows, err := e.store.LoadSeatsForGames(gameIDs)
	if err != nil {
		return e.fail(scopeID, fmt.Errorf("loading seats for scope %q: %w", scopeID, err))
	}

	acc := fold(rows)
	results := acc.Finalize(scopeID)

	if err := e.store.ReplaceResults(ctx, scopeID, results); err != nil {
		return e.fail(scopeID, fmt.Errorf("replacing results for scope %q: %w", scopeID, err))
	}

	e.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	log.Info("Recompute committed", "scope", scopeID, "games", len(gameIDs), "players", len(results), "duration_ms", time.Since(start).Milliseconds())
	return RecomputeOutcome{
		ScopeID:         scopeID,
		Status:          StatusCommitted,
		AffectedPlayers: len(results),
	}, nil
}

func (e *Engine) fail(scopeID string, err error) (RecomputeOutcome, error) {
	e.metrics.IncRecomputeFailures()
	if errors.Is(err, mafia.ErrScopeNotFound) {
		log.Warn("Recompute rejected: unknown scope", "scope", scopeID)
	} else {
		log.Error("Recompute rolled back", "scope", scopeID, "error", err)
	}
	return RecomputeOutcome{
		ScopeID: scopeID,
		Status:  StatusRolledBack,
		Error:   err.Error(),
	}, err
}

// fold accumulates every row; large scopes are sharded across goroutines and
// the per-shard partial sums merged, which is safe because the accumulator is
// commutative over addition.
func fold(rows []mafia.SeatResult) *Accumulator {
	if len(rows) < parallelFoldThreshold {
		acc := NewAccumulator()
		for _, row := range rows {
			acc.Add(row.Seat, row.Result)
		}
		return acc
	}

	shards := runtime.NumCPU()
	partials := make([]*Accumulator, shards)
	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		wg.Add(1)
		go func(shard int) {
			defer wg.Done()
			acc := NewAccumulator()
			for j := shard; j < len(rows); j += shards {
				acc.Add(rows[j].Seat, rows[j].Result)
			}
			partials[shard] = acc
		}(i)
	}
	wg.Wait()

	acc := partials[0]
	for _, p := range partials[1:] {
		acc.Merge(p)
	}
	return acc
}
