package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/internal/room"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

// matchResult summarizes one finished bot game.
type matchResult struct {
	Game       int            `json:"game"`
	Winner     string         `json:"winner"`
	WinnerSeat string         `json:"winner_seat"`
	Turns      int            `json:"turns"`
	Territory  map[string]int `json:"territory"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		lineup   string
		numGames int
		workers  int
		maxTurns int
		seed     int64
		jsonOut  bool
	)

	flag.StringVar(&lineup, "d", "medium,medium,medium", "Comma-separated difficulties, one per seat (e.g. hard,easy,easy)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&maxTurns, "max-turns", 300, "Turn cap before a game is abandoned")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	difficulties := parseLineup(lineup)
	if len(difficulties) < 2 {
		log.Fatal().Str("lineup", lineup).Msg("Need at least 2 seats")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	if seed != 0 {
		risk.SeedRand(seed)
	}

	results := make([]*matchResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := runOne(ctx, idx+1, difficulties, maxTurns)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).
				Int("turns", result.Turns).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, difficulties, errCount)
	}
}

// runOne plays a single all-AI game to completion or the turn cap.
func runOne(ctx context.Context, num int, difficulties []bot.Difficulty, maxTurns int) (*matchResult, error) {
	r, err := room.NewBotMatch(fmt.Sprintf("botmatch-%d", num), difficulties, room.Options{
		GameConfig: risk.DefaultConfig(),
		AIPacing:   0,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// Abandon hopeless games: cancel once the turn cap passes or the
	// state stops changing entirely.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				gs := r.State()
				if gs == nil {
					continue
				}
				if reason := abandonReason(gs, maxTurns, stallTimeout); reason != "" {
					log.Warn().Int("game", num).Str("reason", reason).Msg("Abandoning game")
					cancel()
					return
				}
			}
		}
	}()

	final, err := r.RunToCompletion(runCtx)
	if err != nil {
		switch {
		case final != nil && final.Phase == risk.PhaseGameOver:
			err = nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			// Abandoned: report the standing board with no winner.
			err = nil
		}
	}

	result := &matchResult{
		Game:      num,
		Turns:     final.TurnNumber,
		Territory: map[string]int{},
	}
	for _, p := range final.Players {
		result.Territory[p.Name] = p.TerritoryCount
		if p.ID == final.WinnerID {
			result.Winner = p.Name
			result.WinnerSeat = p.ID
		}
	}
	return result, err
}

// stallTimeout abandons a game whose state has stopped changing. Bot
// rooms run with zero pacing, so even setup placements land many times
// a second; a quiet stretch this long means the driver is wedged.
const stallTimeout = 10 * time.Second

// abandonReason reports why a running game should be given up, or ""
// to keep going. The turn cap catches stalemates that still cycle
// turns; the stall check catches wedges that stop the clock inside a
// single turn, where TurnNumber never moves.
func abandonReason(gs *risk.GameState, maxTurns int, stall time.Duration) string {
	if gs.TurnNumber > maxTurns {
		return "turn cap reached"
	}
	if time.Since(gs.LastUpdated) > stall {
		return "no state progress"
	}
	return ""
}

func parseLineup(s string) []bot.Difficulty {
	parts := strings.Split(s, ",")
	out := make([]bot.Difficulty, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, bot.ParseDifficulty(p))
	}
	return out
}

func printSummary(results []*matchResult, difficulties []bot.Difficulty, errCount int) {
	wins := make(map[string]int)
	turnsTotal := 0
	completed := 0
	stalls := 0

	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		turnsTotal += r.Turns
		if r.Winner == "" {
			stalls++
		} else {
			wins[r.Winner]++
		}
	}

	fmt.Printf("\nResults (%d games, lineup %v):\n", completed, difficulties)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}
	if stalls > 0 {
		fmt.Printf("  (%d games hit the turn cap)\n", stalls)
	}

	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s %d wins\n", name, wins[name])
	}
	if completed > 0 {
		fmt.Printf("  avg turns: %.1f\n", float64(turnsTotal)/float64(completed))
	}
}

func printJSON(results []*matchResult, total, errCount int) {
	out := struct {
		Total   int            `json:"total"`
		Errors  int            `json:"errors"`
		Results []*matchResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
