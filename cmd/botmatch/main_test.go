package main

import (
	"testing"
	"time"

	"github.com/kmcrae/warfront/api/internal/bot"
	"github.com/kmcrae/warfront/api/pkg/risk"
)

func TestAbandonReason(t *testing.T) {
	gs := &risk.GameState{TurnNumber: 1, LastUpdated: time.Now()}
	if got := abandonReason(gs, 300, time.Minute); got != "" {
		t.Errorf("healthy game abandoned: %q", got)
	}

	gs.TurnNumber = 301
	if got := abandonReason(gs, 300, time.Minute); got == "" {
		t.Error("turn cap not detected")
	}

	// A wedge inside one turn never moves TurnNumber; only the state
	// timestamp gives it away.
	gs.TurnNumber = 1
	gs.LastUpdated = time.Now().Add(-2 * time.Minute)
	if got := abandonReason(gs, 300, time.Minute); got == "" {
		t.Error("stalled state not detected")
	}
}

func TestParseLineup(t *testing.T) {
	got := parseLineup(" hard, easy ,medium,")
	want := []bot.Difficulty{bot.Hard, bot.Easy, bot.Medium}
	if len(got) != len(want) {
		t.Fatalf("parsed %d seats, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("seat %d = %s, want %s", i, got[i], want[i])
		}
	}
}
