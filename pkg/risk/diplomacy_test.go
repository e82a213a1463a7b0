package risk

import "testing"

func TestPactLifecycle(t *testing.T) {
	gs := twoPlayerState(PhaseAttack, 5, 5, "kamchatka")
	gs.Pacts = []DiplomacyPact{NewPact("pact-1", "player-0", "player-1", 1, 3)}

	if HavePact(gs, "player-0", "player-1") {
		t.Error("pending pact must not count as active")
	}

	next, err := AcceptPact(gs, "pact-1")
	if err != nil {
		t.Fatalf("AcceptPact: %v", err)
	}
	if !HavePact(next, "player-0", "player-1") {
		t.Error("accepted pact must be active")
	}
	if !HavePact(next, "player-1", "player-0") {
		t.Error("pact lookup must be symmetric")
	}
	if p := GetPact(next, "player-0", "player-1"); p == nil || p.ID != "pact-1" {
		t.Errorf("GetPact = %+v", p)
	}

	if _, err := AcceptPact(next, "pact-1"); err == nil {
		t.Error("accepting an active pact must fail")
	}
	if _, err := AcceptPact(gs, "pact-404"); err == nil {
		t.Error("accepting an unknown pact must fail")
	}

	rejected, err := RemovePact(gs, "pact-1")
	if err != nil {
		t.Fatalf("RemovePact: %v", err)
	}
	if len(rejected.Pacts) != 0 {
		t.Error("rejected pact must be removed")
	}
}

func TestBreakPactPenalty(t *testing.T) {
	gs := twoPlayerState(PhaseAttack, 1, 1, "kamchatka")
	// player-0: 33 territories at 1 troop each, plus a stack.
	gs.Territories["brazil"].Troops = 17 // total 49
	pact := NewPact("pact-1", "player-0", "player-1", 1, 3)
	pact.IsActive = true
	gs.Pacts = []DiplomacyPact{pact}

	next, penalty, err := BreakPact(gs, "pact-1", "player-0", 0.07)
	if err != nil {
		t.Fatalf("BreakPact: %v", err)
	}
	// floor(49 * 0.07) = 3, all drained from the brazil stack.
	if penalty.TroopsLost != 3 {
		t.Errorf("troopsLost = %d, want 3", penalty.TroopsLost)
	}
	if next.Territories["brazil"].Troops != 14 {
		t.Errorf("brazil troops = %d, want 14", next.Territories["brazil"].Troops)
	}
	if penalty.DesertionRate != 0.07 {
		t.Errorf("rate = %v, want 0.07", penalty.DesertionRate)
	}
	if len(penalty.AffectedTerritories) != 1 || penalty.AffectedTerritories[0] != "brazil" {
		t.Errorf("affected = %v, want [brazil]", penalty.AffectedTerritories)
	}
	if HavePact(next, "player-0", "player-1") {
		t.Error("broken pact must be inactive")
	}
	if gs.Territories["brazil"].Troops != 17 {
		t.Error("input state mutated")
	}
}

func TestBreakPactRateClampAndFloor(t *testing.T) {
	gs := twoPlayerState(PhaseAttack, 1, 1, "kamchatka")
	pact := NewPact("pact-1", "player-0", "player-1", 1, 3)
	pact.IsActive = true
	gs.Pacts = []DiplomacyPact{pact}

	// 33 troops at rate clamped up to 0.05: floor(33*0.05) = 1.
	_, penalty, err := BreakPact(gs, "pact-1", "player-0", 0.0)
	if err != nil {
		t.Fatalf("BreakPact: %v", err)
	}
	if penalty.DesertionRate != 0.05 {
		t.Errorf("rate = %v, want clamp to 0.05", penalty.DesertionRate)
	}
	if penalty.TroopsLost != 1 {
		t.Errorf("troopsLost = %d, want 1", penalty.TroopsLost)
	}

	_, penalty, err = BreakPact(gs, "pact-1", "player-0", 0.5)
	if err != nil {
		t.Fatalf("BreakPact: %v", err)
	}
	if penalty.DesertionRate != 0.10 {
		t.Errorf("rate = %v, want clamp to 0.10", penalty.DesertionRate)
	}
}

func TestBreakPactNeverEmptiesTerritories(t *testing.T) {
	gs := twoPlayerState(PhaseAttack, 1, 1, "kamchatka")
	// Every garrison is already at the 1-troop minimum; the penalty has
	// nowhere to land.
	pact := NewPact("pact-1", "player-0", "player-1", 1, 3)
	pact.IsActive = true
	gs.Pacts = []DiplomacyPact{pact}

	next, penalty, err := BreakPact(gs, "pact-1", "player-0", 0.10)
	if err != nil {
		t.Fatalf("BreakPact: %v", err)
	}
	if penalty.TroopsLost != 0 {
		t.Errorf("troopsLost = %d, want 0 when nothing can desert", penalty.TroopsLost)
	}
	for _, tr := range next.Territories {
		if tr.Troops < 1 {
			t.Fatalf("%s dropped below one troop", tr.ID)
		}
	}
}

func TestBreakPactValidation(t *testing.T) {
	gs := twoPlayerState(PhaseAttack, 2, 2, "kamchatka")
	pact := NewPact("pact-1", "player-0", "player-1", 1, 3)
	gs.Pacts = []DiplomacyPact{pact}

	if _, _, err := BreakPact(gs, "pact-404", "player-0", 0.07); err == nil {
		t.Error("unknown pact must fail")
	}
	if _, _, err := BreakPact(gs, "pact-1", "player-0", 0.07); err == nil {
		t.Error("breaking an inactive pact must fail")
	}
	gs.Pacts[0].IsActive = true
	if _, _, err := BreakPact(gs, "pact-1", "player-9", 0.07); err == nil {
		t.Error("outsider cannot break a pact")
	}
}
