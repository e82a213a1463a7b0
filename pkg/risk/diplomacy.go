package risk

import "sort"

// NewPact creates a pact proposal between two players. It stays inactive
// until the counterparty accepts.
func NewPact(id, playerA, playerB string, currentTurn, minimumDuration int) DiplomacyPact {
	return DiplomacyPact{
		ID:              id,
		PlayerIDs:       [2]string{playerA, playerB},
		CreatedTurn:     currentTurn,
		MinimumDuration: minimumDuration,
		IsActive:        false,
	}
}

// AcceptPact activates a pending pact.
func AcceptPact(gs *GameState, pactID string) (*GameState, error) {
	next := gs.Clone()
	pact := findPact(next, pactID)
	if pact == nil {
		return nil, resourceErr("pact %s not found", pactID)
	}
	if pact.IsActive {
		return nil, resourceErr("pact %s already active", pactID)
	}
	pact.IsActive = true
	return next, nil
}

// RemovePact deletes a pact outright, used when a proposal is rejected.
func RemovePact(gs *GameState, pactID string) (*GameState, error) {
	next := gs.Clone()
	for i := range next.Pacts {
		if next.Pacts[i].ID == pactID {
			next.Pacts = append(next.Pacts[:i], next.Pacts[i+1:]...)
			return next, nil
		}
	}
	return nil, resourceErr("pact %s not found", pactID)
}

// HavePact reports whether two players share an active pact.
func HavePact(gs *GameState, playerA, playerB string) bool {
	return GetPact(gs, playerA, playerB) != nil
}

// GetPact returns the active pact between two players, or nil.
func GetPact(gs *GameState, playerA, playerB string) *DiplomacyPact {
	for i := range gs.Pacts {
		p := &gs.Pacts[i]
		if p.IsActive && p.Includes(playerA) && p.Includes(playerB) {
			return p
		}
	}
	return nil
}

func findPact(gs *GameState, pactID string) *DiplomacyPact {
	for i := range gs.Pacts {
		if gs.Pacts[i].ID == pactID {
			return &gs.Pacts[i]
		}
	}
	return nil
}

// PactBreakPenalty describes the desertion cost paid for breaking a
// pact.
type PactBreakPenalty struct {
	BreakerID           string        `json:"breaker_id"`
	DesertionRate       float64       `json:"desertion_rate"`
	TroopsLost          int           `json:"troops_lost"`
	AffectedTerritories []TerritoryID `json:"affected_territories"`
}

// BreakPact deactivates an active pact and applies the desertion
// penalty to the breaker: a clamped fraction of their total troops,
// drained from the largest garrisons first, never reducing a territory
// below one troop.
func BreakPact(gs *GameState, pactID, breakerID string, desertionRate float64) (*GameState, *PactBreakPenalty, error) {
	next := gs.Clone()
	pact := findPact(next, pactID)
	if pact == nil {
		return nil, nil, resourceErr("pact %s not found", pactID)
	}
	if !pact.IsActive {
		return nil, nil, resourceErr("pact %s is not active", pactID)
	}
	if !pact.Includes(breakerID) {
		return nil, nil, resourceErr("player %s is not in this pact", breakerID)
	}

	pact.IsActive = false

	owned := next.PlayerTerritories(breakerID)
	totalTroops := 0
	for _, t := range owned {
		totalTroops += t.Troops
	}

	rate := desertionRate
	if rate < 0.05 {
		rate = 0.05
	}
	if rate > 0.10 {
		rate = 0.10
	}
	troopsToLose := int(float64(totalTroops) * rate)
	if troopsToLose < 1 {
		troopsToLose = 1
	}

	// Largest garrisons pay first; canonical map order breaks ties.
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].Troops > owned[j].Troops
	})

	remaining := troopsToLose
	var affected []TerritoryID
	for _, t := range owned {
		if remaining <= 0 {
			break
		}
		canLose := t.Troops - 1
		if canLose <= 0 {
			continue
		}
		loss := canLose
		if remaining < loss {
			loss = remaining
		}
		t.Troops -= loss
		remaining -= loss
		affected = append(affected, t.ID)
	}

	penalty := &PactBreakPenalty{
		BreakerID:           breakerID,
		DesertionRate:       rate,
		TroopsLost:          troopsToLose - remaining,
		AffectedTerritories: affected,
	}

	return next, penalty, nil
}
