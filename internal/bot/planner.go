// Package bot decides turns for AI-controlled players. The planner only
// reads game state and returns proposals; the room executes them through
// the engine, which remains the sole authority on legality.
package bot

import (
	"sort"

	"github.com/kmcrae/warfront/api/pkg/risk"
)

// Difficulty selects how aggressive and focused the planner is.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a client-supplied string to a known difficulty,
// defaulting to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	default:
		return Medium
	}
}

// attackRatioThreshold is the minimum troop ratio the planner demands
// before proposing an attack.
func (d Difficulty) attackRatioThreshold() float64 {
	switch d {
	case Easy:
		return 3.0
	case Hard:
		return 1.5
	default:
		return 2.0
	}
}

// Placement is one reinforce-phase troop drop.
type Placement struct {
	TerritoryID risk.TerritoryID
	Count       int
}

// AttackProposal names an attack the planner wants executed.
type AttackProposal struct {
	FromID risk.TerritoryID
	ToID   risk.TerritoryID
}

// FortifyProposal names a fortify move. The engine may still reject it
// (connectivity is not re-checked here); callers skip fortify on
// rejection.
type FortifyProposal struct {
	FromID risk.TerritoryID
	ToID   risk.TerritoryID
	Count  int
}

// TurnPlan is a full-turn sketch built against one state snapshot. The
// attack list is speculative; drivers should re-plan between executed
// attacks because each one changes the board.
type TurnPlan struct {
	SetupPlacement *risk.TerritoryID
	Reinforcements []Placement
	Attacks        []AttackProposal
	Fortify        *FortifyProposal
}

// Planner produces decisions for one AI player.
type Planner struct {
	Difficulty Difficulty
}

// New returns a planner at the given difficulty.
func New(d Difficulty) *Planner {
	return &Planner{Difficulty: d}
}

// borderThreat counts enemy-held neighbors of a territory.
func borderThreat(gs *risk.GameState, tid risk.TerritoryID, playerID string) int {
	count := 0
	for _, adj := range gs.Territories[tid].AdjacentIDs {
		if gs.Territories[adj].OwnerID != playerID {
			count++
		}
	}
	return count
}

// adjacentEnemyTroops sums enemy troops on neighbors of a territory.
func adjacentEnemyTroops(gs *risk.GameState, tid risk.TerritoryID, playerID string) int {
	total := 0
	for _, adj := range gs.Territories[tid].AdjacentIDs {
		if t := gs.Territories[adj]; t.OwnerID != playerID {
			total += t.Troops
		}
	}
	return total
}

func isBorder(gs *risk.GameState, tid risk.TerritoryID, playerID string) bool {
	return borderThreat(gs, tid, playerID) > 0
}

// SetupPlacement picks the owned territory most in need of the next
// setup troop: borders first, weighted by how much enemy strength sits
// next door.
func (p *Planner) SetupPlacement(gs *risk.GameState, playerID string) risk.TerritoryID {
	owned := gs.PlayerTerritories(playerID)
	if len(owned) == 0 {
		return ""
	}

	best := owned[0].ID
	bestScore := -1
	for _, t := range owned {
		score := borderThreat(gs, t.ID, playerID)*10 + adjacentEnemyTroops(gs, t.ID, playerID)
		if score > bestScore {
			bestScore = score
			best = t.ID
		}
	}
	return best
}

// ReinforcePlacements distributes the player's full reinforcement pool.
// Easy spreads evenly across all borders; medium concentrates on the
// three most threatened; hard on the two most threatened. Threat is
// adjacent enemy troops minus the garrison already there. Any remainder
// lands on the top target.
func (p *Planner) ReinforcePlacements(gs *risk.GameState, playerID string) []Placement {
	player := gs.PlayerByID(playerID)
	if player == nil || player.Reinforcements <= 0 {
		return nil
	}
	reinforcements := player.Reinforcements

	owned := gs.PlayerTerritories(playerID)
	var borders []risk.TerritoryID
	for _, t := range owned {
		if isBorder(gs, t.ID, playerID) {
			borders = append(borders, t.ID)
		}
	}
	if len(borders) == 0 {
		if len(owned) == 0 {
			return nil
		}
		return []Placement{{TerritoryID: owned[0].ID, Count: reinforcements}}
	}

	scored := make([]risk.TerritoryID, len(borders))
	copy(scored, borders)
	sort.SliceStable(scored, func(i, j int) bool {
		si := adjacentEnemyTroops(gs, scored[i], playerID) - gs.Territories[scored[i]].Troops
		sj := adjacentEnemyTroops(gs, scored[j], playerID) - gs.Territories[scored[j]].Troops
		return si > sj
	})

	var placements []Placement

	if p.Difficulty == Easy {
		per := reinforcements / len(borders)
		if per < 1 {
			per = 1
		}
		for _, tid := range borders {
			if reinforcements <= 0 {
				break
			}
			count := per
			if count > reinforcements {
				count = reinforcements
			}
			placements = append(placements, Placement{TerritoryID: tid, Count: count})
			reinforcements -= count
		}
		if reinforcements > 0 {
			placements = append(placements, Placement{TerritoryID: scored[0], Count: reinforcements})
		}
		return placements
	}

	topCount := 3
	if p.Difficulty == Hard {
		topCount = 2
	}
	if topCount > len(scored) {
		topCount = len(scored)
	}
	targets := scored[:topCount]
	per := reinforcements / len(targets)
	if per < 1 {
		per = 1
	}
	for _, tid := range targets {
		if reinforcements <= 0 {
			break
		}
		count := per
		if count > reinforcements {
			count = reinforcements
		}
		placements = append(placements, Placement{TerritoryID: tid, Count: count})
		reinforcements -= count
	}
	if reinforcements > 0 {
		placements = append(placements, Placement{TerritoryID: targets[0], Count: reinforcements})
	}
	return placements
}

// NextAttack picks the best available attack, or nil to stop. Attacks
// against active pact partners are never proposed. The best candidate
// must beat the difficulty's troop-ratio threshold; hard additionally
// prefers any attack that would complete a continent at ratio 1.5+.
func (p *Planner) NextAttack(gs *risk.GameState, playerID string) *AttackProposal {
	type candidate struct {
		from, to risk.TerritoryID
		ratio    float64
	}
	var candidates []candidate

	for _, from := range gs.PlayerTerritories(playerID) {
		if from.Troops < 2 {
			continue
		}
		for _, toID := range from.AdjacentIDs {
			to := gs.Territories[toID]
			if to.OwnerID == playerID {
				continue
			}
			if risk.HavePact(gs, playerID, to.OwnerID) {
				continue
			}
			candidates = append(candidates, candidate{
				from:  from.ID,
				to:    toID,
				ratio: float64(from.Troops) / float64(to.Troops),
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ratio > candidates[j].ratio
	})

	if candidates[0].ratio < p.Difficulty.attackRatioThreshold() {
		return nil
	}

	if p.Difficulty == Hard {
		for _, c := range candidates {
			if c.ratio >= 1.5 && p.completesContinent(gs, playerID, c.to) {
				return &AttackProposal{FromID: c.from, ToID: c.to}
			}
		}
	}

	return &AttackProposal{FromID: candidates[0].from, ToID: candidates[0].to}
}

// completesContinent reports whether taking tid would give the player
// its whole continent.
func (p *Planner) completesContinent(gs *risk.GameState, playerID string, tid risk.TerritoryID) bool {
	cont, ok := gs.Continents[gs.Territories[tid].ContinentID]
	if !ok {
		return false
	}
	owned := 0
	for _, member := range cont.TerritoryIDs {
		if gs.Territories[member].OwnerID == playerID {
			owned++
		}
	}
	return owned == len(cont.TerritoryIDs)-1
}

// FortifyMove shifts surplus from the deepest interior stack to the
// weakest border, or nil when there is nothing worth moving. The engine
// decides connectivity; a rejected proposal just means skip.
func (p *Planner) FortifyMove(gs *risk.GameState, playerID string) *FortifyProposal {
	owned := gs.PlayerTerritories(playerID)

	var interior, borders []*risk.Territory
	for _, t := range owned {
		if isBorder(gs, t.ID, playerID) {
			borders = append(borders, t)
		} else {
			interior = append(interior, t)
		}
	}
	if len(interior) == 0 || len(borders) == 0 {
		return nil
	}

	var source *risk.Territory
	for _, t := range interior {
		if t.Troops <= 1 {
			continue
		}
		if source == nil || t.Troops > source.Troops {
			source = t
		}
	}
	if source == nil {
		return nil
	}

	target := borders[0]
	for _, t := range borders[1:] {
		if t.Troops < target.Troops {
			target = t
		}
	}

	return &FortifyProposal{
		FromID: source.ID,
		ToID:   target.ID,
		Count:  source.Troops - 1,
	}
}

// maxPlannedAttacks caps the speculative attack list in a turn plan.
const maxPlannedAttacks = 5

// PlanTurn sketches a whole turn from one snapshot. During setup it
// returns only a placement. The attack list repeats NextAttack against
// the unchanged snapshot up to the cap; drivers re-plan as the board
// evolves.
func (p *Planner) PlanTurn(gs *risk.GameState, playerID string) *TurnPlan {
	plan := &TurnPlan{}

	if gs.Phase == risk.PhaseSetup {
		tid := p.SetupPlacement(gs, playerID)
		if tid != "" {
			plan.SetupPlacement = &tid
		}
		return plan
	}

	if gs.Phase == risk.PhaseReinforce {
		plan.Reinforcements = p.ReinforcePlacements(gs, playerID)
	}

	if gs.Phase == risk.PhaseReinforce || gs.Phase == risk.PhaseAttack {
		for i := 0; i < maxPlannedAttacks; i++ {
			attack := p.NextAttack(gs, playerID)
			if attack == nil {
				break
			}
			plan.Attacks = append(plan.Attacks, *attack)
		}
	}

	plan.Fortify = p.FortifyMove(gs, playerID)
	return plan
}
