package risk

// TerritoryReinforcements returns the base reinforcement income for
// owning the given number of territories: one per three, minimum three.
func TerritoryReinforcements(territoryCount int) int {
	n := territoryCount / 3
	if n < 3 {
		n = 3
	}
	return n
}

// ContinentBonuses sums the bonuses of every continent the player fully
// controls.
func (gs *GameState) ContinentBonuses(playerID string) int {
	total := 0
	for _, cid := range continentOrder {
		if gs.ControlsContinent(playerID, cid) {
			total += gs.Continents[cid].BonusTroops
		}
	}
	return total
}

// CalculateReinforcements returns the troops granted to the player at
// the start of their reinforce phase.
func (gs *GameState) CalculateReinforcements(playerID string) int {
	count := 0
	for _, t := range gs.Territories {
		if t.OwnerID == playerID {
			count++
		}
	}
	return TerritoryReinforcements(count) + gs.ContinentBonuses(playerID)
}
