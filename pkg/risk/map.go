package risk

// NewTerritories builds a fresh unowned territory map.
func NewTerritories() map[TerritoryID]*Territory {
	ts := make(map[TerritoryID]*Territory, len(territoryOrder))
	for _, id := range territoryOrder {
		def := territoryDefs[id]
		adj := make([]TerritoryID, len(def.adjacent))
		copy(adj, def.adjacent)
		ts[id] = &Territory{
			ID:          id,
			Name:        def.name,
			ContinentID: def.continent,
			AdjacentIDs: adj,
			Troops:      0,
		}
	}
	return ts
}

// NewContinents builds the continent table with territory membership
// derived from the map data.
func NewContinents() map[ContinentID]Continent {
	cs := make(map[ContinentID]Continent, len(continentOrder))
	for _, cid := range continentOrder {
		def := continentDefs[cid]
		var members []TerritoryID
		for _, tid := range territoryOrder {
			if territoryDefs[tid].continent == cid {
				members = append(members, tid)
			}
		}
		cs[cid] = Continent{
			ID:           cid,
			Name:         def.name,
			BonusTroops:  def.bonus,
			TerritoryIDs: members,
		}
	}
	return cs
}

// TerritoryOrder returns the canonical territory iteration order.
func TerritoryOrder() []TerritoryID {
	out := make([]TerritoryID, len(territoryOrder))
	copy(out, territoryOrder)
	return out
}

// AreAdjacent reports whether a and b share a border.
func AreAdjacent(a, b TerritoryID) bool {
	def, ok := territoryDefs[a]
	if !ok {
		return false
	}
	for _, n := range def.adjacent {
		if n == b {
			return true
		}
	}
	return false
}

// TerritoriesOf returns the territory ids belonging to a continent, in
// canonical order.
func TerritoriesOf(cid ContinentID) []TerritoryID {
	var out []TerritoryID
	for _, tid := range territoryOrder {
		if territoryDefs[tid].continent == cid {
			out = append(out, tid)
		}
	}
	return out
}

// ContinentBonus returns the reinforcement bonus for controlling the
// continent, or 0 for an unknown id.
func ContinentBonus(cid ContinentID) int {
	return continentDefs[cid].bonus
}

// PlayerTerritories returns the territories owned by a player, in
// canonical order.
func (gs *GameState) PlayerTerritories(playerID string) []*Territory {
	var out []*Territory
	for _, tid := range territoryOrder {
		if t := gs.Territories[tid]; t != nil && t.OwnerID == playerID {
			out = append(out, t)
		}
	}
	return out
}

// ControlsContinent reports whether the player owns every territory of
// the continent.
func (gs *GameState) ControlsContinent(playerID string, cid ContinentID) bool {
	cont, ok := gs.Continents[cid]
	if !ok {
		return false
	}
	for _, tid := range cont.TerritoryIDs {
		t := gs.Territories[tid]
		if t == nil || t.OwnerID != playerID {
			return false
		}
	}
	return true
}
