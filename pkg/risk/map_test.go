package risk

import "testing"

func TestMapHas34Territories(t *testing.T) {
	ts := NewTerritories()
	if len(ts) != 34 {
		t.Fatalf("expected 34 territories, got %d", len(ts))
	}
	if len(territoryOrder) != 34 {
		t.Fatalf("canonical order has %d entries, want 34", len(territoryOrder))
	}
	seen := map[TerritoryID]bool{}
	for _, id := range territoryOrder {
		if seen[id] {
			t.Errorf("duplicate id %s in canonical order", id)
		}
		seen[id] = true
		if _, ok := ts[id]; !ok {
			t.Errorf("canonical order references unknown territory %s", id)
		}
	}
}

func TestAdjacencySymmetricAndIrreflexive(t *testing.T) {
	for id, def := range territoryDefs {
		for _, n := range def.adjacent {
			if n == id {
				t.Errorf("%s lists itself as adjacent", id)
			}
			if _, ok := territoryDefs[n]; !ok {
				t.Errorf("%s lists unknown neighbor %s", id, n)
				continue
			}
			if !AreAdjacent(n, id) {
				t.Errorf("adjacency not symmetric: %s -> %s but not back", id, n)
			}
		}
	}
}

func TestAreAdjacent(t *testing.T) {
	tests := []struct {
		a, b TerritoryID
		want bool
	}{
		{"alaska", "kamchatka", true},
		{"kamchatka", "alaska", true},
		{"brazil", "north-africa", true},
		{"alaska", "greenland", false},
		{"japan", "china", false},
		{"alaska", "alaska", false},
		{"alaska", "atlantis", false},
	}
	for _, tt := range tests {
		if got := AreAdjacent(tt.a, tt.b); got != tt.want {
			t.Errorf("AreAdjacent(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestContinentBonuses(t *testing.T) {
	tests := []struct {
		cid         ContinentID
		bonus       int
		territories int
	}{
		{NorthAmerica, 5, 6},
		{SouthAmerica, 2, 4},
		{Europe, 5, 5},
		{Africa, 3, 6},
		{Asia, 7, 9},
		{Australia, 2, 4},
	}
	total := 0
	for _, tt := range tests {
		if got := ContinentBonus(tt.cid); got != tt.bonus {
			t.Errorf("ContinentBonus(%s) = %d, want %d", tt.cid, got, tt.bonus)
		}
		if got := len(TerritoriesOf(tt.cid)); got != tt.territories {
			t.Errorf("len(TerritoriesOf(%s)) = %d, want %d", tt.cid, got, tt.territories)
		}
		total += len(TerritoriesOf(tt.cid))
	}
	if total != 34 {
		t.Errorf("continents cover %d territories, want 34", total)
	}
}

func TestControlsContinent(t *testing.T) {
	gs := &GameState{Territories: NewTerritories(), Continents: NewContinents()}
	for _, tid := range TerritoriesOf(SouthAmerica) {
		gs.Territories[tid].OwnerID = "player-0"
	}
	if !gs.ControlsContinent("player-0", SouthAmerica) {
		t.Error("player-0 should control south-america")
	}
	gs.Territories["peru"].OwnerID = "player-1"
	if gs.ControlsContinent("player-0", SouthAmerica) {
		t.Error("player-0 should no longer control south-america")
	}
	if gs.ControlsContinent("player-0", "lemuria") {
		t.Error("unknown continent should never be controlled")
	}
}

func TestPlayerTerritoriesCanonicalOrder(t *testing.T) {
	gs := &GameState{Territories: NewTerritories()}
	gs.Territories["brazil"].OwnerID = "p"
	gs.Territories["alaska"].OwnerID = "p"
	gs.Territories["japan"].OwnerID = "p"

	got := gs.PlayerTerritories("p")
	want := []TerritoryID{"alaska", "brazil", "japan"}
	if len(got) != len(want) {
		t.Fatalf("got %d territories, want %d", len(got), len(want))
	}
	for i, tid := range want {
		if got[i].ID != tid {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, tid)
		}
	}
}
