package risk

import "testing"

func TestTerritoryReinforcements(t *testing.T) {
	tests := []struct {
		count, want int
	}{
		{1, 3},
		{9, 3},
		{11, 3},
		{12, 4},
		{14, 4},
		{15, 5},
		{34, 11},
	}
	for _, tt := range tests {
		if got := TerritoryReinforcements(tt.count); got != tt.want {
			t.Errorf("TerritoryReinforcements(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestCalculateReinforcementsWithContinent(t *testing.T) {
	gs := &GameState{Territories: NewTerritories(), Continents: NewContinents()}
	// All of Australia (4 territories, bonus 2) plus 8 more for 12 total.
	for _, tid := range TerritoriesOf(Australia) {
		gs.Territories[tid].OwnerID = "p"
	}
	extra := []TerritoryID{
		"alaska", "greenland", "brazil", "peru",
		"egypt", "congo", "japan", "ural",
	}
	for _, tid := range extra {
		gs.Territories[tid].OwnerID = "p"
	}

	// 12 territories -> 4 base, +2 for Australia.
	if got := gs.CalculateReinforcements("p"); got != 6 {
		t.Errorf("CalculateReinforcements = %d, want 6", got)
	}
}
