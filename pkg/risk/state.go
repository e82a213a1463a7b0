// Package risk implements the authoritative rules engine for a
// territorial-conquest board game on a 34-territory world map.
//
// Every state transition is a pure function: it validates against the
// input state, then clones, mutates the clone, and returns it. A failed
// transition returns an error and leaves the input untouched, so callers
// can keep using their original state.
package risk

import "time"

// Phase is one of the five stages of the turn cycle.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseReinforce Phase = "reinforce"
	PhaseAttack    Phase = "attack"
	PhaseFortify   Phase = "fortify"
	PhaseGameOver  Phase = "gameOver"
)

// BattleMode selects how attacks are resolved.
type BattleMode string

const (
	BattleClassic  BattleMode = "classic"
	BattleTactical BattleMode = "tactical"
)

// Color is a player color from the fixed six-color palette.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
)

// PlayerColors is the fixed assignment order for new games.
var PlayerColors = []Color{Red, Blue, Green, Yellow, Purple, Orange}

// CardType is the troop type printed on a territory card.
type CardType string

const (
	CardInfantry  CardType = "infantry"
	CardCavalry   CardType = "cavalry"
	CardArtillery CardType = "artillery"
	CardWild      CardType = "wild"
)

// TerritoryCard is one card from the 36-card deck.
type TerritoryCard struct {
	ID          string      `json:"id"`
	TerritoryID TerritoryID `json:"territory_id,omitempty"` // empty for wild cards
	Type        CardType    `json:"type"`
}

// Player is one seat in the game, human or AI.
type Player struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Color          Color           `json:"color"`
	Reinforcements int             `json:"reinforcements"`
	Cards          []TerritoryCard `json:"cards"`
	IsEliminated   bool            `json:"is_eliminated"`
	// TerritoryCount caches the number of territories owned by this
	// player. Recomputed after every ownership change.
	TerritoryCount int `json:"territory_count"`
}

// Territory is one node of the map graph.
type Territory struct {
	ID          TerritoryID   `json:"id"`
	Name        string        `json:"name"`
	ContinentID ContinentID   `json:"continent_id"`
	AdjacentIDs []TerritoryID `json:"adjacent_ids"`
	OwnerID     string        `json:"owner_id,omitempty"` // empty only before distribution
	Troops      int           `json:"troops"`
}

// Continent groups territories and carries a control bonus.
type Continent struct {
	ID           ContinentID   `json:"id"`
	Name         string        `json:"name"`
	BonusTroops  int           `json:"bonus_troops"`
	TerritoryIDs []TerritoryID `json:"territory_ids"`
}

// DiplomacyPact is a bilateral non-aggression agreement. It starts
// inactive, becomes active on acceptance, and is permanently deactivated
// when broken.
type DiplomacyPact struct {
	ID              string    `json:"id"`
	PlayerIDs       [2]string `json:"player_ids"`
	CreatedTurn     int       `json:"created_turn"`
	MinimumDuration int       `json:"minimum_duration"`
	IsActive        bool      `json:"is_active"`
}

// Includes reports whether the given player is a member of the pact.
func (p DiplomacyPact) Includes(playerID string) bool {
	return p.PlayerIDs[0] == playerID || p.PlayerIDs[1] == playerID
}

// GameConfig holds the tunable parameters of a game.
type GameConfig struct {
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
	// StartingTroops maps player count to the total troops each player
	// begins with (placed territories plus setup reinforcement pool).
	StartingTroops map[int]int `json:"starting_troops"`
	BattleMode     BattleMode  `json:"battle_mode"`
	// PactBreakDesertionRate is the fraction of total troops lost when
	// breaking a pact, clamped to [0.05, 0.10] at enforcement time.
	PactBreakDesertionRate float64 `json:"pact_break_desertion_rate"`
}

// DefaultConfig returns the standard game parameters.
func DefaultConfig() GameConfig {
	return GameConfig{
		MinPlayers: 2,
		MaxPlayers: 6,
		StartingTroops: map[int]int{
			2: 40,
			3: 35,
			4: 30,
			5: 25,
			6: 20,
		},
		BattleMode:             BattleClassic,
		PactBreakDesertionRate: 0.07,
	}
}

// fallbackStartingTroops is used when a player count is missing from the
// config table.
const fallbackStartingTroops = 30

// GameState is the complete authoritative state of one game room.
type GameState struct {
	ID                 string                     `json:"id"`
	Phase              Phase                      `json:"phase"`
	Players            []Player                   `json:"players"`
	CurrentPlayerIndex int                        `json:"current_player_index"`
	TurnNumber         int                        `json:"turn_number"`
	Territories        map[TerritoryID]*Territory `json:"territories"`
	Continents         map[ContinentID]Continent  `json:"continents"`
	// Deck and DiscardPile are server-private; SanitizeForClient strips
	// them before any state leaves the process.
	Deck                 []TerritoryCard  `json:"deck,omitempty"`
	DiscardPile          []TerritoryCard  `json:"discard_pile,omitempty"`
	CardSetsTradedIn     int              `json:"card_sets_traded_in"`
	HasConqueredThisTurn bool             `json:"has_conquered_this_turn"`
	WinnerID             string           `json:"winner_id,omitempty"`
	ActiveBattle         *MiniBattleState `json:"active_battle,omitempty"`
	Pacts                []DiplomacyPact  `json:"pacts"`
	BattleMode           BattleMode       `json:"battle_mode"`
	AIPlayerIDs          []string         `json:"ai_player_ids"`
	LastUpdated          time.Time        `json:"last_updated"`
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	return &gs.Players[gs.CurrentPlayerIndex]
}

// PlayerByID returns the player with the given id, or nil.
func (gs *GameState) PlayerByID(id string) *Player {
	for i := range gs.Players {
		if gs.Players[i].ID == id {
			return &gs.Players[i]
		}
	}
	return nil
}

// AliveCount returns the number of non-eliminated players.
func (gs *GameState) AliveCount() int {
	count := 0
	for i := range gs.Players {
		if !gs.Players[i].IsEliminated {
			count++
		}
	}
	return count
}

// IsAIPlayer reports whether the given player id is AI-controlled.
func (gs *GameState) IsAIPlayer(id string) bool {
	for _, aid := range gs.AIPlayerIDs {
		if aid == id {
			return true
		}
	}
	return false
}

// TotalTroops returns the sum of troops across all territories owned by
// the given player.
func (gs *GameState) TotalTroops(playerID string) int {
	total := 0
	for _, t := range gs.Territories {
		if t.OwnerID == playerID {
			total += t.Troops
		}
	}
	return total
}

// Clone returns a deep copy of the GameState. Transitions mutate a clone
// so a failed call never leaves partial effects on the caller's state.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		ID:                   gs.ID,
		Phase:                gs.Phase,
		CurrentPlayerIndex:   gs.CurrentPlayerIndex,
		TurnNumber:           gs.TurnNumber,
		CardSetsTradedIn:     gs.CardSetsTradedIn,
		HasConqueredThisTurn: gs.HasConqueredThisTurn,
		WinnerID:             gs.WinnerID,
		BattleMode:           gs.BattleMode,
		LastUpdated:          time.Now().UTC(),
	}

	c.Players = make([]Player, len(gs.Players))
	copy(c.Players, gs.Players)
	for i := range c.Players {
		if gs.Players[i].Cards != nil {
			c.Players[i].Cards = make([]TerritoryCard, len(gs.Players[i].Cards))
			copy(c.Players[i].Cards, gs.Players[i].Cards)
		}
	}

	c.Territories = make(map[TerritoryID]*Territory, len(gs.Territories))
	for id, t := range gs.Territories {
		tc := *t
		c.Territories[id] = &tc
	}

	c.Continents = make(map[ContinentID]Continent, len(gs.Continents))
	for id, cont := range gs.Continents {
		c.Continents[id] = cont
	}

	if gs.Deck != nil {
		c.Deck = make([]TerritoryCard, len(gs.Deck))
		copy(c.Deck, gs.Deck)
	}
	if gs.DiscardPile != nil {
		c.DiscardPile = make([]TerritoryCard, len(gs.DiscardPile))
		copy(c.DiscardPile, gs.DiscardPile)
	}
	if gs.Pacts != nil {
		c.Pacts = make([]DiplomacyPact, len(gs.Pacts))
		copy(c.Pacts, gs.Pacts)
	}
	if gs.AIPlayerIDs != nil {
		c.AIPlayerIDs = make([]string, len(gs.AIPlayerIDs))
		copy(c.AIPlayerIDs, gs.AIPlayerIDs)
	}
	if gs.ActiveBattle != nil {
		b := *gs.ActiveBattle
		c.ActiveBattle = &b
	}

	return c
}
