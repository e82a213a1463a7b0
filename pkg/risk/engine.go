package risk

import (
	"fmt"
	"time"
)

// NewGame creates a game in the setup phase. Territories are dealt
// round-robin over a shuffled order, seeded with one troop each; the
// rest of each player's starting pool is left to place during setup.
func NewGame(id string, playerNames []string, cfg GameConfig) (*GameState, error) {
	count := len(playerNames)
	if count < cfg.MinPlayers || count > cfg.MaxPlayers {
		return nil, fmt.Errorf("player count %d outside range [%d, %d]",
			count, cfg.MinPlayers, cfg.MaxPlayers)
	}

	players := make([]Player, count)
	for i, name := range playerNames {
		players[i] = Player{
			ID:    fmt.Sprintf("player-%d", i),
			Name:  name,
			Color: PlayerColors[i],
			Cards: []TerritoryCard{},
		}
	}

	territories := NewTerritories()

	shuffled := TerritoryOrder()
	randShuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i, tid := range shuffled {
		t := territories[tid]
		t.OwnerID = players[i%count].ID
		t.Troops = 1
	}

	gs := &GameState{
		ID:                 id,
		Phase:              PhaseSetup,
		Players:            players,
		CurrentPlayerIndex: 0,
		TurnNumber:         1,
		Territories:        territories,
		Continents:         NewContinents(),
		Deck:               newDeck(),
		DiscardPile:        []TerritoryCard{},
		Pacts:              []DiplomacyPact{},
		BattleMode:         cfg.BattleMode,
		AIPlayerIDs:        []string{},
		LastUpdated:        time.Now().UTC(),
	}
	updateTerritoryCounts(gs)

	starting, ok := cfg.StartingTroops[count]
	if !ok {
		starting = fallbackStartingTroops
	}
	for i := range gs.Players {
		gs.Players[i].Reinforcements = starting - gs.Players[i].TerritoryCount
	}

	return gs, nil
}

func updateTerritoryCounts(gs *GameState) {
	for i := range gs.Players {
		count := 0
		for _, t := range gs.Territories {
			if t.OwnerID == gs.Players[i].ID {
				count++
			}
		}
		gs.Players[i].TerritoryCount = count
	}
}

// advancePlayer moves the turn to the next player who can act. During
// setup that also means skipping players whose pool is already empty:
// round-robin dealing over 34 territories leaves the pools unequal, so
// some players finish placing before the others. Bounded so a board
// where nobody qualifies cannot loop.
func advancePlayer(gs *GameState) {
	for i := 0; i < len(gs.Players); i++ {
		gs.CurrentPlayerIndex = (gs.CurrentPlayerIndex + 1) % len(gs.Players)
		current := gs.CurrentPlayer()
		if current.IsEliminated {
			continue
		}
		if gs.Phase == PhaseSetup && current.Reinforcements <= 0 {
			continue
		}
		return
	}
}

func checkWinCondition(gs *GameState) {
	var alive *Player
	for i := range gs.Players {
		if !gs.Players[i].IsEliminated {
			if alive != nil {
				return
			}
			alive = &gs.Players[i]
		}
	}
	if alive != nil {
		gs.Phase = PhaseGameOver
		gs.WinnerID = alive.ID
	}
}

// SetupPlaceTroop places one troop from the acting player's setup pool,
// then passes placement to the next player. When every pool is empty the
// game enters the first reinforce phase.
func SetupPlaceTroop(gs *GameState, playerID string, territoryID TerritoryID) (*GameState, error) {
	if gs.Phase != PhaseSetup {
		return nil, phaseErr("not in setup phase")
	}
	next := gs.Clone()
	player := next.PlayerByID(playerID)
	if player == nil {
		return nil, turnErr("player %s not found", playerID)
	}
	if player.ID != next.CurrentPlayer().ID {
		return nil, turnErr("not your turn")
	}
	if player.Reinforcements <= 0 {
		return nil, resourceErr("no reinforcements left")
	}
	territory, ok := next.Territories[territoryID]
	if !ok {
		return nil, ownershipErr("territory %s not found", territoryID)
	}
	if territory.OwnerID != playerID {
		return nil, ownershipErr("you don't own %s", territoryID)
	}

	territory.Troops++
	player.Reinforcements--

	advancePlayer(next)

	allPlaced := true
	for i := range next.Players {
		if next.Players[i].Reinforcements > 0 {
			allPlaced = false
			break
		}
	}
	if allPlaced {
		next.Phase = PhaseReinforce
		next.CurrentPlayerIndex = 0
		first := &next.Players[0]
		first.Reinforcements = next.CalculateReinforcements(first.ID)
	}

	return next, nil
}

// ReinforcePlace puts count troops from the acting player's
// reinforcement pool onto one owned territory.
func ReinforcePlace(gs *GameState, playerID string, territoryID TerritoryID, count int) (*GameState, error) {
	if gs.Phase != PhaseReinforce {
		return nil, phaseErr("not in reinforce phase")
	}
	next := gs.Clone()
	player := next.PlayerByID(playerID)
	if player == nil {
		return nil, turnErr("player %s not found", playerID)
	}
	if player.ID != next.CurrentPlayer().ID {
		return nil, turnErr("not your turn")
	}
	if count < 1 || count > player.Reinforcements {
		return nil, quantityErr("invalid troop count %d", count)
	}
	territory, ok := next.Territories[territoryID]
	if !ok {
		return nil, ownershipErr("territory %s not found", territoryID)
	}
	if territory.OwnerID != playerID {
		return nil, ownershipErr("you don't own %s", territoryID)
	}

	territory.Troops += count
	player.Reinforcements -= count

	return next, nil
}

// ReinforceDone ends the reinforce phase. Every pool troop must be
// placed first.
func ReinforceDone(gs *GameState, playerID string) (*GameState, error) {
	if gs.Phase != PhaseReinforce {
		return nil, phaseErr("not in reinforce phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, turnErr("not your turn")
	}
	if player.Reinforcements > 0 {
		return nil, resourceErr("must place all reinforcements first")
	}

	next.Phase = PhaseAttack
	return next, nil
}

// AttackResult pairs the post-attack state with what the dice did.
type AttackResult struct {
	Combat    CombatResult `json:"combat"`
	FromID    TerritoryID  `json:"from_id"`
	ToID      TerritoryID  `json:"to_id"`
	Conquered bool         `json:"conquered"`
	// EliminatedID is set when the conquest removed the defender's last
	// territory.
	EliminatedID string `json:"eliminated_id,omitempty"`
}

// Attack resolves one classic dice exchange between an owned territory
// and an adjacent enemy territory. attackDice <= 0 means roll the
// maximum. On conquest the attacker moves in exactly the dice count used
// and takes the defender's cards if the defender is eliminated.
func Attack(gs *GameState, playerID string, fromID, toID TerritoryID, attackDice int) (*GameState, *AttackResult, error) {
	if gs.Phase != PhaseAttack {
		return nil, nil, phaseErr("not in attack phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, nil, turnErr("not your turn")
	}

	from, ok := next.Territories[fromID]
	if !ok {
		return nil, nil, ownershipErr("territory %s not found", fromID)
	}
	to, ok := next.Territories[toID]
	if !ok {
		return nil, nil, ownershipErr("territory %s not found", toID)
	}
	if from.OwnerID != playerID {
		return nil, nil, ownershipErr("you don't own the attacking territory")
	}
	if to.OwnerID == playerID {
		return nil, nil, ownershipErr("cannot attack your own territory")
	}
	if !AreAdjacent(fromID, toID) {
		return nil, nil, adjacencyErr("%s and %s are not adjacent", fromID, toID)
	}
	if from.Troops < 2 {
		return nil, nil, quantityErr("need at least 2 troops to attack")
	}

	if attackDice <= 0 {
		attackDice = MaxAttackDice(from.Troops)
	}
	if attackDice < 1 || attackDice > MaxAttackDice(from.Troops) {
		return nil, nil, quantityErr("invalid attack dice count %d", attackDice)
	}
	defendDice := MaxDefendDice(to.Troops)

	combat := ResolveCombat(RollDice(attackDice), RollDice(defendDice))
	from.Troops -= combat.AttackerLosses
	to.Troops -= combat.DefenderLosses

	result := &AttackResult{Combat: combat, FromID: fromID, ToID: toID}

	if to.Troops <= 0 {
		result.Conquered = true
		defenderID := to.OwnerID
		to.OwnerID = playerID
		// Move in exactly the dice count used; attackMove can bring more.
		from.Troops -= attackDice
		to.Troops = attackDice

		next.HasConqueredThisTurn = true
		updateTerritoryCounts(next)

		defender := next.PlayerByID(defenderID)
		if defender != nil && defender.TerritoryCount == 0 {
			defender.IsEliminated = true
			result.EliminatedID = defender.ID
			player.Cards = append(player.Cards, defender.Cards...)
			defender.Cards = []TerritoryCard{}
		}

		checkWinCondition(next)
	}

	return next, result, nil
}

// AttackMove shifts extra troops between two owned adjacent territories
// during the attack phase, typically into a fresh conquest.
func AttackMove(gs *GameState, playerID string, fromID, toID TerritoryID, count int) (*GameState, error) {
	if gs.Phase != PhaseAttack {
		return nil, phaseErr("not in attack phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, turnErr("not your turn")
	}

	from, ok := next.Territories[fromID]
	if !ok {
		return nil, ownershipErr("territory %s not found", fromID)
	}
	to, ok := next.Territories[toID]
	if !ok {
		return nil, ownershipErr("territory %s not found", toID)
	}
	if from.OwnerID != playerID || to.OwnerID != playerID {
		return nil, ownershipErr("you must own both territories")
	}
	if !AreAdjacent(fromID, toID) {
		return nil, adjacencyErr("%s and %s are not adjacent", fromID, toID)
	}
	if count < 0 || count >= from.Troops {
		return nil, quantityErr("invalid troop count %d (must leave at least 1)", count)
	}

	from.Troops -= count
	to.Troops += count

	return next, nil
}

// AttackDone ends the attack phase. A conquest this turn earns one card
// from the deck, at most one per turn.
func AttackDone(gs *GameState, playerID string) (*GameState, error) {
	if gs.Phase != PhaseAttack {
		return nil, phaseErr("not in attack phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, turnErr("not your turn")
	}

	if next.HasConqueredThisTurn && len(next.Deck) > 0 {
		card := next.Deck[len(next.Deck)-1]
		next.Deck = next.Deck[:len(next.Deck)-1]
		player.Cards = append(player.Cards, card)
	}

	next.Phase = PhaseFortify
	return next, nil
}

// AreConnected reports whether two territories are linked by a chain of
// territories all owned by the given player. BFS over the adjacency
// graph restricted to the player's holdings.
func AreConnected(territories map[TerritoryID]*Territory, playerID string, fromID, toID TerritoryID) bool {
	visited := map[TerritoryID]bool{fromID: true}
	queue := []TerritoryID{fromID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == toID {
			return true
		}
		for _, nid := range territories[current].AdjacentIDs {
			if !visited[nid] && territories[nid].OwnerID == playerID {
				visited[nid] = true
				queue = append(queue, nid)
			}
		}
	}
	return false
}

// Fortify moves troops between two owned territories connected through
// the player's own territory chain.
func Fortify(gs *GameState, playerID string, fromID, toID TerritoryID, count int) (*GameState, error) {
	if gs.Phase != PhaseFortify {
		return nil, phaseErr("not in fortify phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, turnErr("not your turn")
	}

	from, ok := next.Territories[fromID]
	if !ok {
		return nil, ownershipErr("territory %s not found", fromID)
	}
	to, ok := next.Territories[toID]
	if !ok {
		return nil, ownershipErr("territory %s not found", toID)
	}
	if from.OwnerID != playerID || to.OwnerID != playerID {
		return nil, ownershipErr("you must own both territories")
	}
	if fromID == toID {
		return nil, adjacencyErr("cannot fortify to the same territory")
	}
	if count < 1 || count >= from.Troops {
		return nil, quantityErr("invalid troop count %d (must leave at least 1)", count)
	}
	if !AreConnected(next.Territories, playerID, fromID, toID) {
		return nil, adjacencyErr("%s and %s are not connected through your territories", fromID, toID)
	}

	from.Troops -= count
	to.Troops += count

	return next, nil
}

// FortifyDone ends the turn: the conquest flag resets, play passes to
// the next living player, and that player is granted reinforcements.
func FortifyDone(gs *GameState, playerID string) (*GameState, error) {
	if gs.Phase != PhaseFortify {
		return nil, phaseErr("not in fortify phase")
	}
	next := gs.Clone()
	player := next.CurrentPlayer()
	if player.ID != playerID {
		return nil, turnErr("not your turn")
	}

	next.HasConqueredThisTurn = false
	advancePlayer(next)
	next.TurnNumber++
	next.Phase = PhaseReinforce

	current := next.CurrentPlayer()
	current.Reinforcements = next.CalculateReinforcements(current.ID)

	return next, nil
}

// TradeCards exchanges three cards for bonus reinforcements during the
// reinforce phase. Each traded card whose territory the trader still
// owns also adds two troops there directly.
func TradeCards(gs *GameState, playerID string, cardIDs []string) (*GameState, error) {
	if gs.Phase != PhaseReinforce {
		return nil, phaseErr("can only trade cards during reinforce phase")
	}
	next := gs.Clone()
	player := next.PlayerByID(playerID)
	if player == nil {
		return nil, turnErr("player %s not found", playerID)
	}
	if player.ID != next.CurrentPlayer().ID {
		return nil, turnErr("not your turn")
	}
	if len(cardIDs) != 3 {
		return nil, resourceErr("must trade exactly 3 cards")
	}

	cards := make([]TerritoryCard, 0, 3)
	for _, cid := range cardIDs {
		found := false
		for _, c := range player.Cards {
			if c.ID == cid {
				cards = append(cards, c)
				found = true
				break
			}
		}
		if !found {
			return nil, resourceErr("card %s not in hand", cid)
		}
	}
	if !IsValidCardSet(cards) {
		return nil, resourceErr("invalid card set")
	}

	bonus := CardSetBonus(next.CardSetsTradedIn)
	player.Reinforcements += bonus
	next.CardSetsTradedIn++

	traded := make(map[string]bool, 3)
	for _, cid := range cardIDs {
		traded[cid] = true
	}
	kept := player.Cards[:0]
	for _, c := range player.Cards {
		if !traded[c.ID] {
			kept = append(kept, c)
		}
	}
	player.Cards = kept
	next.DiscardPile = append(next.DiscardPile, cards...)

	for _, c := range cards {
		if c.TerritoryID == "" {
			continue
		}
		if t, ok := next.Territories[c.TerritoryID]; ok && t.OwnerID == playerID {
			t.Troops += 2
		}
	}

	return next, nil
}

// SanitizeForClient strips server-only fields before state leaves the
// process. The deck and discard pile are always removed; when a viewer
// is given, every other hand is replaced with same-length placeholders
// so clients learn card counts but not contents.
func SanitizeForClient(gs *GameState, viewerID string) *GameState {
	out := gs.Clone()
	out.Deck = nil
	out.DiscardPile = nil

	if viewerID != "" {
		for i := range out.Players {
			p := &out.Players[i]
			if p.ID == viewerID {
				continue
			}
			hidden := make([]TerritoryCard, len(p.Cards))
			for j := range hidden {
				hidden[j] = TerritoryCard{ID: "hidden", Type: CardInfantry}
			}
			p.Cards = hidden
		}
	}

	return out
}
