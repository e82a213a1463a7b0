package room

import (
	"github.com/google/uuid"

	"github.com/kmcrae/warfront/api/pkg/risk"
)

// openMiniBattleLocked validates an attack in tactical mode and opens a
// mini-battle instead of rolling dice. The attacker commits everything
// but the garrison troop. Battles involving an AI on either side are
// resolved immediately by simulation.
func (r *Room) openMiniBattleLocked(playerID string, fromID, toID risk.TerritoryID) error {
	gs := r.state
	if gs.Phase != risk.PhaseAttack {
		return &risk.RuleError{Code: risk.ViolationPhase, Message: "not in attack phase"}
	}
	if gs.CurrentPlayer().ID != playerID {
		return &risk.RuleError{Code: risk.ViolationTurn, Message: "not your turn"}
	}
	if gs.ActiveBattle != nil {
		return resourceError("a battle is already in progress")
	}

	from, ok := gs.Territories[fromID]
	if !ok {
		return &risk.RuleError{Code: risk.ViolationOwnership, Message: "territory not found"}
	}
	to, ok := gs.Territories[toID]
	if !ok {
		return &risk.RuleError{Code: risk.ViolationOwnership, Message: "territory not found"}
	}
	if from.OwnerID != playerID {
		return &risk.RuleError{Code: risk.ViolationOwnership, Message: "you don't own the attacking territory"}
	}
	if to.OwnerID == playerID {
		return &risk.RuleError{Code: risk.ViolationOwnership, Message: "cannot attack your own territory"}
	}
	if !risk.AreAdjacent(fromID, toID) {
		return &risk.RuleError{Code: risk.ViolationAdjacency, Message: "territories are not adjacent"}
	}
	if from.Troops < 2 {
		return &risk.RuleError{Code: risk.ViolationQuantity, Message: "need at least 2 troops to attack"}
	}

	battle := risk.NewMiniBattle(
		"battle-"+uuid.NewString(),
		playerID, fromID, from.Troops-1,
		to.OwnerID, toID, to.Troops,
	)
	next := gs.Clone()
	next.ActiveBattle = battle
	r.state = next

	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventBattleStart, Data: battle})

	if gs.IsAIPlayer(playerID) || gs.IsAIPlayer(to.OwnerID) {
		result := risk.SimulateBattle(battle)
		if err := r.resolveBattleLocked(result); err != nil {
			// A rejected simulation must not leave the battle pending, or
			// every later attack dies on "battle in progress".
			cleared := r.state.Clone()
			cleared.ActiveBattle = nil
			r.state = cleared
			return err
		}
	}
	return nil
}

// BattleResult accepts a client-reported tactical battle outcome. Only
// a battle participant may submit, and the report must survive the
// anti-cheat checks.
func (r *Room) BattleResult(sessionID string, result *risk.MiniBattleResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return resourceError("game has not started")
	}
	m := r.memberBySession(sessionID)
	if m == nil {
		return resourceError("you are not in this game")
	}
	battle := r.state.ActiveBattle
	if battle == nil {
		return resourceError("no active battle")
	}
	if m.PlayerID != battle.Attacker.PlayerID && m.PlayerID != battle.Defender.PlayerID {
		return resourceError("you are not part of this battle")
	}
	return r.resolveBattleLocked(result)
}

// resolveBattleLocked validates and applies a battle result: garrisons
// take their casualties, conquest flips ownership, eliminations hand
// over cards, and the win condition is checked.
func (r *Room) resolveBattleLocked(result *risk.MiniBattleResult) error {
	battle := r.state.ActiveBattle
	if battle == nil {
		return resourceError("no active battle")
	}

	outcome, err := risk.ValidateBattleResult(battle, result)
	if err != nil {
		return err
	}

	next := r.state.Clone()
	next.ActiveBattle = nil

	from := next.Territories[battle.Attacker.TerritoryID]
	to := next.Territories[battle.Defender.TerritoryID]
	from.Troops = outcome.AttackerTroopsRemaining
	to.Troops = outcome.DefenderTroopsRemaining

	if outcome.Conquered {
		defenderID := to.OwnerID
		to.OwnerID = battle.Attacker.PlayerID
		next.HasConqueredThisTurn = true
		refreshCounts(next)

		defender := next.PlayerByID(defenderID)
		attacker := next.PlayerByID(battle.Attacker.PlayerID)
		if defender != nil && defender.TerritoryCount == 0 {
			defender.IsEliminated = true
			if attacker != nil {
				attacker.Cards = append(attacker.Cards, defender.Cards...)
			}
			defender.Cards = []risk.TerritoryCard{}
			r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventPlayerEliminated, Data: EliminationEvent{
				PlayerID:     defenderID,
				EliminatedBy: battle.Attacker.PlayerID,
			}})
		}

		if alive := aliveIDs(next); len(alive) == 1 {
			next.Phase = risk.PhaseGameOver
			next.WinnerID = alive[0]
			r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventGameOver, Data: GameOverEvent{WinnerID: alive[0]}})
		}
	}

	r.state = next

	r.broadcaster.BroadcastToRoom(r.ID, Event{Type: EventBattleEnd, Data: BattleEndEvent{
		Result:    *result,
		Conquered: outcome.Conquered,
	}})
	r.broadcastState()
	r.scheduleAILocked()
	return nil
}

func refreshCounts(gs *risk.GameState) {
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

func aliveIDs(gs *risk.GameState) []string {
	var out []string
	for i := range gs.Players {
		if !gs.Players[i].IsEliminated {
			out = append(out, gs.Players[i].ID)
		}
	}
	return out
}
