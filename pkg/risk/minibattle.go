package risk

// Tactical battle mode. Garrison counts convert into small fixed-size
// armies the client fights out in real time; the server only ever
// trusts a result that passes ValidateBattleResult. Battles with an AI
// on either side are resolved by SimulateBattle instead.

const (
	maxInfantry = 6
	maxCavalry  = 3
	maxCannons  = 3

	// BattleTimeLimit is the client-side play window in seconds.
	BattleTimeLimit = 60
)

// UnitCounts is an army breakdown by unit type.
type UnitCounts struct {
	Infantry int `json:"infantry"`
	Cavalry  int `json:"cavalry"`
	Cannons  int `json:"cannons"`
}

// Total returns the unit count across all types.
func (u UnitCounts) Total() int {
	return u.Infantry + u.Cavalry + u.Cannons
}

// BattleArmy is one side of a tactical battle.
type BattleArmy struct {
	PlayerID    string      `json:"player_id"`
	TerritoryID TerritoryID `json:"territory_id"`
	UnitCounts
	// SourceTroops is the garrison size the army was derived from.
	SourceTroops int `json:"source_troops"`
}

// MiniBattleState is a pending tactical battle awaiting a result.
type MiniBattleState struct {
	BattleID  string     `json:"battle_id"`
	Attacker  BattleArmy `json:"attacker"`
	Defender  BattleArmy `json:"defender"`
	TimeLimit int        `json:"time_limit"`
}

// MiniBattleResult is a client- or simulation-reported outcome.
type MiniBattleResult struct {
	BattleID          string     `json:"battle_id"`
	AttackerSurvivors UnitCounts `json:"attacker_survivors"`
	DefenderSurvivors UnitCounts `json:"defender_survivors"`
}

// TroopsToArmy converts a garrison into a battle army. Three infantry
// fill first, then up to three cavalry, then up to three cannons, and
// any overflow returns to infantry up to its cap of six. Armies top out
// at twelve units no matter the garrison size.
func TroopsToArmy(playerID string, territoryID TerritoryID, troops int) BattleArmy {
	remaining := troops
	if remaining < 1 {
		remaining = 1
	}

	infantry := remaining
	if infantry > 3 {
		infantry = 3
	}
	remaining -= infantry

	cavalry := 0
	if remaining > 0 {
		cavalry = remaining
		if cavalry > maxCavalry {
			cavalry = maxCavalry
		}
		remaining -= cavalry
	}

	cannons := 0
	if remaining > 0 {
		cannons = remaining
		if cannons > maxCannons {
			cannons = maxCannons
		}
		remaining -= cannons
	}

	if remaining > 0 {
		extra := maxInfantry - infantry
		if remaining < extra {
			extra = remaining
		}
		infantry += extra
	}

	return BattleArmy{
		PlayerID:     playerID,
		TerritoryID:  territoryID,
		UnitCounts:   UnitCounts{Infantry: infantry, Cavalry: cavalry, Cannons: cannons},
		SourceTroops: troops,
	}
}

// NewMiniBattle builds the pending battle state for an attack in
// tactical mode.
func NewMiniBattle(battleID, attackerID string, attackerTerritory TerritoryID, attackerTroops int,
	defenderID string, defenderTerritory TerritoryID, defenderTroops int) *MiniBattleState {
	return &MiniBattleState{
		BattleID:  battleID,
		Attacker:  TroopsToArmy(attackerID, attackerTerritory, attackerTroops),
		Defender:  TroopsToArmy(defenderID, defenderTerritory, defenderTroops),
		TimeLimit: BattleTimeLimit,
	}
}

// BattleOutcome is the engine-level consequence of a validated result.
type BattleOutcome struct {
	AttackerTroopsRemaining int  `json:"attacker_troops_remaining"`
	DefenderTroopsRemaining int  `json:"defender_troops_remaining"`
	Conquered               bool `json:"conquered"`
}

func unitsInRange(survivors, start UnitCounts) bool {
	return survivors.Infantry >= 0 && survivors.Infantry <= start.Infantry &&
		survivors.Cavalry >= 0 && survivors.Cavalry <= start.Cavalry &&
		survivors.Cannons >= 0 && survivors.Cannons <= start.Cannons
}

// ValidateBattleResult checks a reported result against the pending
// battle. Survivors must stay within the starting composition and at
// least one unit must have died. Conquest means the defender was wiped
// while the attacker was not.
func ValidateBattleResult(battle *MiniBattleState, result *MiniBattleResult) (*BattleOutcome, error) {
	if result.BattleID != battle.BattleID {
		return nil, antiCheatErr("battle id mismatch")
	}
	if !unitsInRange(result.AttackerSurvivors, battle.Attacker.UnitCounts) {
		return nil, antiCheatErr("attacker survivors out of range")
	}
	if !unitsInRange(result.DefenderSurvivors, battle.Defender.UnitCounts) {
		return nil, antiCheatErr("defender survivors out of range")
	}

	attackerLosses := battle.Attacker.Total() - result.AttackerSurvivors.Total()
	defenderLosses := battle.Defender.Total() - result.DefenderSurvivors.Total()
	if attackerLosses == 0 && defenderLosses == 0 {
		return nil, antiCheatErr("no casualties reported")
	}

	attackerAlive := result.AttackerSurvivors.Total() > 0
	defenderAlive := result.DefenderSurvivors.Total() > 0

	return &BattleOutcome{
		AttackerTroopsRemaining: result.AttackerSurvivors.Total(),
		DefenderTroopsRemaining: result.DefenderSurvivors.Total(),
		Conquered:               !defenderAlive && attackerAlive,
	}, nil
}

// applyDamage kills units weakest-first: infantry at 1 damage each,
// then cavalry at 2, then cannons at 3. Kill counts round up, so a
// partial hit still downs a unit.
func applyDamage(units *UnitCounts, damage int) {
	infKilled := (damage + 0) / 1
	if infKilled > units.Infantry {
		infKilled = units.Infantry
	}
	damage -= infKilled * 1
	if damage < 0 {
		damage = 0
	}
	units.Infantry -= infKilled

	cavKilled := (damage + 1) / 2
	if cavKilled > units.Cavalry {
		cavKilled = units.Cavalry
	}
	damage -= cavKilled * 2
	if damage < 0 {
		damage = 0
	}
	units.Cavalry -= cavKilled

	canKilled := (damage + 2) / 3
	if canKilled > units.Cannons {
		canKilled = units.Cannons
	}
	units.Cannons -= canKilled
}

// SimulateBattle auto-resolves a tactical battle for AI participants.
// Up to ten exchange rounds; each side deals damage weighted by unit
// type (infantry 1, cavalry 2, cannons 3) scaled by a random factor in
// [0.6, 1.0), applied simultaneously.
func SimulateBattle(battle *MiniBattleState) *MiniBattleResult {
	atk := battle.Attacker.UnitCounts
	def := battle.Defender.UnitCounts

	for round := 0; round < 10; round++ {
		if atk.Total() == 0 || def.Total() == 0 {
			break
		}

		atkDamage := atk.Infantry*1 + atk.Cavalry*2 + atk.Cannons*3
		defDamage := def.Infantry*1 + def.Cavalry*2 + def.Cannons*3

		toDef := int(float64(atkDamage) * (0.6 + randFloat64()*0.4))
		toAtk := int(float64(defDamage) * (0.6 + randFloat64()*0.4))

		// A lone infantry deals 1 damage, which the scale factor rounds
		// down to 0. Floor each exchange at 1 so every round draws blood
		// and the result always survives ValidateBattleResult.
		if toDef < 1 {
			toDef = 1
		}
		if toAtk < 1 {
			toAtk = 1
		}

		applyDamage(&def, toDef)
		applyDamage(&atk, toAtk)
	}

	return &MiniBattleResult{
		BattleID:          battle.BattleID,
		AttackerSurvivors: atk,
		DefenderSurvivors: def,
	}
}
