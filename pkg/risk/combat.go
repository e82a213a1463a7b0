package risk

import "sort"

// CombatResult is the outcome of one classic dice exchange.
type CombatResult struct {
	AttackerDice   []int `json:"attacker_dice"`
	DefenderDice   []int `json:"defender_dice"`
	AttackerLosses int   `json:"attacker_losses"`
	DefenderLosses int   `json:"defender_losses"`
}

// MaxAttackDice returns the number of dice an attacker with the given
// garrison may roll. One troop must stay behind.
func MaxAttackDice(troops int) int {
	n := troops - 1
	if n > 3 {
		n = 3
	}
	if n < 0 {
		n = 0
	}
	return n
}

// MaxDefendDice returns the number of dice a defender with the given
// garrison may roll.
func MaxDefendDice(troops int) int {
	if troops >= 2 {
		return 2
	}
	if troops == 1 {
		return 1
	}
	return 0
}

// RollDice rolls n six-sided dice and returns them sorted descending.
func RollDice(n int) []int {
	dice := make([]int, n)
	for i := range dice {
		dice[i] = randIntn(6) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dice)))
	return dice
}

// ResolveCombat compares two sorted-descending dice sets pairwise. Each
// pair costs the lower side one troop; ties favor the defender.
func ResolveCombat(attackerDice, defenderDice []int) CombatResult {
	result := CombatResult{
		AttackerDice: attackerDice,
		DefenderDice: defenderDice,
	}
	pairs := len(attackerDice)
	if len(defenderDice) < pairs {
		pairs = len(defenderDice)
	}
	for i := 0; i < pairs; i++ {
		if attackerDice[i] > defenderDice[i] {
			result.DefenderLosses++
		} else {
			result.AttackerLosses++
		}
	}
	return result
}
