package risk

import "fmt"

// cardSetBonusSchedule gives the troop bonus for the nth traded set.
// After the schedule runs out each further set is worth 5 more than the
// last scheduled value.
var cardSetBonusSchedule = []int{4, 6, 8, 10, 12, 15}

// CardSetBonus returns the troop bonus for trading in a set when
// setsTradedSoFar sets have already been traded game-wide.
func CardSetBonus(setsTradedSoFar int) int {
	if setsTradedSoFar < len(cardSetBonusSchedule) {
		return cardSetBonusSchedule[setsTradedSoFar]
	}
	last := cardSetBonusSchedule[len(cardSetBonusSchedule)-1]
	return last + 5*(setsTradedSoFar-len(cardSetBonusSchedule)+1)
}

// IsValidCardSet reports whether three cards form a tradeable set:
// three of a kind, three distinct types, or any set containing a wild.
func IsValidCardSet(cards []TerritoryCard) bool {
	if len(cards) != 3 {
		return false
	}
	wilds := 0
	for _, c := range cards {
		if c.Type == CardWild {
			wilds++
		}
	}
	if wilds >= 1 {
		return true
	}
	a, b, c := cards[0].Type, cards[1].Type, cards[2].Type
	if a == b && b == c {
		return true
	}
	if a != b && b != c && a != c {
		return true
	}
	return false
}

// newDeck builds the 36-card deck: one typed card per territory assigned
// round-robin infantry/cavalry/artillery in canonical map order, plus
// two wilds, shuffled once.
func newDeck() []TerritoryCard {
	types := []CardType{CardInfantry, CardCavalry, CardArtillery}
	deck := make([]TerritoryCard, 0, len(territoryOrder)+2)
	for i, tid := range territoryOrder {
		deck = append(deck, TerritoryCard{
			ID:          fmt.Sprintf("card-%s", tid),
			TerritoryID: tid,
			Type:        types[i%len(types)],
		})
	}
	deck = append(deck,
		TerritoryCard{ID: "wild-1", Type: CardWild},
		TerritoryCard{ID: "wild-2", Type: CardWild},
	)
	randShuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
