// Package holdem evaluates and compares 5-card poker hands and carries the
// showdown pot split math.
package holdem

import (
	"sort"

	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/deck"
)

// Hand errors (500-599).
var (
	ErrInvalidHand    = errorsmod.Register("poker", 500, "invalid hand")
	ErrDuplicateCards = errorsmod.Register("poker", 501, "duplicate cards in hand")
	ErrIllegalCard    = errorsmod.Register("poker", 502, "card not in the canonical deck")
)

// Category classifies a 5-card hand. Lower ordinal is the better hand.
type Category uint8

const (
	RoyalFlush Category = iota
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	Pair
	HighCard
)

func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "royal flush"
	case StraightFlush:
		return "straight flush"
	case FourOfAKind:
		return "four of a kind"
	case FullHouse:
		return "full house"
	case Flush:
		return "flush"
	case Straight:
		return "straight"
	case ThreeOfAKind:
		return "three of a kind"
	case TwoPair:
		return "two pair"
	case Pair:
		return "pair"
	default:
		return "high card"
	}
}

// TiebreakSize is the fixed tiebreak vector width. Unused slots hold -1 so a
// filled slot always beats an absent one when categories match.
// HandSize is the number of cards in a submitted hand.
const HandSize = 5

const TiebreakSize = 5

// Rank is a fully evaluated hand: category plus the tiebreak vector ordered
// by significance (quad rank then kicker, two-pair high pair / low pair /
// kicker, and so on).
type Rank struct {
	Category Category
	Tiebreak [TiebreakSize]int8
}

// Evaluate classifies a 5-card hand. Card order values (Ace = 13) populate
// the tiebreak vector; the ace-low straight A-2-3-4-5 ranks below every other
// straight and yields the tiebreak [4,3,2,1,0].
func Evaluate(cards [5]deck.Card) (Rank, error) {
	var seen [deck.DeckSize]bool
	for _, c := range cards {
		if !c.Valid() {
			return Rank{}, ErrInvalidHand.Wrapf("card id %d out of range", c)
		}
		if seen[c] {
			return Rank{}, ErrDuplicateCards.Wrapf("card %s repeated", c)
		}
		seen[c] = true
	}

	var rankCount [deck.NumRanks]uint8
	var suitCount [deck.NumSuits]uint8
	ord := make([]int8, 5)
	for i, c := range cards {
		rankCount[c.Rank()]++
		suitCount[c.Suit()]++
		ord[i] = int8(c.OrderValue())
	}
	sort.Slice(ord, func(i, j int) bool { return ord[i] > ord[j] })

	flush := suitCount[0] == 5 || suitCount[1] == 5 || suitCount[2] == 5 || suitCount[3] == 5
	straightHigh, aceLow, straight := straightShape(ord)

	tb := func(vals ...int8) [TiebreakSize]int8 {
		out := [TiebreakSize]int8{-1, -1, -1, -1, -1}
		copy(out[:], vals)
		return out
	}
	sortedTb := func() [TiebreakSize]int8 {
		var out [TiebreakSize]int8
		copy(out[:], ord)
		return out
	}

	switch {
	case flush && straight && aceLow:
		return Rank{Category: StraightFlush, Tiebreak: tb(4, 3, 2, 1, 0)}, nil
	case flush && straight && straightHigh == deck.AceHighValue:
		return Rank{Category: RoyalFlush, Tiebreak: sortedTb()}, nil
	case flush && straight:
		return Rank{Category: StraightFlush, Tiebreak: sortedTb()}, nil
	}

	// Group ranks by multiplicity, larger groups first, higher ranks first
	// within a multiplicity.
	type group struct {
		count uint8
		value int8
	}
	var groups []group
	for r := uint8(0); r < deck.NumRanks; r++ {
		if rankCount[r] == 0 {
			continue
		}
		groups = append(groups, group{count: rankCount[r], value: orderValueOf(r)})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	switch {
	case groups[0].count == 4:
		return Rank{Category: FourOfAKind, Tiebreak: tb(groups[0].value, groups[1].value)}, nil
	case groups[0].count == 3 && groups[1].count == 2:
		return Rank{Category: FullHouse, Tiebreak: tb(groups[0].value, groups[1].value)}, nil
	case groups[0].count == 3:
		return Rank{Category: ThreeOfAKind, Tiebreak: tb(groups[0].value, groups[1].value, groups[2].value)}, nil
	case groups[0].count == 2 && groups[1].count == 2:
		return Rank{Category: TwoPair, Tiebreak: tb(groups[0].value, groups[1].value, groups[2].value)}, nil
	case groups[0].count == 2:
		return Rank{Category: Pair, Tiebreak: tb(groups[0].value, groups[1].value, groups[2].value, groups[3].value)}, nil
	case flush:
		return Rank{Category: Flush, Tiebreak: sortedTb()}, nil
	case straight && aceLow:
		return Rank{Category: Straight, Tiebreak: tb(4, 3, 2, 1, 0)}, nil
	case straight:
		return Rank{Category: Straight, Tiebreak: sortedTb()}, nil
	default:
		return Rank{Category: HighCard, Tiebreak: sortedTb()}, nil
	}
}

func orderValueOf(storedRank uint8) int8 {
	if storedRank == 0 {
		return deck.AceHighValue
	}
	return int8(storedRank)
}

// straightShape inspects order values sorted descending. aceLow marks the
// wheel (A-2-3-4-5), which sorts as [13,4,3,2,1].
func straightShape(ord []int8) (high int8, aceLow, ok bool) {
	for i := 0; i < 4; i++ {
		if ord[i] == ord[i+1] {
			return 0, false, false
		}
	}
	if ord[0]-ord[4] == 4 {
		return ord[0], false, true
	}
	if ord[0] == deck.AceHighValue && ord[1] == 4 && ord[1]-ord[4] == 3 {
		return 4, true, true
	}
	return 0, false, false
}

// Compare totally orders two evaluated hands: 1 if a beats b, -1 if b beats
// a, 0 for an exact tie across category and every tiebreak slot.
func Compare(a, b Rank) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < TiebreakSize; i++ {
		if a.Tiebreak[i] == b.Tiebreak[i] {
			continue
		}
		if a.Tiebreak[i] > b.Tiebreak[i] {
			return 1
		}
		return -1
	}
	return 0
}
