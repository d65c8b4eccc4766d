// Package deck defines the card identity model shared by the mapping
// accumulator and the hand evaluator.
package deck

// Card is a 0..51 id, where:
// - rank = id % 13  (0 = Ace, 1 = Two, ..., 9 = Ten, 10 = Jack, 11 = Queen, 12 = King)
// - suit = id / 13  (0 = clubs, 1 = diamonds, 2 = hearts, 3 = spades)
//
// The Ace is stored as rank 0 but compares as the highest rank (order value
// 13) except in the ace-low straight.
type Card uint8

const (
	DeckSize = 52
	NumRanks = 13
	NumSuits = 4

	// AceHighValue is the order value of an Ace in rank comparisons.
	AceHighValue = 13
)

func (c Card) Rank() uint8 {
	return uint8(c % NumRanks)
}

func (c Card) Suit() uint8 {
	return uint8(c / NumRanks)
}

// OrderValue maps the stored rank to its comparison value: Ace = 13,
// otherwise the rank itself (Two = 1 .. King = 12).
func (c Card) OrderValue() uint8 {
	r := c.Rank()
	if r == 0 {
		return AceHighValue
	}
	return r
}

// Valid reports whether c is one of the 52 deck cards.
func (c Card) Valid() bool {
	return c < DeckSize
}

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	var rch byte
	switch r := c.Rank(); r {
	case 0:
		rch = 'A'
	case 12:
		rch = 'K'
	case 11:
		rch = 'Q'
	case 10:
		rch = 'J'
	case 9:
		rch = 'T'
	default:
		rch = byte('1' + r) // rank 1 is the deuce
	}
	var sch byte
	switch c.Suit() {
	case 0:
		sch = 'c'
	case 1:
		sch = 'd'
	case 2:
		sch = 'h'
	default:
		sch = 's'
	}
	return string([]byte{rch, sch})
}
