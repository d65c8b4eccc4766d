package state

import (
	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/holdem"
)

// PlayerState is one seat's per-hand record. Chips survive hand resets,
// everything else is zeroed by ResetForNextHand.
type PlayerState struct {
	GameID string `cbor:"1,keyasint"`
	Addr   string `cbor:"2,keyasint"`
	Seat   uint8  `cbor:"3,keyasint"`

	Chips      uint64 `cbor:"4,keyasint"`
	CurrentBet uint64 `cbor:"5,keyasint"`

	Commitment   [ecmath.CommitmentSize]byte `cbor:"6,keyasint"`
	HasCommitted bool                        `cbor:"7,keyasint"`

	HoleCards     [HoleCardsPerPlayer]uint8 `cbor:"8,keyasint"`
	HoleCardCount uint8                     `cbor:"9,keyasint"`

	RevealedCards     [HoleCardsPerPlayer]ecmath.Point `cbor:"10,keyasint"`
	RevealedCardCount uint8                            `cbor:"11,keyasint"`

	Folded bool `cbor:"12,keyasint"`

	SubmittedHand    holdem.Rank `cbor:"13,keyasint"`
	HasSubmittedHand bool        `cbor:"14,keyasint"`

	ShufflePart1Done bool `cbor:"15,keyasint"`
	LockPart1Done    bool `cbor:"16,keyasint"`
}

// NewPlayerState seats addr with a buy-in stack.
func NewPlayerState(gameID, addr string, seat uint8, chips uint64) *PlayerState {
	p := &PlayerState{
		GameID: gameID,
		Addr:   addr,
		Seat:   seat,
		Chips:  chips,
	}
	p.HoleCards = [HoleCardsPerPlayer]uint8{NoCard, NoCard}
	return p
}

// SetCommitment binds the player's seed commitment for the current hand.
func (p *PlayerState) SetCommitment(c [ecmath.CommitmentSize]byte) {
	p.Commitment = c
	p.HasCommitted = true
}

// AddHoleCard records a drawn deck slot. Reports false once the player
// holds a full hand.
func (p *PlayerState) AddHoleCard(slot uint8) bool {
	if p.HoleCardCount >= HoleCardsPerPlayer {
		return false
	}
	p.HoleCards[p.HoleCardCount] = slot
	p.HoleCardCount++
	return true
}

// HoldsSlot reports whether slot is one of the player's hole cards.
func (p *PlayerState) HoldsSlot(slot uint8) bool {
	for i := uint8(0); i < p.HoleCardCount; i++ {
		if p.HoleCards[i] == slot {
			return true
		}
	}
	return false
}

// ResetForNextHand clears everything but the chip stack and seat.
func (p *PlayerState) ResetForNextHand() {
	p.CurrentBet = 0
	p.Commitment = [ecmath.CommitmentSize]byte{}
	p.HasCommitted = false
	p.HoleCards = [HoleCardsPerPlayer]uint8{NoCard, NoCard}
	p.HoleCardCount = 0
	p.RevealedCards = [HoleCardsPerPlayer]ecmath.Point{}
	p.RevealedCardCount = 0
	p.Folded = false
	p.SubmittedHand = holdem.Rank{}
	p.HasSubmittedHand = false
	p.ShufflePart1Done = false
	p.LockPart1Done = false
}

// PlayerList is the seat assignment plus the per-card reveal bitmap.
type PlayerList struct {
	GameID         string   `cbor:"1,keyasint"`
	Players        []string `cbor:"2,keyasint"`
	Count          uint8    `cbor:"3,keyasint"`
	RevealedBitmap uint8    `cbor:"4,keyasint"`
}

// NewPlayerList allocates maxPlayers empty seats.
func NewPlayerList(gameID string, maxPlayers uint8) *PlayerList {
	return &PlayerList{
		GameID:  gameID,
		Players: make([]string, maxPlayers),
	}
}

// AddPlayer seats addr in the first free slot and returns the seat index.
func (l *PlayerList) AddPlayer(addr string) (uint8, bool) {
	for i, p := range l.Players {
		if p == "" {
			l.Players[i] = addr
			l.Count++
			return uint8(i), true
		}
	}
	return 0, false
}

// RemovePlayer empties a seat.
func (l *PlayerList) RemovePlayer(seat uint8) {
	if int(seat) < len(l.Players) {
		l.Players[seat] = ""
		if l.Count > 0 {
			l.Count--
		}
	}
}

// Player returns the address seated at index, or "" for an empty seat.
func (l *PlayerList) Player(seat uint8) string {
	if int(seat) >= len(l.Players) {
		return ""
	}
	return l.Players[seat]
}

// FindPlayer returns addr's seat index.
func (l *PlayerList) FindPlayer(addr string) (uint8, bool) {
	if addr == "" {
		return 0, false
	}
	for i, p := range l.Players {
		if p == addr {
			return uint8(i), true
		}
	}
	return 0, false
}

// HasRevealed reports whether the seat already contributed to the card
// being revealed.
func (l *PlayerList) HasRevealed(seat uint8) bool {
	return l.RevealedBitmap&(1<<seat) != 0
}

// MarkRevealed records the seat's contribution to the current card.
func (l *PlayerList) MarkRevealed(seat uint8) {
	l.RevealedBitmap |= 1 << seat
}

// ResetRevealed clears the bitmap before the next card reveal.
func (l *PlayerList) ResetRevealed() {
	l.RevealedBitmap = 0
}

// CountRevealed returns how many seats contributed to the current card.
func (l *PlayerList) CountRevealed() uint8 {
	n := uint8(0)
	for b := l.RevealedBitmap; b != 0; b &= b - 1 {
		n++
	}
	return n
}
