package state

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
)

const (
	// MinPlayers is the smallest table the engine will seat.
	MinPlayers = 2
	// MaxPlayers is bounded by the width of the reveal bitmap.
	MaxPlayers = 8
	// HoleCardsPerPlayer is fixed by the hold'em variant.
	HoleCardsPerPlayer = 2
	// MaxCommunityCards is the full board: flop, turn, river.
	MaxCommunityCards = 5
	// CardsPerPart is the slice size of a split deck submission.
	CardsPerPart = deck.DeckSize / 2

	// NoCard marks an unassigned card slot.
	NoCard = 0xff
)

// GameConfig is the immutable-ish table setup. Only CurrentPlayers,
// DealerIndex, AcceptingPlayers and GameNumber change after creation.
type GameConfig struct {
	GameID           string `cbor:"1,keyasint"`
	Authority        string `cbor:"2,keyasint"`
	MaxPlayers       uint8  `cbor:"3,keyasint"`
	CurrentPlayers   uint8  `cbor:"4,keyasint"`
	SmallBlind       uint64 `cbor:"5,keyasint"`
	MinBuyIn         uint64 `cbor:"6,keyasint"`
	DealerIndex      uint8  `cbor:"7,keyasint"`
	AcceptingPlayers bool   `cbor:"8,keyasint"`
	CreatedAtUnix    int64  `cbor:"9,keyasint"`
	TimeoutSeconds   uint32 `cbor:"10,keyasint"`
	SlashPercentage  uint8  `cbor:"11,keyasint"`
	GameNumber       uint32 `cbor:"12,keyasint"`
}

// Validate checks the table parameters at creation time.
func (c *GameConfig) Validate() error {
	if c.GameID == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "empty game id")
	}
	if c.Authority == "" {
		return errorsmod.Wrap(ErrInvalidConfig, "empty authority")
	}
	if c.MaxPlayers < MinPlayers || c.MaxPlayers > MaxPlayers {
		return errorsmod.Wrapf(ErrInvalidConfig, "max players %d outside [%d, %d]", c.MaxPlayers, MinPlayers, MaxPlayers)
	}
	if c.SmallBlind == 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "zero small blind")
	}
	if c.MinBuyIn < 2*c.SmallBlind {
		return errorsmod.Wrapf(ErrInvalidConfig, "min buy-in %d below big blind", c.MinBuyIn)
	}
	if c.SlashPercentage > 100 {
		return errorsmod.Wrapf(ErrInvalidConfig, "slash percentage %d above 100", c.SlashPercentage)
	}
	return nil
}

// GameState is the mutable hand state: the six sub-machines plus turn,
// betting and deck counters.
type GameState struct {
	GameID string `cbor:"1,keyasint"`

	Phase        GamePhase      `cbor:"2,keyasint"`
	Shuffling    ShufflingState `cbor:"3,keyasint"`
	Drawing      DrawingState   `cbor:"4,keyasint"`
	Texas        TexasState     `cbor:"5,keyasint"`
	BettingRound BettingRound   `cbor:"6,keyasint"`
	Community    CommunityState `cbor:"7,keyasint"`

	CurrentTurn       uint8 `cbor:"8,keyasint"`
	ActionCount       uint8 `cbor:"9,keyasint"`
	FoldedPlayers     uint8 `cbor:"10,keyasint"`
	CardsDrawn        uint8 `cbor:"11,keyasint"`
	PlayerCardsOpened uint8 `cbor:"12,keyasint"`
	SubmittedHands    uint8 `cbor:"13,keyasint"`

	Pot               uint64 `cbor:"14,keyasint"`
	CurrentCallAmount uint64 `cbor:"15,keyasint"`
	LastToCall        uint8  `cbor:"16,keyasint"`
	EverybodyAllIn    bool   `cbor:"17,keyasint"`
	PotClaimed        bool   `cbor:"18,keyasint"`

	CardToReveal    uint8 `cbor:"19,keyasint"`
	CardsLeftInDeck uint8 `cbor:"20,keyasint"`
	DeckSubmitted   bool  `cbor:"21,keyasint"`

	LastActionUnix int64 `cbor:"22,keyasint"`
}

// NewGameState returns the state a fresh table starts in: straight into the
// commit stage of the shuffle, with the hold'em machine parked on blinds.
func NewGameState(gameID string, now int64) *GameState {
	return &GameState{
		GameID:          gameID,
		Phase:           PhaseShuffling,
		Shuffling:       ShuffleCommitting,
		Drawing:         DrawPicking,
		Texas:           TexasBetting,
		BettingRound:    RoundBlinds,
		Community:       CommunityOpening,
		CardsLeftInDeck: deck.DeckSize,
		LastActionUnix:  now,
	}
}

// ResetForNextHand rewinds the per-hand machine while keeping the table
// open. The next hand starts at the commit stage again so players can bind
// fresh seeds.
func (s *GameState) ResetForNextHand(now int64) {
	s.Phase = PhaseShuffling
	s.Shuffling = ShuffleCommitting
	s.Drawing = DrawPicking
	s.Texas = TexasBetting
	s.BettingRound = RoundBlinds
	s.Community = CommunityOpening
	s.CurrentTurn = 0
	s.ActionCount = 0
	s.FoldedPlayers = 0
	s.CardsDrawn = 0
	s.PlayerCardsOpened = 0
	s.SubmittedHands = 0
	s.Pot = 0
	s.CurrentCallAmount = 0
	s.LastToCall = 0
	s.EverybodyAllIn = false
	s.PotClaimed = false
	s.CardToReveal = 0
	s.CardsLeftInDeck = deck.DeckSize
	s.DeckSubmitted = false
	s.LastActionUnix = now
}

// DeckState is the working deck: 52 encrypted card points plus the address
// holding each drawn slot.
type DeckState struct {
	GameID  string                     `cbor:"1,keyasint"`
	Cards   [deck.DeckSize]ecmath.Point `cbor:"2,keyasint"`
	Holders [deck.DeckSize]string       `cbor:"3,keyasint"`
}

// NewDeckState returns an empty working deck.
func NewDeckState(gameID string) *DeckState {
	return &DeckState{GameID: gameID}
}

// SetCard overwrites the point at slot i.
func (d *DeckState) SetCard(i int, p ecmath.Point) {
	if i >= 0 && i < deck.DeckSize {
		d.Cards[i] = p
	}
}

// Card returns the point at slot i.
func (d *DeckState) Card(i int) (ecmath.Point, bool) {
	if i < 0 || i >= deck.DeckSize {
		return ecmath.Point{}, false
	}
	return d.Cards[i], true
}

// Holder returns the address that drew slot i, or "" if unheld.
func (d *DeckState) Holder(i int) string {
	if i < 0 || i >= deck.DeckSize {
		return ""
	}
	return d.Holders[i]
}

// SetHolder records who drew slot i.
func (d *DeckState) SetHolder(i int, addr string) {
	if i >= 0 && i < deck.DeckSize {
		d.Holders[i] = addr
	}
}

// ClearHolder releases slot i after its card is opened.
func (d *DeckState) ClearHolder(i int) {
	if i >= 0 && i < deck.DeckSize {
		d.Holders[i] = ""
	}
}

// Reset clears all points and holders for the next hand.
func (d *DeckState) Reset() {
	d.Cards = [deck.DeckSize]ecmath.Point{}
	d.Holders = [deck.DeckSize]string{}
}

// AccumulatorState carries the jointly generated randomness and the
// canonical point-to-card mapping used to identify revealed cards.
type AccumulatorState struct {
	GameID      string                        `cbor:"1,keyasint"`
	Accumulator [deck.DeckSize][32]byte       `cbor:"2,keyasint"`
	DeckPoints  [deck.DeckSize]ecmath.Point   `cbor:"3,keyasint"`
}

// NewAccumulatorState returns a zeroed accumulator.
func NewAccumulatorState(gameID string) *AccumulatorState {
	return &AccumulatorState{GameID: gameID}
}

// Accumulate folds a seed-derived value into slot i with a wrapping 256-bit
// add.
func (a *AccumulatorState) Accumulate(i int, value [32]byte) {
	if i >= 0 && i < deck.DeckSize {
		a.Accumulator[i] = ecmath.Add256(a.Accumulator[i], value)
	}
}

// SetDeckPoint records the canonical point for card id.
func (a *AccumulatorState) SetDeckPoint(id int, p ecmath.Point) {
	if id >= 0 && id < deck.DeckSize {
		a.DeckPoints[id] = p
	}
}

// FindCard returns the card id whose canonical point equals p, or -1.
func (a *AccumulatorState) FindCard(p ecmath.Point) int8 {
	for i := range a.DeckPoints {
		if a.DeckPoints[i] == p {
			return int8(i)
		}
	}
	return -1
}

// Reset clears the accumulated randomness. The canonical deck mapping is
// kept; the next hand's mapping submission overwrites it.
func (a *AccumulatorState) Reset() {
	a.Accumulator = [deck.DeckSize][32]byte{}
}

// CommunityCards tracks which deck slots were dealt to the board and the
// decrypted points opened so far.
type CommunityCards struct {
	GameID      string                           `cbor:"1,keyasint"`
	CardIndices [MaxCommunityCards]uint8         `cbor:"2,keyasint"`
	CardCount   uint8                            `cbor:"3,keyasint"`
	Opened      [MaxCommunityCards]ecmath.Point  `cbor:"4,keyasint"`
	OpenedCount uint8                            `cbor:"5,keyasint"`
}

// NewCommunityCards returns an empty board.
func NewCommunityCards(gameID string) *CommunityCards {
	c := &CommunityCards{GameID: gameID}
	for i := range c.CardIndices {
		c.CardIndices[i] = NoCard
	}
	return c
}

// AddCard records a dealt board slot. Reports false when the board is full.
func (c *CommunityCards) AddCard(slot uint8) bool {
	if c.CardCount >= MaxCommunityCards {
		return false
	}
	c.CardIndices[c.CardCount] = slot
	c.CardCount++
	return true
}

// AddOpened stores a fully decrypted board point.
func (c *CommunityCards) AddOpened(p ecmath.Point) bool {
	if c.OpenedCount >= MaxCommunityCards {
		return false
	}
	c.Opened[c.OpenedCount] = p
	c.OpenedCount++
	return true
}

// IsCommunityCard reports whether deck slot is on the board.
func (c *CommunityCards) IsCommunityCard(slot uint8) bool {
	for i := uint8(0); i < c.CardCount; i++ {
		if c.CardIndices[i] == slot {
			return true
		}
	}
	return false
}

// Reset clears the board for the next hand.
func (c *CommunityCards) Reset() {
	for i := range c.CardIndices {
		c.CardIndices[i] = NoCard
	}
	c.CardCount = 0
	c.Opened = [MaxCommunityCards]ecmath.Point{}
	c.OpenedCount = 0
}
