// Package player implements the off-engine side of the protocol: the
// secrets one participant holds and the calls an honest seat makes to
// drive a hand. The engine never sees any of this material except through
// the operations the client submits.
package player

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/engine"
	"github.com/vitorpy/solana-poker/internal/holdem"
	"github.com/vitorpy/solana-poker/internal/state"
)

// DeckMapping derives the hand's card encoding from the jointly generated
// randomness: card id k maps to H(randomness[k])·G. Every seat computes
// the same mapping from the accumulator record, so the submission of the
// first player in the shuffle order is checkable by all others.
func DeckMapping(randomness [deck.DeckSize][32]byte) [deck.DeckSize]ecmath.Point {
	var out [deck.DeckSize]ecmath.Point
	for k := 0; k < deck.DeckSize; k++ {
		for counter := byte(0); ; counter++ {
			h := ecmath.Keccak256([]byte("mpoker/card/v1"), randomness[k][:], []byte{counter})
			s, err := ecmath.NewScalar(h[:])
			if err != nil || s.IsZero() {
				continue
			}
			p, err := ecmath.ScalarBaseMult(s)
			if err != nil {
				continue
			}
			out[k] = p
			break
		}
	}
	return out
}

// Client is one seat's protocol driver. Per-hand keys are derived from the
// long-lived secret and the hand number, so nothing needs to be stored
// between calls except the secret itself.
type Client struct {
	Addr string

	eng    *engine.Engine
	gameID string
	secret []byte

	seed       [ecmath.SeedSize]byte
	shuffleKey ecmath.Scalar
	lockKeys   [deck.DeckSize]ecmath.Scalar
}

// New returns a client for addr at the given table. The secret seeds every
// per-hand key derivation.
func New(eng *engine.Engine, gameID, addr string, secret []byte) *Client {
	return &Client{
		Addr:   addr,
		eng:    eng,
		gameID: gameID,
		secret: secret,
	}
}

func (c *Client) deriveScalar(domain string, hand uint32, index int) ecmath.Scalar {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], hand)
	binary.BigEndian.PutUint32(buf[4:8], uint32(index))
	for counter := byte(0); ; counter++ {
		h := ecmath.Keccak256(c.secret, []byte(domain), buf[:], []byte{counter})
		s, err := ecmath.NewScalar(h[:])
		if err == nil && !s.IsZero() {
			return s
		}
	}
}

// rollKeys derives the seed, shuffle key and per-slot lock keys for the
// current hand number.
func (c *Client) rollKeys() error {
	cfg, err := c.eng.Records().Config(c.gameID)
	if err != nil {
		return err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], cfg.GameNumber)
	c.seed = ecmath.Keccak256(c.secret, []byte("seed"), buf[:])
	c.shuffleKey = c.deriveScalar("shuffle", cfg.GameNumber, 0)
	for i := range c.lockKeys {
		c.lockKeys[i] = c.deriveScalar("lock", cfg.GameNumber, i)
	}
	return nil
}

// Join seats the client with a deposit, binding the commitment for the
// first hand's seed.
func (c *Client) Join(deposit uint64) error {
	if err := c.rollKeys(); err != nil {
		return err
	}
	return c.eng.JoinGame(c.gameID, c.Addr, ecmath.ComputeCommitment(c.seed), deposit)
}

// Commit binds a fresh seed commitment for a later hand.
func (c *Client) Commit() error {
	if err := c.rollKeys(); err != nil {
		return err
	}
	return c.eng.CommitSeed(c.gameID, c.Addr, ecmath.ComputeCommitment(c.seed))
}

// RevealSeed opens the commitment and contributes the derived randomness.
func (c *Client) RevealSeed() error {
	return c.eng.GenerateDeck(c.gameID, c.Addr, c.seed)
}

// SubmitMapping derives the hand's card encoding from the accumulator and
// publishes it. Only the first player in shuffle order does this each
// hand.
func (c *Client) SubmitMapping() error {
	acc, err := c.eng.Records().Accumulator(c.gameID)
	if err != nil {
		return err
	}
	mapping := DeckMapping(acc.Accumulator)
	return c.eng.SubmitDeckMapping(c.gameID, c.Addr, mapping[:])
}

// SubmitMappingSplit publishes the mapping in two compressed halves, for
// transports that cannot carry 52 uncompressed points in one call.
func (c *Client) SubmitMappingSplit() error {
	acc, err := c.eng.Records().Accumulator(c.gameID)
	if err != nil {
		return err
	}
	mapping := DeckMapping(acc.Accumulator)
	lo, hi, err := compressHalves(mapping[:])
	if err != nil {
		return err
	}
	if err := c.eng.SubmitDeckMappingPart1(c.gameID, c.Addr, lo); err != nil {
		return err
	}
	return c.eng.SubmitDeckMappingPart2(c.gameID, c.Addr, hi)
}

// Shuffle applies this client's secret permutation to the working deck and
// encrypts every card under the hand's shuffle key. The first pass of the
// round starts from the published mapping; later passes start from the
// previous player's output.
func (c *Client) Shuffle() error {
	out, err := c.shuffledDeck()
	if err != nil {
		return err
	}
	return c.eng.ShuffleDeck(c.gameID, c.Addr, out)
}

func (c *Client) shuffledDeck() ([]ecmath.Point, error) {
	rec := c.eng.Records()
	st, err := rec.State(c.gameID)
	if err != nil {
		return nil, err
	}
	var source [deck.DeckSize]ecmath.Point
	if st.ActionCount == 0 {
		acc, err := rec.Accumulator(c.gameID)
		if err != nil {
			return nil, err
		}
		source = acc.DeckPoints
	} else {
		d, err := rec.Deck(c.gameID)
		if err != nil {
			return nil, err
		}
		source = d.Cards
	}
	cfg, err := rec.Config(c.gameID)
	if err != nil {
		return nil, err
	}
	perm := c.permutation(cfg.GameNumber)
	out := make([]ecmath.Point, deck.DeckSize)
	for i := 0; i < deck.DeckSize; i++ {
		p, err := ecmath.ScalarMult(c.shuffleKey, source[perm[i]])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// ShuffleSplit performs the same pass as Shuffle through the two-part
// compressed submission.
func (c *Client) ShuffleSplit() error {
	out, err := c.shuffledDeck()
	if err != nil {
		return err
	}
	lo, hi, err := compressHalves(out)
	if err != nil {
		return err
	}
	if err := c.eng.ShufflePart1(c.gameID, c.Addr, lo); err != nil {
		return err
	}
	return c.eng.ShufflePart2(c.gameID, c.Addr, hi)
}

// Lock replaces this client's shuffle key with per-slot lock keys: each
// slot is multiplied by shuffleKey⁻¹·lockKey[slot]. After every player's
// lock pass a card can be opened slot by slot without exposing the
// permutation.
func (c *Client) Lock() error {
	out, err := c.lockedDeck()
	if err != nil {
		return err
	}
	return c.eng.LockDeck(c.gameID, c.Addr, out)
}

// LockSplit performs the same pass as Lock through the two-part compressed
// submission.
func (c *Client) LockSplit() error {
	out, err := c.lockedDeck()
	if err != nil {
		return err
	}
	lo, hi, err := compressHalves(out)
	if err != nil {
		return err
	}
	if err := c.eng.LockPart1(c.gameID, c.Addr, lo); err != nil {
		return err
	}
	return c.eng.LockPart2(c.gameID, c.Addr, hi)
}

func (c *Client) lockedDeck() ([]ecmath.Point, error) {
	d, err := c.eng.Records().Deck(c.gameID)
	if err != nil {
		return nil, err
	}
	inv, ok := ecmath.ModInverse(c.shuffleKey)
	if !ok {
		return nil, errorsmod.Wrap(ecmath.ErrInvalidScalar, "shuffle key not invertible")
	}
	out := make([]ecmath.Point, deck.DeckSize)
	for i := 0; i < deck.DeckSize; i++ {
		k := ecmath.ModMul(inv, c.lockKeys[i])
		p, err := ecmath.ScalarMult(k, d.Cards[i])
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// compressHalves splits a 52-point deck into the two compressed slices the
// part submissions take.
func compressHalves(points []ecmath.Point) (lo, hi [][ecmath.CompressedPointSize]byte, err error) {
	if len(points) != deck.DeckSize {
		return nil, nil, errorsmod.Wrapf(ecmath.ErrInvalidPoint, "%d points", len(points))
	}
	all := make([][ecmath.CompressedPointSize]byte, deck.DeckSize)
	for i, p := range points {
		c, err := ecmath.Compress(p)
		if err != nil {
			return nil, nil, err
		}
		all[i] = c
	}
	return all[:state.CardsPerPart], all[state.CardsPerPart:], nil
}

// Draw picks the next hole card.
func (c *Client) Draw() (uint8, error) {
	return c.eng.DrawCard(c.gameID, c.Addr)
}

// RevealFor contributes this client's lock-key inverse to another
// player's drawn card.
func (c *Client) RevealFor(slot uint8) error {
	if slot >= deck.DeckSize {
		return errorsmod.Wrapf(engine.ErrInvalidCardIndex, "slot %d", slot)
	}
	inv, ok := ecmath.ModInverse(c.lockKeys[slot])
	if !ok {
		return errorsmod.Wrap(ecmath.ErrInvalidScalar, "lock key not invertible")
	}
	return c.eng.RevealCard(c.gameID, c.Addr, slot, inv)
}

// OpenOwn strips the client's final lock key off one of their hole cards
// at showdown.
func (c *Client) OpenOwn(slot uint8) error {
	if slot >= deck.DeckSize {
		return errorsmod.Wrapf(engine.ErrInvalidCardIndex, "slot %d", slot)
	}
	inv, ok := ecmath.ModInverse(c.lockKeys[slot])
	if !ok {
		return errorsmod.Wrap(ecmath.ErrInvalidScalar, "lock key not invertible")
	}
	return c.eng.OpenCard(c.gameID, c.Addr, slot, inv)
}

// DealBoard takes the next board card (dealer only).
func (c *Client) DealBoard() (uint8, error) {
	return c.eng.DealCommunityCard(c.gameID, c.Addr)
}

// OpenBoard opens a fully revealed board card face up (dealer only).
func (c *Client) OpenBoard(slot uint8) error {
	if slot >= deck.DeckSize {
		return errorsmod.Wrapf(engine.ErrInvalidCardIndex, "slot %d", slot)
	}
	inv, ok := ecmath.ModInverse(c.lockKeys[slot])
	if !ok {
		return errorsmod.Wrap(ecmath.ErrInvalidScalar, "lock key not invertible")
	}
	return c.eng.OpenCommunityCard(c.gameID, c.Addr, slot, inv)
}

// Blind posts a blind.
func (c *Client) Blind(amount uint64) error {
	return c.eng.PlaceBlind(c.gameID, c.Addr, amount)
}

// Bet calls or raises.
func (c *Client) Bet(amount uint64) error {
	return c.eng.Bet(c.gameID, c.Addr, amount)
}

// Fold folds.
func (c *Client) Fold() error {
	return c.eng.Fold(c.gameID, c.Addr)
}

// Claim settles the pot.
func (c *Client) Claim() error {
	return c.eng.ClaimPot(c.gameID, c.Addr)
}

// Holding returns the client's opened hole cards and the open board, as
// card ids resolved against the hand's published mapping.
func (c *Client) Holding() (hole, board []deck.Card, err error) {
	acc, err := c.eng.Records().Accumulator(c.gameID)
	if err != nil {
		return nil, nil, err
	}
	find := func(pt ecmath.Point) (deck.Card, error) {
		if id := acc.FindCard(pt); id >= 0 {
			return deck.Card(id), nil
		}
		return 0, errorsmod.Wrap(holdem.ErrIllegalCard, "point not on the deck mapping")
	}

	ps, err := c.eng.Records().Player(c.gameID, c.Addr)
	if err != nil {
		return nil, nil, err
	}
	for i := uint8(0); i < ps.RevealedCardCount; i++ {
		id, err := find(ps.RevealedCards[i])
		if err != nil {
			return nil, nil, err
		}
		hole = append(hole, id)
	}
	comm, err := c.eng.Records().Community(c.gameID)
	if err != nil {
		return nil, nil, err
	}
	for i := uint8(0); i < comm.OpenedCount; i++ {
		id, err := find(comm.Opened[i])
		if err != nil {
			return nil, nil, err
		}
		board = append(board, id)
	}
	return hole, board, nil
}

// SubmitBest picks the strongest five cards from the client's opened hole
// cards and the board and submits them.
func (c *Client) SubmitBest() error {
	hole, board, err := c.Holding()
	if err != nil {
		return err
	}
	best, err := BestFive(append(hole, board...))
	if err != nil {
		return err
	}
	acc, err := c.eng.Records().Accumulator(c.gameID)
	if err != nil {
		return err
	}
	var points [holdem.HandSize]ecmath.Point
	for i, id := range best {
		points[i] = acc.DeckPoints[id]
	}
	return c.eng.SubmitBestHand(c.gameID, c.Addr, points)
}

// BestFive returns the highest-ranking five-card hand from the given
// cards.
func BestFive(cards []deck.Card) ([holdem.HandSize]deck.Card, error) {
	var (
		best     [holdem.HandSize]deck.Card
		bestRank holdem.Rank
		have     bool
	)
	if len(cards) < holdem.HandSize {
		return best, errorsmod.Wrapf(holdem.ErrInvalidHand, "%d cards", len(cards))
	}
	var pick [holdem.HandSize]deck.Card
	var walk func(start, depth int) error
	walk = func(start, depth int) error {
		if depth == holdem.HandSize {
			rank, err := holdem.Evaluate(pick)
			if err != nil {
				return err
			}
			if !have || holdem.Compare(rank, bestRank) == 1 {
				have = true
				bestRank = rank
				best = pick
			}
			return nil
		}
		for i := start; i <= len(cards)-(holdem.HandSize-depth); i++ {
			pick[depth] = cards[i]
			if err := walk(i+1, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, 0); err != nil {
		return best, err
	}
	return best, nil
}

// permutation derives the client's secret shuffle for a hand with a
// PRF-driven Fisher-Yates pass.
func (c *Client) permutation(hand uint32) [deck.DeckSize]int {
	var perm [deck.DeckSize]int
	for i := range perm {
		perm[i] = i
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], hand)
	for i := deck.DeckSize - 1; i > 0; i-- {
		h := ecmath.Keccak256(c.secret, []byte("perm"), buf[:], []byte{byte(i)})
		j := int(binary.BigEndian.Uint64(h[:8]) % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Seat returns the client's seat index.
func (c *Client) Seat() (uint8, error) {
	list, err := c.eng.Records().Players(c.gameID)
	if err != nil {
		return 0, err
	}
	seat, ok := list.FindPlayer(c.Addr)
	if !ok {
		return 0, errorsmod.Wrap(state.ErrRecordNotFound, c.Addr)
	}
	return seat, nil
}
