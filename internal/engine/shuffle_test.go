package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/engine"
	"github.com/vitorpy/solana-poker/internal/player"
	"github.com/vitorpy/solana-poker/internal/state"
)

func generating(st *state.GameState) bool {
	return st.Shuffling == state.ShuffleGenerating
}

func shuffling(st *state.GameState) bool {
	return st.Shuffling == state.ShuffleShuffling
}

func TestGenerateDeckRejectsWrongSeed(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(generating)

	st := h.state()
	var wrong [ecmath.SeedSize]byte
	wrong[0] = 0xaa
	err := h.eng.GenerateDeck(testGameID, h.client(st.CurrentTurn).Addr, wrong)
	require.ErrorIs(t, err, engine.ErrInvalidCommitment)

	// The honest seed still verifies afterwards.
	require.NoError(t, h.client(st.CurrentTurn).RevealSeed())
}

func TestGenerateDeckOutOfTurn(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(generating)

	st := h.state()
	err := h.eng.GenerateDeck(testGameID, h.client(st.CurrentTurn+1).Addr, [ecmath.SeedSize]byte{})
	require.ErrorIs(t, err, engine.ErrNotYourTurn)
}

func TestMappingGates(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(shuffling)

	st := h.state()
	first := h.client(st.CurrentTurn)

	// Shuffling before the mapping is bound.
	acc, err := h.eng.Records().Accumulator(testGameID)
	require.NoError(t, err)
	mapping := player.DeckMapping(acc.Accumulator)
	err = h.eng.ShuffleDeck(testGameID, first.Addr, mapping[:])
	require.ErrorIs(t, err, engine.ErrDeckNotSubmitted)

	// Wrong vector size.
	err = h.eng.SubmitDeckMapping(testGameID, first.Addr, mapping[:51])
	require.ErrorIs(t, err, engine.ErrInvalidVectorSize)

	require.NoError(t, first.SubmitMapping())

	// Binding the mapping twice is rejected.
	err = h.eng.SubmitDeckMapping(testGameID, first.Addr, mapping[:])
	require.ErrorIs(t, err, engine.ErrDeckAlreadySubmitted)
}

// The split part submissions must arrive in order, once each, and end in
// the same state a whole-deck submission produces. The hand then plays to
// settlement, proving the split path left a decryptable deck behind.
func TestSplitSubmissions(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(shuffling)

	st := h.state()
	first := h.client(st.CurrentTurn)

	acc, err := h.eng.Records().Accumulator(testGameID)
	require.NoError(t, err)
	mapping := player.DeckMapping(acc.Accumulator)
	lo := compressRange(t, mapping[:state.CardsPerPart])
	hi := compressRange(t, mapping[state.CardsPerPart:])

	// Part 2 before part 1.
	err = h.eng.SubmitDeckMappingPart2(testGameID, first.Addr, hi)
	require.ErrorIs(t, err, engine.ErrPart1NotSubmitted)

	require.NoError(t, h.eng.SubmitDeckMappingPart1(testGameID, first.Addr, lo))

	// Part 1 twice.
	err = h.eng.SubmitDeckMappingPart1(testGameID, first.Addr, lo)
	require.ErrorIs(t, err, engine.ErrPart1AlreadySubmitted)

	require.NoError(t, h.eng.SubmitDeckMappingPart2(testGameID, first.Addr, hi))
	require.True(t, h.state().DeckSubmitted)

	// First shuffle and first lock pass go through the split calls too.
	require.NoError(t, first.ShuffleSplit())
	h.drive(func(st *state.GameState) bool { return st.Shuffling == state.ShuffleLocking })
	require.NoError(t, h.client(h.state().CurrentTurn).LockSplit())

	h.drive(finished)
	require.True(t, h.state().PotClaimed)
	h.conserved()
}

func TestRevealCardExactlyOnce(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool { return st.Drawing == state.DrawRevealing })

	st := h.state()
	slot := st.CardToReveal
	d, err := h.eng.Records().Deck(testGameID)
	require.NoError(t, err)

	var holder, other *player.Client
	for _, c := range h.clients {
		if d.Holder(int(slot)) == c.Addr {
			holder = c
		} else if other == nil {
			other = c
		}
	}
	require.NotNil(t, holder)
	require.NotNil(t, other)

	// The holder cannot contribute to their own card.
	require.ErrorIs(t, holder.RevealFor(slot), engine.ErrNotCardOwner)

	// Wrong slot.
	require.ErrorIs(t, other.RevealFor(slot+1), engine.ErrInvalidCardIndex)

	// One contribution per seat.
	require.NoError(t, other.RevealFor(slot))
	require.ErrorIs(t, other.RevealFor(slot), engine.ErrPlayerAlreadyRevealed)
}

func TestDrawBounds(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool {
		return st.Texas == state.TexasBetting && st.BettingRound == state.RoundPreFlop
	})

	// Everyone holds two cards; a third draw is out of phase.
	_, err := h.client(h.state().CurrentTurn).Draw()
	require.ErrorIs(t, err, engine.ErrInvalidTexasState)

	for seat := uint8(0); seat < 3; seat++ {
		p := h.playerAt(seat)
		require.EqualValues(t, state.HoleCardsPerPlayer, p.HoleCardCount)
	}
	require.EqualValues(t, deck.DeckSize-3*state.HoleCardsPerPlayer, h.state().CardsLeftInDeck)
}

func compressRange(t *testing.T, points []ecmath.Point) [][ecmath.CompressedPointSize]byte {
	t.Helper()
	out := make([][ecmath.CompressedPointSize]byte, len(points))
	for i, p := range points {
		c, err := ecmath.Compress(p)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}
