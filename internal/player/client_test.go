package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/holdem"
)

func TestDeckMappingDeterministicAndDistinct(t *testing.T) {
	var randomness [deck.DeckSize][32]byte
	for i := range randomness {
		randomness[i][0] = byte(i)
		randomness[i][31] = 0x5a
	}

	a := DeckMapping(randomness)
	b := DeckMapping(randomness)
	require.Equal(t, a, b)

	seen := make(map[[32]byte]int)
	for i, p := range a {
		require.False(t, p.IsIdentity(), "card %d mapped to identity", i)
		h := p.X()
		if prev, dup := seen[h]; dup {
			t.Fatalf("cards %d and %d share a point", prev, i)
		}
		seen[h] = i
	}

	randomness[7][0] ^= 0xff
	c := DeckMapping(randomness)
	require.NotEqual(t, a[7], c[7])
	require.Equal(t, a[8], c[8])
}

func TestBestFivePicksStrongestHand(t *testing.T) {
	// Card id = suit*13 + rank, spades are suit 3, the Ace is rank 0.
	spade := func(rank uint8) deck.Card { return deck.Card(3*13 + rank) }

	cards := []deck.Card{
		spade(0),  // As
		spade(12), // Ks
		spade(11), // Qs
		spade(10), // Js
		spade(9),  // Ts
		1,         // 2c
		15,        // 3d
	}
	best, err := BestFive(cards)
	require.NoError(t, err)

	rank, err := holdem.Evaluate(best)
	require.NoError(t, err)
	require.Equal(t, holdem.RoyalFlush, rank.Category)
	for _, c := range best {
		require.EqualValues(t, 3, c.Suit())
	}
}

func TestBestFiveNeedsFiveCards(t *testing.T) {
	_, err := BestFive([]deck.Card{1, 2, 3, 4})
	require.ErrorIs(t, err, holdem.ErrInvalidHand)
}

func TestPermutationIsAPermutation(t *testing.T) {
	c := &Client{secret: []byte("secret")}
	perm := c.permutation(0)
	seen := make([]bool, deck.DeckSize)
	for _, v := range perm {
		require.False(t, seen[v])
		seen[v] = true
	}

	// A different hand number shuffles differently.
	require.NotEqual(t, perm, c.permutation(1))
}
