package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
)

func TestGameConfigValidate(t *testing.T) {
	base := GameConfig{
		GameID:          "g1",
		Authority:       "alice",
		MaxPlayers:      4,
		SmallBlind:      10,
		MinBuyIn:        1000,
		TimeoutSeconds:  60,
		SlashPercentage: 10,
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.MaxPlayers = 1
	require.Error(t, bad.Validate())

	bad = base
	bad.MaxPlayers = 9
	require.Error(t, bad.Validate())

	bad = base
	bad.SmallBlind = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.MinBuyIn = 19
	require.Error(t, bad.Validate())

	bad = base
	bad.SlashPercentage = 101
	require.Error(t, bad.Validate())
}

func TestNewGameStateStartsAtCommit(t *testing.T) {
	s := NewGameState("g1", 1234)
	require.Equal(t, PhaseShuffling, s.Phase)
	require.Equal(t, ShuffleCommitting, s.Shuffling)
	require.Equal(t, DrawPicking, s.Drawing)
	require.Equal(t, TexasBetting, s.Texas)
	require.Equal(t, RoundBlinds, s.BettingRound)
	require.Equal(t, uint8(deck.DeckSize), s.CardsLeftInDeck)
	require.EqualValues(t, 1234, s.LastActionUnix)
}

func TestGameStateResetForNextHand(t *testing.T) {
	s := NewGameState("g1", 1)
	s.Phase = PhaseFinished
	s.Texas = TexasFinished
	s.Pot = 900
	s.CardsLeftInDeck = 40
	s.DeckSubmitted = true
	s.FoldedPlayers = 2

	s.ResetForNextHand(99)
	require.Equal(t, PhaseShuffling, s.Phase)
	require.Equal(t, ShuffleCommitting, s.Shuffling)
	require.Zero(t, s.Pot)
	require.Zero(t, s.FoldedPlayers)
	require.False(t, s.DeckSubmitted)
	require.Equal(t, uint8(deck.DeckSize), s.CardsLeftInDeck)
	require.EqualValues(t, 99, s.LastActionUnix)
}

func TestPlayerListSeatingAndBitmap(t *testing.T) {
	l := NewPlayerList("g1", 3)

	s0, ok := l.AddPlayer("alice")
	require.True(t, ok)
	require.Equal(t, uint8(0), s0)
	s1, ok := l.AddPlayer("bob")
	require.True(t, ok)
	require.Equal(t, uint8(1), s1)
	s2, ok := l.AddPlayer("carol")
	require.True(t, ok)
	require.Equal(t, uint8(2), s2)
	_, ok = l.AddPlayer("dave")
	require.False(t, ok)

	seat, ok := l.FindPlayer("bob")
	require.True(t, ok)
	require.Equal(t, uint8(1), seat)
	_, ok = l.FindPlayer("")
	require.False(t, ok)

	require.False(t, l.HasRevealed(1))
	l.MarkRevealed(1)
	l.MarkRevealed(2)
	require.True(t, l.HasRevealed(1))
	require.Equal(t, uint8(2), l.CountRevealed())
	l.ResetRevealed()
	require.Zero(t, l.CountRevealed())

	l.RemovePlayer(1)
	require.Equal(t, uint8(2), l.Count)
	s, ok := l.AddPlayer("dave")
	require.True(t, ok)
	require.Equal(t, uint8(1), s)
}

func TestPlayerStateResetKeepsChips(t *testing.T) {
	p := NewPlayerState("g1", "alice", 2, 5000)
	p.Chips = 4200
	p.CurrentBet = 300
	p.SetCommitment([32]byte{1, 2, 3})
	require.True(t, p.AddHoleCard(51))
	require.True(t, p.AddHoleCard(50))
	require.False(t, p.AddHoleCard(49))
	require.True(t, p.HoldsSlot(50))
	p.Folded = true
	p.ShufflePart1Done = true

	p.ResetForNextHand()
	require.EqualValues(t, 4200, p.Chips)
	require.Equal(t, uint8(2), p.Seat)
	require.Zero(t, p.CurrentBet)
	require.False(t, p.HasCommitted)
	require.Zero(t, p.HoleCardCount)
	require.Equal(t, uint8(NoCard), p.HoleCards[0])
	require.False(t, p.Folded)
	require.False(t, p.ShufflePart1Done)
}

func testPointFor(t *testing.T, tag string) ecmath.Point {
	t.Helper()
	h := ecmath.Keccak256([]byte(tag))
	s, err := ecmath.NewScalar(h[:])
	require.NoError(t, err)
	p, err := ecmath.ScalarBaseMult(s)
	require.NoError(t, err)
	return p
}

func TestAccumulatorFindCard(t *testing.T) {
	a := NewAccumulatorState("g1")
	var pts [4]ecmath.Point
	for i := range pts {
		pts[i] = testPointFor(t, string(rune('a'+i)))
		a.SetDeckPoint(i, pts[i])
	}
	require.EqualValues(t, 2, a.FindCard(pts[2]))
	require.EqualValues(t, -1, a.FindCard(testPointFor(t, "elsewhere")))
}

func TestAccumulatorResetKeepsMapping(t *testing.T) {
	a := NewAccumulatorState("g1")
	a.Accumulate(0, [32]byte{0xaa})
	p := testPointFor(t, "p")
	a.SetDeckPoint(7, p)

	a.Reset()
	require.Equal(t, [32]byte{}, a.Accumulator[0])
	require.EqualValues(t, 7, a.FindCard(p))
}

func TestCommunityCardsBoard(t *testing.T) {
	c := NewCommunityCards("g1")
	for i := uint8(0); i < MaxCommunityCards; i++ {
		require.True(t, c.AddCard(40+i))
	}
	require.False(t, c.AddCard(10))
	require.True(t, c.IsCommunityCard(42))
	require.False(t, c.IsCommunityCard(10))

	c.Reset()
	require.Zero(t, c.CardCount)
	require.False(t, c.IsCommunityCard(42))
}
