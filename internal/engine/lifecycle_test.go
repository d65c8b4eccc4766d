package engine_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/engine"
	"github.com/vitorpy/solana-poker/internal/ledger"
	"github.com/vitorpy/solana-poker/internal/player"
	"github.com/vitorpy/solana-poker/internal/state"
)

func TestCreateGameValidation(t *testing.T) {
	eng := engine.New(state.NewMemStore(), ledger.NewBank(), log.NewNopLogger())

	base := state.GameConfig{
		GameID:     "g",
		Authority:  "house",
		MaxPlayers: 3,
		SmallBlind: 10,
		MinBuyIn:   100,
	}

	cfg := base
	cfg.MaxPlayers = 1
	require.ErrorIs(t, eng.CreateGame(cfg), state.ErrInvalidConfig)

	cfg = base
	cfg.MinBuyIn = 19
	require.ErrorIs(t, eng.CreateGame(cfg), state.ErrInvalidConfig)

	cfg = base
	cfg.SlashPercentage = 101
	require.ErrorIs(t, eng.CreateGame(cfg), state.ErrInvalidConfig)

	require.NoError(t, eng.CreateGame(base))
	require.ErrorIs(t, eng.CreateGame(base), engine.ErrAlreadyInitialized)
}

func TestJoinValidation(t *testing.T) {
	bank := ledger.NewBank()
	eng := engine.New(state.NewMemStore(), bank, log.NewNopLogger())
	require.NoError(t, eng.CreateGame(state.GameConfig{
		GameID:     testGameID,
		Authority:  testAuthority,
		MaxPlayers: 2,
		SmallBlind: testSmallBlind,
		MinBuyIn:   testBuyIn,
	}))

	var commitment [ecmath.CommitmentSize]byte

	// No funds in the ledger yet.
	err := eng.JoinGame(testGameID, "alice", commitment, testBuyIn)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	bank.Mint("alice", math.NewIntFromUint64(testBuyIn))
	bank.Mint("bob", math.NewIntFromUint64(testBuyIn))
	bank.Mint("carol", math.NewIntFromUint64(testBuyIn))

	// Below the table minimum.
	err = eng.JoinGame(testGameID, "alice", commitment, testBuyIn-1)
	require.ErrorIs(t, err, engine.ErrInsufficientChips)

	require.NoError(t, eng.JoinGame(testGameID, "alice", commitment, testBuyIn))
	err = eng.JoinGame(testGameID, "alice", commitment, testBuyIn)
	require.ErrorIs(t, err, engine.ErrAlreadyPlayer)

	// The last seat flips the table into deck generation, so a late join
	// is rejected by the shuffle gate.
	require.NoError(t, eng.JoinGame(testGameID, "bob", commitment, testBuyIn))
	err = eng.JoinGame(testGameID, "carol", commitment, testBuyIn)
	require.ErrorIs(t, err, engine.ErrInvalidShufflingState)

	require.True(t, bank.EscrowBalance(testGameID).Equal(math.NewIntFromUint64(2*testBuyIn)))
}

func TestLeaveDuringSeatingRefunds(t *testing.T) {
	bank := ledger.NewBank()
	eng := engine.New(state.NewMemStore(), bank, log.NewNopLogger())
	require.NoError(t, eng.CreateGame(state.GameConfig{
		GameID:     testGameID,
		Authority:  testAuthority,
		MaxPlayers: 3,
		SmallBlind: testSmallBlind,
		MinBuyIn:   testBuyIn,
	}))

	var commitment [ecmath.CommitmentSize]byte
	bank.Mint("alice", math.NewIntFromUint64(testBuyIn))
	require.NoError(t, eng.JoinGame(testGameID, "alice", commitment, testBuyIn))
	require.True(t, bank.Balance("alice").IsZero())

	require.NoError(t, eng.LeaveGame(testGameID, "alice"))
	require.True(t, bank.Balance("alice").Equal(math.NewIntFromUint64(testBuyIn)))
	require.True(t, bank.EscrowBalance(testGameID).IsZero())

	cfg, err := eng.Records().Config(testGameID)
	require.NoError(t, err)
	require.Zero(t, cfg.CurrentPlayers)
	require.True(t, cfg.AcceptingPlayers)

	// The seat is reusable.
	bank.Mint("bob", math.NewIntFromUint64(testBuyIn))
	require.NoError(t, eng.JoinGame(testGameID, "bob", commitment, testBuyIn))
}

func TestLeaveMidHandRejected(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool {
		return st.Texas == state.TexasBetting && st.BettingRound == state.RoundPreFlop
	})

	err := h.eng.LeaveGame(testGameID, h.clients[0].Addr)
	require.ErrorIs(t, err, engine.ErrCannotLeaveNow)

	// A folded player may walk away with their stack.
	st := h.state()
	folder := h.client(st.CurrentTurn)
	require.NoError(t, folder.Fold())
	chips := h.playerAt(st.CurrentTurn).Chips
	require.NoError(t, h.eng.LeaveGame(testGameID, folder.Addr))
	require.Equal(t, math.NewIntFromUint64(chips).String(), h.bank.Balance(folder.Addr).String())

	_, err = h.eng.Records().Player(testGameID, folder.Addr)
	require.ErrorIs(t, err, state.ErrRecordNotFound)
}

func TestSlashTimeout(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool {
		return st.Texas == state.TexasBetting && st.BettingRound == state.RoundPreFlop
	})

	st := h.state()
	offenderSeat := st.CurrentTurn
	offender := h.client(offenderSeat)
	caller := h.client(offenderSeat + 1)

	// Too early.
	err := h.eng.Slash(testGameID, caller.Addr)
	require.ErrorIs(t, err, engine.ErrTimeoutNotReached)
	require.False(t, h.playerAt(offenderSeat).Folded)

	h.advance(time.Duration(testTimeout+1) * time.Second)

	// The stalled seat cannot slash itself.
	err = h.eng.Slash(testGameID, offender.Addr)
	require.ErrorIs(t, err, engine.ErrUnauthorized)

	chipsBefore := h.playerAt(offenderSeat).Chips
	require.NoError(t, h.eng.Slash(testGameID, caller.Addr))

	slashed := chipsBefore * uint64(testSlashPct) / 100
	p := h.playerAt(offenderSeat)
	require.True(t, p.Folded)
	require.Equal(t, chipsBefore-slashed, p.Chips)
	require.Equal(t, math.NewIntFromUint64(slashed).String(), h.bank.Balance(caller.Addr).String())

	st = h.state()
	require.NotEqual(t, offenderSeat, st.CurrentTurn)
	require.Equal(t, state.TexasBetting, st.Texas)
	h.conserved()

	// Slashing the next stalled seat leaves one player and ends the hand.
	h.advance(time.Duration(testTimeout+1) * time.Second)
	secondOffender := st.CurrentTurn
	require.NoError(t, h.eng.Slash(testGameID, h.client(secondOffender+1).Addr))
	require.Equal(t, state.TexasClaimPot, h.state().Texas)
	h.conserved()
}

func TestCloseGameRefunds(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool {
		return st.Texas == state.TexasBetting && st.BettingRound == state.RoundPreFlop
	})

	err := h.eng.CloseGame(testGameID, "mallory", false)
	require.ErrorIs(t, err, engine.ErrInvalidAuthority)

	err = h.eng.CloseGame(testGameID, testAuthority, false)
	require.ErrorIs(t, err, engine.ErrGameNotFinished)

	// Force-close mid hand: stacks go back to the players, the pot sweeps
	// to the authority.
	stacks := make([]uint64, 3)
	for seat := uint8(0); seat < 3; seat++ {
		stacks[seat] = h.playerAt(seat).Chips
	}
	pot := h.state().Pot
	require.NoError(t, h.eng.CloseGame(testGameID, testAuthority, true))

	for seat := uint8(0); seat < 3; seat++ {
		require.Equal(t, math.NewIntFromUint64(stacks[seat]).String(),
			h.bank.Balance(h.clients[seat].Addr).String())
	}
	require.Equal(t, math.NewIntFromUint64(pot).String(), h.bank.Balance(testAuthority).String())
	require.True(t, h.bank.EscrowBalance(testGameID).IsZero())

	ok, err := h.eng.Records().HasGame(testGameID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCloseGameAfterSettlement(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(finished)
	require.NoError(t, h.eng.CloseGame(testGameID, testAuthority, false))
	require.True(t, h.bank.EscrowBalance(testGameID).IsZero())
	h.conserved()
}

// Unauthorized addresses cannot drive another player's hand.
func TestStrangerRejected(t *testing.T) {
	h := newHarness(t, 3)
	h.drive(func(st *state.GameState) bool {
		return st.Texas == state.TexasBetting && st.BettingRound == state.RoundPreFlop
	})

	require.ErrorIs(t, h.eng.Bet(testGameID, "mallory", 0), engine.ErrNotAPlayer)
	require.ErrorIs(t, h.eng.Fold(testGameID, "mallory"), engine.ErrNotAPlayer)
	require.ErrorIs(t, h.eng.Slash(testGameID, "mallory"), engine.ErrNotAPlayer)

	stranger := player.New(h.eng, testGameID, "mallory", []byte("x"))
	_, err := stranger.Draw()
	require.ErrorIs(t, err, engine.ErrInvalidTexasState)
}
