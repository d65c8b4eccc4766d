package engine

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/state"
)

// CreateGame validates the table parameters and persists a fresh game.
// The authority named in the config is the only party allowed to tear the
// game down later.
func (e *Engine) CreateGame(cfg state.GameConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := cfg.Validate(); err != nil {
		return err
	}
	exists, err := e.rec.HasGame(cfg.GameID)
	if err != nil {
		return err
	}
	if exists {
		return errorsmod.Wrap(ErrAlreadyInitialized, cfg.GameID)
	}

	cfg.CurrentPlayers = 0
	cfg.AcceptingPlayers = true
	cfg.GameNumber = 0
	cfg.CreatedAtUnix = e.unix()

	if err := e.rec.SetConfig(&cfg); err != nil {
		return err
	}
	for _, set := range []func() error{
		func() error { return e.rec.SetState(state.NewGameState(cfg.GameID, e.unix())) },
		func() error { return e.rec.SetDeck(state.NewDeckState(cfg.GameID)) },
		func() error { return e.rec.SetAccumulator(state.NewAccumulatorState(cfg.GameID)) },
		func() error { return e.rec.SetCommunity(state.NewCommunityCards(cfg.GameID)) },
		func() error { return e.rec.SetPlayers(state.NewPlayerList(cfg.GameID, cfg.MaxPlayers)) },
	} {
		if err := set(); err != nil {
			return err
		}
	}

	e.log.Info("game created", "game", cfg.GameID, "max_players", cfg.MaxPlayers, "small_blind", cfg.SmallBlind)
	return nil
}

// JoinGame seats a player: the deposit moves into the game's escrow and the
// seed commitment is bound before the player sees any card material. When
// the last seat fills, the table moves straight into deck generation.
func (e *Engine) JoinGame(gameID, addr string, commitment [ecmath.CommitmentSize]byte, deposit uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Shuffling != state.ShuffleCommitting {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "joining during %s", st.Shuffling)
	}
	if !cfg.AcceptingPlayers || cfg.CurrentPlayers >= cfg.MaxPlayers {
		return errorsmod.Wrapf(ErrGameFull, "%d/%d seats", cfg.CurrentPlayers, cfg.MaxPlayers)
	}
	if _, ok := list.FindPlayer(addr); ok {
		return errorsmod.Wrap(ErrAlreadyPlayer, addr)
	}
	if deposit < cfg.MinBuyIn {
		return errorsmod.Wrapf(ErrInsufficientChips, "deposit %d below min buy-in %d", deposit, cfg.MinBuyIn)
	}

	if err := e.bank.ToEscrow(gameID, addr, math.NewIntFromUint64(deposit)); err != nil {
		return err
	}

	seat, ok := list.AddPlayer(addr)
	if !ok {
		return errorsmod.Wrap(ErrGameFull, gameID)
	}
	p := state.NewPlayerState(gameID, addr, seat, deposit)
	p.SetCommitment(commitment)
	cfg.CurrentPlayers++
	st.LastActionUnix = e.unix()

	if cfg.CurrentPlayers >= cfg.MaxPlayers {
		cfg.AcceptingPlayers = false
		st.Shuffling = state.ShuffleGenerating
		st.ActionCount = 0
		st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
		e.log.Info("table full, generating deck", "game", gameID, "turn", st.CurrentTurn)
	}

	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	if err := e.rec.SetPlayers(list); err != nil {
		return err
	}
	if err := e.rec.SetConfig(cfg); err != nil {
		return err
	}
	if err := e.rec.SetState(st); err != nil {
		return err
	}
	e.log.Info("player joined", "game", gameID, "player", addr, "seat", seat, "deposit", deposit)
	return nil
}

// CommitSeed binds a fresh seed commitment for hands after the first; the
// reset clears every player's previous commitment. Once all seats have
// committed the table moves to deck generation.
func (e *Engine) CommitSeed(gameID, addr string, commitment [ecmath.CommitmentSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Shuffling != state.ShuffleCommitting {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "committing during %s", st.Shuffling)
	}
	if _, err := seatOf(list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.HasCommitted {
		return errorsmod.Wrap(ErrInvalidShufflingState, "seed already committed")
	}
	p.SetCommitment(commitment)
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}

	committed := uint8(0)
	for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
		other := list.Player(seat)
		if other == "" {
			continue
		}
		ps, err := e.rec.Player(gameID, other)
		if err != nil {
			return err
		}
		if ps.HasCommitted {
			committed++
		}
	}
	st.LastActionUnix = e.unix()
	if committed >= cfg.CurrentPlayers {
		st.Shuffling = state.ShuffleGenerating
		st.ActionCount = 0
		st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
		e.log.Info("all seeds committed", "game", gameID, "turn", st.CurrentTurn)
	}
	return e.rec.SetState(st)
}

// StartNextHand rotates the dealer button and rewinds every per-hand
// record. Chip stacks and the canonical deck mapping survive; commitments,
// hole cards, the board and the accumulator are cleared, and the next hand
// begins at the commit stage.
func (e *Engine) StartNextHand(gameID, addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	settled := st.Texas == state.TexasFinished ||
		(st.Texas == state.TexasClaimPot && st.PotClaimed)
	if !settled {
		return errorsmod.Wrapf(ErrInvalidTexasState, "hand not settled in %s", st.Texas)
	}
	if _, err := seatOf(list, addr); err != nil {
		return err
	}

	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}
	comm, err := e.rec.Community(gameID)
	if err != nil {
		return err
	}

	cfg.DealerIndex = nextSeat(cfg.DealerIndex, cfg.MaxPlayers)
	cfg.GameNumber++
	st.ResetForNextHand(e.unix())
	d.Reset()
	acc.Reset()
	comm.Reset()
	list.ResetRevealed()

	for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
		other := list.Player(seat)
		if other == "" {
			continue
		}
		p, err := e.rec.Player(gameID, other)
		if err != nil {
			return err
		}
		p.ResetForNextHand()
		if err := e.rec.SetPlayer(p); err != nil {
			return err
		}
	}

	for _, set := range []func() error{
		func() error { return e.rec.SetConfig(cfg) },
		func() error { return e.rec.SetState(st) },
		func() error { return e.rec.SetDeck(d) },
		func() error { return e.rec.SetAccumulator(acc) },
		func() error { return e.rec.SetCommunity(comm) },
		func() error { return e.rec.SetPlayers(list) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	e.log.Info("next hand", "game", gameID, "hand", cfg.GameNumber, "dealer", cfg.DealerIndex)
	return nil
}

// LeaveGame releases a seat and refunds the player's remaining stack. Mid
// hand a player may only leave after folding or once the pot is settled.
func (e *Engine) LeaveGame(gameID, addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	seat, err := seatOf(list, addr)
	if err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}

	canLeave := st.Phase == state.PhaseFinished ||
		st.Texas == state.TexasFinished ||
		(st.Texas == state.TexasClaimPot && st.PotClaimed) ||
		p.Folded ||
		st.Shuffling == state.ShuffleCommitting
	if !canLeave {
		return errorsmod.Wrapf(ErrCannotLeaveNow, "in %s/%s", st.Phase, st.Texas)
	}

	if p.Chips > 0 {
		if err := e.bank.FromEscrow(gameID, addr, math.NewIntFromUint64(p.Chips)); err != nil {
			return err
		}
	}
	list.RemovePlayer(seat)
	if cfg.CurrentPlayers > 0 {
		cfg.CurrentPlayers--
	}
	cfg.AcceptingPlayers = cfg.CurrentPlayers < cfg.MaxPlayers
	if err := e.rec.DeletePlayer(gameID, addr); err != nil {
		return err
	}
	if err := e.rec.SetPlayers(list); err != nil {
		return err
	}
	if err := e.rec.SetConfig(cfg); err != nil {
		return err
	}
	e.log.Info("player left", "game", gameID, "player", addr, "refund", p.Chips)
	return nil
}

// Slash lets any seated player punish the seat holding the action once the
// table has stalled past the configured timeout. A slice of the offender's
// stack moves to the caller and the offender is force-folded.
func (e *Engine) Slash(gameID, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if _, err := seatOf(list, caller); err != nil {
		return err
	}
	if st.Phase == state.PhaseWaitingForPlayers || st.Phase == state.PhaseFinished {
		return errorsmod.Wrapf(ErrInvalidGamePhase, "slashing during %s", st.Phase)
	}
	elapsed := e.unix() - st.LastActionUnix
	if elapsed < int64(cfg.TimeoutSeconds) {
		return errorsmod.Wrapf(ErrTimeoutNotReached, "%ds elapsed, need %ds", elapsed, cfg.TimeoutSeconds)
	}

	offenderAddr := list.Player(st.CurrentTurn)
	if offenderAddr == "" {
		return errorsmod.Wrapf(ErrNotAPlayer, "no player at seat %d", st.CurrentTurn)
	}
	if offenderAddr == caller {
		return errorsmod.Wrap(ErrUnauthorized, "cannot slash yourself")
	}
	offender, err := e.rec.Player(gameID, offenderAddr)
	if err != nil {
		return err
	}

	slashAmount := offender.Chips * uint64(min(cfg.SlashPercentage, 100)) / 100
	if slashAmount > 0 {
		if err := e.bank.FromEscrow(gameID, caller, math.NewIntFromUint64(slashAmount)); err != nil {
			return err
		}
		offender.Chips -= slashAmount
	}
	if !offender.Folded {
		offender.Folded = true
		st.FoldedPlayers++
	}
	st.LastActionUnix = e.unix()

	remaining := cfg.MaxPlayers - st.FoldedPlayers
	if remaining == 1 {
		st.Texas = state.TexasClaimPot
		e.log.Info("one player remaining after slash", "game", gameID)
	} else {
		next, err := e.nextActiveSeat(gameID, list, st.CurrentTurn, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = next
	}

	if err := e.rec.SetPlayer(offender); err != nil {
		return err
	}
	if err := e.rec.SetState(st); err != nil {
		return err
	}
	e.log.Info("player slashed", "game", gameID, "offender", offenderAddr, "caller", caller, "amount", slashAmount)
	return nil
}

// CloseGame tears the table down. Only the creating authority may close;
// without force the hand must be settled or the table empty. Remaining
// stacks are refunded and whatever is left in escrow goes back to the
// authority.
func (e *Engine) CloseGame(gameID, authority string, force bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if cfg.Authority != authority {
		return errorsmod.Wrap(ErrInvalidAuthority, authority)
	}
	if !force {
		finished := st.Texas == state.TexasFinished || st.Texas == state.TexasStartNext
		if !finished && cfg.CurrentPlayers > 0 {
			return errorsmod.Wrapf(ErrGameNotFinished, "in %s with %d players", st.Texas, cfg.CurrentPlayers)
		}
	}

	for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
		addr := list.Player(seat)
		if addr == "" {
			continue
		}
		p, err := e.rec.Player(gameID, addr)
		if err != nil {
			return err
		}
		if p.Chips > 0 {
			if err := e.bank.FromEscrow(gameID, addr, math.NewIntFromUint64(p.Chips)); err != nil {
				return err
			}
		}
	}
	// Whatever remains (an unclaimed pot, slash dust) goes to the authority.
	if rest := e.bank.EscrowBalance(gameID); rest.IsPositive() {
		if err := e.bank.FromEscrow(gameID, authority, rest); err != nil {
			return err
		}
	}

	if err := e.rec.DeleteGame(gameID); err != nil {
		return err
	}
	e.log.Info("game closed", "game", gameID, "force", force)
	return nil
}
