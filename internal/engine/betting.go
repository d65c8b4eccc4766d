package engine

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/state"
)

// PlaceBlind posts the small or big blind. The small blind comes from the
// seat left of the dealer when no call amount is set yet; the big blind
// follows and hands the table over to the hole-card draw. A short stack
// may post all-in.
func (e *Engine) PlaceBlind(gameID, addr string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasBetting {
		return errorsmod.Wrapf(ErrInvalidTexasState, "blinds during %s", st.Texas)
	}
	if st.BettingRound != state.RoundBlinds {
		return errorsmod.Wrapf(ErrInvalidBettingState, "blinds during %s", st.BettingRound)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.Chips < amount {
		return errorsmod.Wrapf(ErrInsufficientChips, "%d chips, blind %d", p.Chips, amount)
	}

	if st.CurrentCallAmount == 0 {
		expected := min(cfg.SmallBlind, p.Chips)
		if p.CurrentBet+amount != expected && amount != p.Chips {
			return errorsmod.Wrapf(ErrInvalidSmallBlind, "posted %d, expected %d", amount, expected)
		}
	} else {
		expected := min(cfg.SmallBlind*2, p.Chips)
		if p.CurrentBet+amount != expected && amount != p.Chips {
			return errorsmod.Wrapf(ErrInvalidBigBlind, "posted %d, expected %d", amount, expected)
		}
	}

	p.Chips -= amount
	p.CurrentBet += amount
	st.Pot += amount
	st.CurrentCallAmount = p.CurrentBet
	st.LastActionUnix = e.unix()

	if st.CurrentCallAmount == cfg.SmallBlind {
		// Small blind posted, big blind is next.
		st.CurrentTurn = nextSeat(st.CurrentTurn, cfg.MaxPlayers)
	} else {
		st.Texas = state.TexasDrawing
		st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
		e.log.Info("blinds posted, drawing begins", "game", gameID, "turn", st.CurrentTurn)
	}

	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// Bet calls or raises. The amount is added to the player's street bet; the
// result must at least match the call amount unless the player is moving
// all-in short. A raise reopens the action, making the seat before the
// raiser the last to act.
func (e *Engine) Bet(gameID, addr string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasBetting {
		return errorsmod.Wrapf(ErrInvalidTexasState, "betting during %s", st.Texas)
	}
	seat, err := requireTurn(st, list, addr)
	if err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.Folded {
		return errorsmod.Wrap(ErrAlreadyFolded, addr)
	}
	if p.Chips < amount {
		return errorsmod.Wrapf(ErrInsufficientChips, "%d chips, bet %d", p.Chips, amount)
	}
	newBet := p.CurrentBet + amount
	if newBet < st.CurrentCallAmount && amount != p.Chips {
		return errorsmod.Wrapf(ErrInvalidBetAmount, "bet to %d below call %d", newBet, st.CurrentCallAmount)
	}

	p.Chips -= amount
	p.CurrentBet = newBet
	st.Pot += amount

	if newBet > st.CurrentCallAmount {
		st.CurrentCallAmount = newBet
		st.LastToCall = (seat + cfg.MaxPlayers - 1) % cfg.MaxPlayers
		e.log.Info("raise", "game", gameID, "player", addr, "to", newBet)
	} else {
		e.log.Info("call", "game", gameID, "player", addr, "bet", newBet)
	}
	st.LastActionUnix = e.unix()

	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}

	allIn, err := e.allRemainingAllIn(gameID, list, cfg.MaxPlayers)
	if err != nil {
		return err
	}
	if allIn {
		st.EverybodyAllIn = true
	}
	if st.LastToCall == seat || allIn {
		if err := e.closeStreet(gameID, st, cfg, list); err != nil {
			return err
		}
	} else {
		next, err := e.nextActiveSeat(gameID, list, seat, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = next
	}

	return e.rec.SetState(st)
}

// Fold withdraws the player from the hand; their chips in the pot stay. If
// only one player remains the hand short-circuits straight to the pot
// claim.
func (e *Engine) Fold(gameID, addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasBetting {
		return errorsmod.Wrapf(ErrInvalidTexasState, "folding during %s", st.Texas)
	}
	seat, err := requireTurn(st, list, addr)
	if err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.Folded {
		return errorsmod.Wrap(ErrAlreadyFolded, addr)
	}

	p.Folded = true
	st.FoldedPlayers++
	st.LastActionUnix = e.unix()

	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}

	remaining := cfg.MaxPlayers - st.FoldedPlayers
	switch {
	case remaining == 1:
		st.Texas = state.TexasClaimPot
		e.log.Info("fold to one, pot claimable", "game", gameID)
	case st.LastToCall == seat:
		if err := e.closeStreet(gameID, st, cfg, list); err != nil {
			return err
		}
	default:
		next, err := e.nextActiveSeat(gameID, list, seat, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = next
	}

	e.log.Info("fold", "game", gameID, "player", addr, "remaining", remaining)
	return e.rec.SetState(st)
}

// closeStreet runs finishBettingRound and, when the showdown street just
// ended, moves the nominal turn onto the first unfolded seat so the reveal
// phase cannot stall on a folded dealer.
func (e *Engine) closeStreet(gameID string, st *state.GameState, cfg *state.GameConfig, list *state.PlayerList) error {
	finishBettingRound(st, cfg)
	if st.Texas == state.TexasRevealing {
		first, err := e.firstActiveSeat(gameID, list, cfg.DealerIndex, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = first
		e.log.Info("showdown, revealing hole cards", "game", gameID, "turn", st.CurrentTurn)
	}
	return nil
}
