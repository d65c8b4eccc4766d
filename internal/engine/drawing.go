package engine

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/state"
)

// DrawCard takes the next card off the top of the locked deck for the
// caller's hole. The slot is recorded against the player and the table
// switches to the collaborative reveal of that card. Returns the drawn
// deck slot.
func (e *Engine) DrawCard(gameID, addr string) (uint8, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, st, list, err := e.core(gameID)
	if err != nil {
		return 0, err
	}
	if st.Texas != state.TexasDrawing {
		return 0, errorsmod.Wrapf(ErrInvalidTexasState, "drawing during %s", st.Texas)
	}
	if st.Drawing != state.DrawPicking {
		return 0, errorsmod.Wrapf(ErrInvalidDrawingState, "drawing during %s", st.Drawing)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return 0, err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return 0, err
	}
	if p.HoleCardCount >= state.HoleCardsPerPlayer {
		return 0, errorsmod.Wrapf(ErrCannotDrawMoreCards, "%s holds %d cards", addr, p.HoleCardCount)
	}
	if st.CardsLeftInDeck == 0 {
		return 0, errorsmod.Wrap(ErrNoCardsLeft, gameID)
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return 0, err
	}

	st.CardsLeftInDeck--
	slot := st.CardsLeftInDeck
	d.SetHolder(int(slot), addr)
	p.AddHoleCard(slot)
	st.CardsDrawn++
	st.Drawing = state.DrawRevealing
	st.CardToReveal = slot
	list.ResetRevealed()
	st.LastActionUnix = e.unix()

	if err := e.rec.SetDeck(d); err != nil {
		return 0, err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return 0, err
	}
	if err := e.rec.SetPlayers(list); err != nil {
		return 0, err
	}
	if err := e.rec.SetState(st); err != nil {
		return 0, err
	}
	e.log.Info("card drawn", "game", gameID, "player", addr, "slot", slot)
	return slot, nil
}

// RevealCard strips one player's lock key off the card currently being
// revealed. Everyone except the card's holder contributes exactly once;
// after the last contribution only the holder's own key remains on the
// point. Not turn-gated: contributions arrive in any order.
func (e *Engine) RevealCard(gameID, addr string, slot uint8, invKey ecmath.Scalar) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Drawing != state.DrawRevealing {
		return errorsmod.Wrapf(ErrInvalidDrawingState, "revealing during %s", st.Drawing)
	}
	if slot != st.CardToReveal {
		return errorsmod.Wrapf(ErrInvalidCardIndex, "slot %d, revealing %d", slot, st.CardToReveal)
	}
	seat, err := seatOf(list, addr)
	if err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if d.Holder(int(slot)) == addr {
		return errorsmod.Wrap(ErrNotCardOwner, "holder cannot reveal their own card")
	}
	if list.HasRevealed(seat) {
		return errorsmod.Wrap(ErrPlayerAlreadyRevealed, addr)
	}

	point, _ := d.Card(int(slot))
	decrypted, err := decryptCard(point, invKey)
	if err != nil {
		return err
	}
	d.SetCard(int(slot), decrypted)
	list.MarkRevealed(seat)
	st.LastActionUnix = e.unix()

	if list.CountRevealed() >= cfg.MaxPlayers-1 {
		if st.Texas == state.TexasCommunityCardsAwaiting {
			// Board card: ready for the dealer to open it.
			st.Drawing = state.DrawPicking
		} else {
			st.Drawing = state.DrawPicking
			totalNeeded := cfg.MaxPlayers * state.HoleCardsPerPlayer
			if st.CardsDrawn >= totalNeeded {
				st.Texas = state.TexasBetting
				st.BettingRound = state.RoundPreFlop
				st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
				// Pre-flop closes when action returns to the big blind.
				st.LastToCall = (cfg.DealerIndex + 2) % cfg.MaxPlayers
				e.log.Info("hole cards dealt, pre-flop begins", "game", gameID, "turn", st.CurrentTurn)
			} else {
				st.CurrentTurn = nextSeat(st.CurrentTurn, cfg.MaxPlayers)
			}
		}
	}

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayers(list); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// DealCommunityCard has the dealer take the next deck slot for the board.
// The usual collaborative reveal follows; the dealer then opens the card
// face up with OpenCommunityCard.
func (e *Engine) DealCommunityCard(gameID, addr string) (uint8, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return 0, err
	}
	if st.Texas != state.TexasCommunityCardsAwaiting {
		return 0, errorsmod.Wrapf(ErrInvalidTexasState, "dealing board during %s", st.Texas)
	}
	seat, err := seatOf(list, addr)
	if err != nil {
		return 0, err
	}
	if seat != cfg.DealerIndex {
		return 0, errorsmod.Wrap(ErrUnauthorized, "only the dealer deals the board")
	}
	if st.CardsLeftInDeck == 0 {
		return 0, errorsmod.Wrap(ErrNoCardsLeft, gameID)
	}
	comm, err := e.rec.Community(gameID)
	if err != nil {
		return 0, err
	}
	switch st.Community {
	case state.CommunityFlopAwaiting:
		if comm.CardCount >= 3 {
			return 0, errorsmod.Wrap(ErrInvalidCommunityCardsState, "flop already dealt")
		}
	case state.CommunityTurnAwaiting:
		if comm.CardCount != 3 {
			return 0, errorsmod.Wrapf(ErrInvalidCommunityCardsState, "turn after %d board cards", comm.CardCount)
		}
	case state.CommunityRiverAwaiting:
		if comm.CardCount != 4 {
			return 0, errorsmod.Wrapf(ErrInvalidCommunityCardsState, "river after %d board cards", comm.CardCount)
		}
	default:
		return 0, errorsmod.Wrapf(ErrInvalidCommunityCardsState, "dealing during %s", st.Community)
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return 0, err
	}

	st.CardsLeftInDeck--
	slot := st.CardsLeftInDeck
	d.SetHolder(int(slot), addr)
	comm.AddCard(slot)
	st.CardToReveal = slot
	st.Drawing = state.DrawRevealing
	list.ResetRevealed()
	st.LastActionUnix = e.unix()

	if err := e.rec.SetDeck(d); err != nil {
		return 0, err
	}
	if err := e.rec.SetCommunity(comm); err != nil {
		return 0, err
	}
	if err := e.rec.SetPlayers(list); err != nil {
		return 0, err
	}
	if err := e.rec.SetState(st); err != nil {
		return 0, err
	}
	e.log.Info("board card dealt", "game", gameID, "slot", slot, "board", comm.CardCount)
	return slot, nil
}

// OpenCommunityCard is the dealer's final decryption of a board card. The
// third, fourth and fifth opened cards each start a betting street: the
// flop, the turn and the river's showdown round.
func (e *Engine) OpenCommunityCard(gameID, addr string, slot uint8, invKey ecmath.Scalar) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasCommunityCardsAwaiting {
		return errorsmod.Wrapf(ErrInvalidTexasState, "opening board during %s", st.Texas)
	}
	if st.Drawing != state.DrawPicking {
		return errorsmod.Wrapf(ErrInvalidDrawingState, "board card still being revealed")
	}
	comm, err := e.rec.Community(gameID)
	if err != nil {
		return err
	}
	if !comm.IsCommunityCard(slot) {
		return errorsmod.Wrapf(ErrNotCommunityCard, "slot %d", slot)
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if d.Holder(int(slot)) != addr {
		return errorsmod.Wrap(ErrNotCardOwner, addr)
	}

	point, _ := d.Card(int(slot))
	decrypted, err := decryptCard(point, invKey)
	if err != nil {
		return err
	}
	d.SetCard(int(slot), decrypted)
	d.ClearHolder(int(slot))
	comm.AddOpened(decrypted)
	st.LastActionUnix = e.unix()

	switch {
	case comm.OpenedCount < 3:
		// Mid-flop: back to the dealer for the next board card.
		st.Community = state.CommunityFlopAwaiting
		st.CurrentTurn = cfg.DealerIndex
	case comm.OpenedCount == 3:
		if err := e.startStreet(gameID, st, cfg, list, state.RoundPostFlop); err != nil {
			return err
		}
		e.log.Info("flop open", "game", gameID)
	case comm.OpenedCount == 4:
		if err := e.startStreet(gameID, st, cfg, list, state.RoundPostTurn); err != nil {
			return err
		}
		e.log.Info("turn open", "game", gameID)
	default:
		if err := e.startStreet(gameID, st, cfg, list, state.RoundShowdown); err != nil {
			return err
		}
		e.log.Info("river open, showdown betting", "game", gameID)
	}

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetCommunity(comm); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// OpenCard is the holder's own final decryption of a hole card at
// showdown. The decrypted point is stored against the player; once every
// remaining player has opened both cards the table moves to hand
// submission.
func (e *Engine) OpenCard(gameID, addr string, slot uint8, invKey ecmath.Scalar) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasRevealing {
		return errorsmod.Wrapf(ErrInvalidTexasState, "opening during %s", st.Texas)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	comm, err := e.rec.Community(gameID)
	if err != nil {
		return err
	}
	if comm.IsCommunityCard(slot) {
		return errorsmod.Wrapf(ErrInvalidCardIndex, "slot %d is a board card", slot)
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if !p.HoldsSlot(slot) {
		return errorsmod.Wrapf(ErrNotCardOwner, "slot %d", slot)
	}
	if p.RevealedCardCount >= state.HoleCardsPerPlayer {
		return errorsmod.Wrap(ErrCannotDrawMoreCards, "both hole cards already open")
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if d.Holder(int(slot)) != addr {
		return errorsmod.Wrapf(ErrCardAlreadyRevealed, "slot %d", slot)
	}

	point, _ := d.Card(int(slot))
	decrypted, err := decryptCard(point, invKey)
	if err != nil {
		return err
	}
	d.SetCard(int(slot), decrypted)
	d.ClearHolder(int(slot))
	p.RevealedCards[p.RevealedCardCount] = decrypted
	p.RevealedCardCount++
	st.PlayerCardsOpened++
	st.LastActionUnix = e.unix()

	inPlay := cfg.MaxPlayers - st.FoldedPlayers
	if st.PlayerCardsOpened >= inPlay*state.HoleCardsPerPlayer {
		st.Texas = state.TexasSubmitBest
		first, err := e.firstActiveSeat(gameID, list, (cfg.DealerIndex+3)%cfg.MaxPlayers, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = first
		e.log.Info("all hole cards open", "game", gameID, "turn", st.CurrentTurn)
	} else if p.RevealedCardCount >= state.HoleCardsPerPlayer {
		next, err := e.nextActiveSeat(gameID, list, st.CurrentTurn, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = next
	}

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}
