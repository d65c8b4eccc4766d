package engine

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/holdem"
	"github.com/vitorpy/solana-poker/internal/state"
)

// SubmitBestHand resolves the five decrypted points the player claims as
// their best hand. Each point must land on the canonical deck mapping;
// this is where cheated reveals die, because a wrong inverse key earlier
// in the hand leaves the point off the mapping. The hand is evaluated and
// stored for the pot claim.
func (e *Engine) SubmitBestHand(gameID, addr string, points [holdem.HandSize]ecmath.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasSubmitBest {
		return errorsmod.Wrapf(ErrInvalidTexasState, "submitting during %s", st.Texas)
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
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}

	var cards [holdem.HandSize]deck.Card
	for i, pt := range points {
		id := acc.FindCard(pt)
		if id < 0 {
			return errorsmod.Wrapf(holdem.ErrIllegalCard, "point %d not on the deck", i)
		}
		cards[i] = deck.Card(id)
	}
	rank, err := holdem.Evaluate(cards)
	if err != nil {
		return err
	}

	p.SubmittedHand = rank
	p.HasSubmittedHand = true
	st.SubmittedHands++
	st.LastActionUnix = e.unix()

	inPlay := cfg.MaxPlayers - st.FoldedPlayers
	if st.SubmittedHands >= inPlay {
		st.Texas = state.TexasClaimPot
		st.CurrentTurn = cfg.DealerIndex
		e.log.Info("all hands submitted", "game", gameID)
	} else {
		next, err := e.nextActiveSeat(gameID, list, seat, cfg.MaxPlayers)
		if err != nil {
			return err
		}
		st.CurrentTurn = next
	}

	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	if err := e.rec.SetState(st); err != nil {
		return err
	}
	e.log.Info("hand submitted", "game", gameID, "player", addr, "category", rank.Category)
	return nil
}

// ClaimPot settles the hand: determines the winning seats, pays the pot
// out of escrow with floor division (remainder to the first winner in seat
// order) and finishes the hand. Callable once, by any seated player.
func (e *Engine) ClaimPot(gameID, addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Texas != state.TexasClaimPot {
		return errorsmod.Wrapf(ErrInvalidTexasState, "claiming during %s", st.Texas)
	}
	if st.PotClaimed {
		return errorsmod.Wrap(ErrPotAlreadyClaimed, gameID)
	}
	if _, err := seatOf(list, addr); err != nil {
		return err
	}

	winners, err := e.determineWinners(gameID, cfg, st, list)
	if err != nil {
		return err
	}
	if len(winners) == 0 {
		return errorsmod.Wrap(ErrNoWinner, gameID)
	}

	share, remainder := holdem.SplitPot(st.Pot, len(winners))
	for i, seat := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		if amount == 0 {
			continue
		}
		winner := list.Player(seat)
		if err := e.bank.FromEscrow(gameID, winner, math.NewIntFromUint64(amount)); err != nil {
			return err
		}
		e.log.Info("pot paid", "game", gameID, "winner", winner, "amount", amount)
	}

	st.PotClaimed = true
	st.Pot = 0
	st.Texas = state.TexasFinished
	st.LastActionUnix = e.unix()
	return e.rec.SetState(st)
}

// determineWinners returns the winning seats in seat order. A fold-to-one
// hand needs no submitted hands; otherwise the submitted ranks are
// compared with ties producing multiple winners.
func (e *Engine) determineWinners(gameID string, cfg *state.GameConfig, st *state.GameState, list *state.PlayerList) ([]uint8, error) {
	if cfg.MaxPlayers-st.FoldedPlayers == 1 {
		for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
			addr := list.Player(seat)
			if addr == "" {
				continue
			}
			p, err := e.rec.Player(gameID, addr)
			if err != nil {
				return nil, err
			}
			if !p.Folded {
				return []uint8{seat}, nil
			}
		}
		return nil, nil
	}

	var (
		winners []uint8
		best    holdem.Rank
		haveAny bool
	)
	for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
		addr := list.Player(seat)
		if addr == "" {
			continue
		}
		p, err := e.rec.Player(gameID, addr)
		if err != nil {
			return nil, err
		}
		if p.Folded || !p.HasSubmittedHand {
			continue
		}
		switch {
		case !haveAny:
			haveAny = true
			best = p.SubmittedHand
			winners = []uint8{seat}
		default:
			switch holdem.Compare(p.SubmittedHand, best) {
			case 1:
				best = p.SubmittedHand
				winners = []uint8{seat}
			case 0:
				winners = append(winners, seat)
			}
		}
	}
	return winners, nil
}
