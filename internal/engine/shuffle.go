package engine

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/deck"
	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/state"
)

// GenerateDeck reveals a player's committed seed and folds its 52 derived
// values into the randomness accumulator. A seed that does not hash to the
// stored commitment is rejected, so nobody can steer the joint randomness
// after seeing others' contributions.
func (e *Engine) GenerateDeck(gameID, addr string, seed [ecmath.SeedSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Phase != state.PhaseShuffling {
		return errorsmod.Wrapf(ErrInvalidGamePhase, "generating during %s", st.Phase)
	}
	if st.Shuffling != state.ShuffleGenerating {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "generating during %s", st.Shuffling)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if !p.HasCommitted || !ecmath.VerifyCommitment(p.Commitment, seed) {
		return errorsmod.Wrap(ErrInvalidCommitment, addr)
	}
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}

	for k := 0; k < deck.DeckSize; k++ {
		acc.Accumulate(k, ecmath.DeriveValue(seed, uint8(k)))
	}
	st.ActionCount++
	st.LastActionUnix = e.unix()

	if st.ActionCount >= cfg.MaxPlayers {
		st.Shuffling = state.ShuffleShuffling
		st.ActionCount = 0
		st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
		e.log.Info("deck randomness complete", "game", gameID, "turn", st.CurrentTurn)
	} else {
		st.CurrentTurn = nextSeat(st.CurrentTurn, cfg.MaxPlayers)
	}

	if err := e.rec.SetAccumulator(acc); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// SubmitDeckMapping stores the canonical encoding of all 52 cards: the
// points every fully decrypted card must land back on. Only the first
// player in the shuffle order submits it, once per hand.
func (e *Engine) SubmitDeckMapping(gameID, addr string, points []ecmath.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(points) != deck.DeckSize {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(points), deck.DeckSize)
	}
	_, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkMappingState(st, list, addr); err != nil {
		return err
	}
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}
	if err := setDeckPoints(acc, 0, points); err != nil {
		return err
	}
	st.DeckSubmitted = true
	st.LastActionUnix = e.unix()

	if err := e.rec.SetAccumulator(acc); err != nil {
		return err
	}
	if err := e.rec.SetState(st); err != nil {
		return err
	}
	e.log.Info("deck mapping submitted", "game", gameID, "player", addr)
	return nil
}

// SubmitDeckMappingPart1 is the first half of a split mapping submission:
// cards 0-25 as compressed points.
func (e *Engine) SubmitDeckMappingPart1(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), state.CardsPerPart)
	}
	_, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkMappingState(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.ShufflePart1Done {
		return errorsmod.Wrap(ErrPart1AlreadySubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}
	if err := setDeckPoints(acc, 0, points); err != nil {
		return err
	}
	p.ShufflePart1Done = true
	st.LastActionUnix = e.unix()

	if err := e.rec.SetAccumulator(acc); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// SubmitDeckMappingPart2 completes a split mapping submission with cards
// 26-51 and marks the canonical deck as bound for this hand.
func (e *Engine) SubmitDeckMappingPart2(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != deck.DeckSize-state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), deck.DeckSize-state.CardsPerPart)
	}
	_, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkMappingState(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if !p.ShufflePart1Done {
		return errorsmod.Wrap(ErrPart1NotSubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	acc, err := e.rec.Accumulator(gameID)
	if err != nil {
		return err
	}
	if err := setDeckPoints(acc, state.CardsPerPart, points); err != nil {
		return err
	}
	p.ShufflePart1Done = false
	st.DeckSubmitted = true
	st.LastActionUnix = e.unix()

	if err := e.rec.SetAccumulator(acc); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	if err := e.rec.SetState(st); err != nil {
		return err
	}
	e.log.Info("deck mapping submitted", "game", gameID, "player", addr, "split", true)
	return nil
}

// ShuffleDeck overwrites the working deck with the caller's shuffled and
// re-encrypted permutation. The pass moves around the table; after the
// last player the deck advances to the lock round.
func (e *Engine) ShuffleDeck(gameID, addr string, points []ecmath.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(points) != deck.DeckSize {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(points), deck.DeckSize)
	}
	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Shuffling != state.ShuffleShuffling {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "shuffling during %s", st.Shuffling)
	}
	if !st.DeckSubmitted {
		return errorsmod.Wrap(ErrDeckNotSubmitted, gameID)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, 0, points); err != nil {
		return err
	}
	e.advanceShuffle(cfg, st)

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// ShufflePart1 stores slots 0-25 of a split shuffle pass.
func (e *Engine) ShufflePart1(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), state.CardsPerPart)
	}
	_, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Shuffling != state.ShuffleShuffling {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "shuffling during %s", st.Shuffling)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.ShufflePart1Done {
		return errorsmod.Wrap(ErrPart1AlreadySubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, 0, points); err != nil {
		return err
	}
	p.ShufflePart1Done = true
	st.LastActionUnix = e.unix()

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// ShufflePart2 completes a split shuffle pass with slots 26-51 and advances
// the round the same way a whole-deck shuffle does.
func (e *Engine) ShufflePart2(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != deck.DeckSize-state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), deck.DeckSize-state.CardsPerPart)
	}
	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if st.Shuffling != state.ShuffleShuffling {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "shuffling during %s", st.Shuffling)
	}
	if _, err := requireTurn(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if !p.ShufflePart1Done {
		return errorsmod.Wrap(ErrPart1NotSubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, state.CardsPerPart, points); err != nil {
		return err
	}
	p.ShufflePart1Done = false
	if !st.DeckSubmitted {
		st.DeckSubmitted = true
	}
	e.advanceShuffle(cfg, st)

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// LockDeck is the final shuffle round: each player re-encrypts every card
// under a per-card lock key. After the last lock the table starts drawing,
// with the seat left of the dealer picking first.
func (e *Engine) LockDeck(gameID, addr string, points []ecmath.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(points) != deck.DeckSize {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(points), deck.DeckSize)
	}
	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkLockState(st, list, addr); err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, 0, points); err != nil {
		return err
	}
	e.advanceLock(cfg, st)

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// LockPart1 stores slots 0-25 of a split lock pass.
func (e *Engine) LockPart1(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), state.CardsPerPart)
	}
	_, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkLockState(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if p.LockPart1Done {
		return errorsmod.Wrap(ErrPart1AlreadySubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, 0, points); err != nil {
		return err
	}
	p.LockPart1Done = true
	st.LastActionUnix = e.unix()

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

// LockPart2 completes a split lock pass and advances the round the same
// way a whole-deck lock does.
func (e *Engine) LockPart2(gameID, addr string, parts [][ecmath.CompressedPointSize]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(parts) != deck.DeckSize-state.CardsPerPart {
		return errorsmod.Wrapf(ErrInvalidVectorSize, "%d points, want %d", len(parts), deck.DeckSize-state.CardsPerPart)
	}
	cfg, st, list, err := e.core(gameID)
	if err != nil {
		return err
	}
	if err := e.checkLockState(st, list, addr); err != nil {
		return err
	}
	p, err := e.rec.Player(gameID, addr)
	if err != nil {
		return err
	}
	if !p.LockPart1Done {
		return errorsmod.Wrap(ErrPart1NotSubmitted, addr)
	}
	points, err := decompressAll(parts)
	if err != nil {
		return err
	}
	d, err := e.rec.Deck(gameID)
	if err != nil {
		return err
	}
	if err := writeDeck(d, state.CardsPerPart, points); err != nil {
		return err
	}
	p.LockPart1Done = false
	e.advanceLock(cfg, st)

	if err := e.rec.SetDeck(d); err != nil {
		return err
	}
	if err := e.rec.SetPlayer(p); err != nil {
		return err
	}
	return e.rec.SetState(st)
}

func (e *Engine) checkMappingState(st *state.GameState, list *state.PlayerList, addr string) error {
	if st.Shuffling != state.ShuffleShuffling {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "mapping during %s", st.Shuffling)
	}
	if st.DeckSubmitted {
		return errorsmod.Wrap(ErrDeckAlreadySubmitted, st.GameID)
	}
	_, err := requireTurn(st, list, addr)
	return err
}

func (e *Engine) checkLockState(st *state.GameState, list *state.PlayerList, addr string) error {
	if st.Phase != state.PhaseShuffling {
		return errorsmod.Wrapf(ErrInvalidGamePhase, "locking during %s", st.Phase)
	}
	if st.Shuffling != state.ShuffleLocking {
		return errorsmod.Wrapf(ErrInvalidShufflingState, "locking during %s", st.Shuffling)
	}
	_, err := requireTurn(st, list, addr)
	return err
}

func (e *Engine) advanceShuffle(cfg *state.GameConfig, st *state.GameState) {
	st.ActionCount++
	st.LastActionUnix = e.unix()
	if st.ActionCount >= cfg.MaxPlayers {
		st.Shuffling = state.ShuffleLocking
		st.ActionCount = 0
		st.CurrentTurn = (cfg.DealerIndex + 3) % cfg.MaxPlayers
		e.log.Info("shuffle complete, locking", "game", st.GameID, "turn", st.CurrentTurn)
	} else {
		st.CurrentTurn = nextSeat(st.CurrentTurn, cfg.MaxPlayers)
	}
}

func (e *Engine) advanceLock(cfg *state.GameConfig, st *state.GameState) {
	st.ActionCount++
	st.LastActionUnix = e.unix()
	if st.ActionCount >= cfg.MaxPlayers {
		st.Phase = state.PhaseDrawing
		st.Drawing = state.DrawPicking
		st.ActionCount = 0
		st.CurrentTurn = nextSeat(cfg.DealerIndex, cfg.MaxPlayers)
		e.log.Info("deck locked, drawing begins", "game", st.GameID, "turn", st.CurrentTurn)
	} else {
		st.CurrentTurn = nextSeat(st.CurrentTurn, cfg.MaxPlayers)
	}
}

func writeDeck(d *state.DeckState, offset int, points []ecmath.Point) error {
	for i, p := range points {
		if p.IsIdentity() {
			return errorsmod.Wrapf(ecmath.ErrInvalidPoint, "identity at slot %d", offset+i)
		}
		d.SetCard(offset+i, p)
	}
	return nil
}

func setDeckPoints(acc *state.AccumulatorState, offset int, points []ecmath.Point) error {
	for i, p := range points {
		if p.IsIdentity() {
			return errorsmod.Wrapf(ecmath.ErrInvalidPoint, "identity at card %d", offset+i)
		}
		acc.SetDeckPoint(offset+i, p)
	}
	return nil
}
