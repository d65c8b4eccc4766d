// Package engine drives the mental poker table: a deterministic state
// machine over stored records, with all card material living as encrypted
// curve points until players cooperatively reveal it.
//
// Every operation follows the same shape: load the records it touches,
// validate phase, turn and flags, mutate in memory, then persist. A
// validation failure returns before any write, so rejected calls leave the
// stored state untouched.
package engine

import (
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/vitorpy/solana-poker/internal/ecmath"
	"github.com/vitorpy/solana-poker/internal/ledger"
	"github.com/vitorpy/solana-poker/internal/state"
)

// Engine executes game transitions against a Store and a Ledger. It
// serializes operations internally; callers may share one Engine across
// goroutines.
type Engine struct {
	mu   sync.Mutex
	rec  *state.Records
	bank ledger.Ledger
	log  log.Logger
	now  func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests and by the
// slash timeout machinery.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine over the given store and ledger.
func New(store state.Store, bank ledger.Ledger, logger log.Logger, opts ...Option) *Engine {
	e := &Engine{
		rec:  state.NewRecords(store),
		bank: bank,
		log:  logger.With("module", "engine"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Records exposes read access to the stored game records.
func (e *Engine) Records() *state.Records { return e.rec }

// Fingerprint returns the blake3 digest of every record of a game.
func (e *Engine) Fingerprint(gameID string) ([32]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.Fingerprint(e.rec.Store(), gameID)
}

func (e *Engine) unix() int64 { return e.now().Unix() }

// core loads the three records almost every operation needs.
func (e *Engine) core(gameID string) (*state.GameConfig, *state.GameState, *state.PlayerList, error) {
	cfg, err := e.rec.Config(gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := e.rec.State(gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	list, err := e.rec.Players(gameID)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, st, list, nil
}

// seatOf resolves addr to its seat index.
func seatOf(list *state.PlayerList, addr string) (uint8, error) {
	seat, ok := list.FindPlayer(addr)
	if !ok {
		return 0, errorsmod.Wrap(ErrNotAPlayer, addr)
	}
	return seat, nil
}

// requireTurn resolves addr's seat and checks it holds the action.
func requireTurn(st *state.GameState, list *state.PlayerList, addr string) (uint8, error) {
	seat, err := seatOf(list, addr)
	if err != nil {
		return 0, err
	}
	if seat != st.CurrentTurn {
		return 0, errorsmod.Wrapf(ErrNotYourTurn, "turn is seat %d, %s sits at %d", st.CurrentTurn, addr, seat)
	}
	return seat, nil
}

func nextSeat(seat, max uint8) uint8 {
	return (seat + 1) % max
}

// nextActiveSeat advances to the following seat, skipping folded players.
// Falls back to the plain successor when every other seat has folded.
func (e *Engine) nextActiveSeat(gameID string, list *state.PlayerList, from, max uint8) (uint8, error) {
	seat := from
	for i := uint8(0); i < max; i++ {
		seat = nextSeat(seat, max)
		addr := list.Player(seat)
		if addr == "" {
			continue
		}
		p, err := e.rec.Player(gameID, addr)
		if err != nil {
			return 0, err
		}
		if !p.Folded {
			return seat, nil
		}
	}
	return nextSeat(from, max), nil
}

// firstActiveSeat returns seat itself when occupied and unfolded, else the
// next seat that is.
func (e *Engine) firstActiveSeat(gameID string, list *state.PlayerList, seat, max uint8) (uint8, error) {
	s := seat
	for i := uint8(0); i < max; i++ {
		addr := list.Player(s)
		if addr != "" {
			p, err := e.rec.Player(gameID, addr)
			if err != nil {
				return 0, err
			}
			if !p.Folded {
				return s, nil
			}
		}
		s = nextSeat(s, max)
	}
	return seat, nil
}

// finishBettingRound closes the current street. Blinds hand over to the
// hole-card draw, each post-deal street hands over to the next board card,
// and the showdown street opens the reveal phase. The dealer takes the
// nominal turn while the table is between streets.
func finishBettingRound(st *state.GameState, cfg *state.GameConfig) {
	switch st.BettingRound {
	case state.RoundBlinds:
		st.Texas = state.TexasDrawing
	case state.RoundPreFlop:
		st.Texas = state.TexasCommunityCardsAwaiting
		st.Community = state.CommunityFlopAwaiting
	case state.RoundPostFlop:
		st.Texas = state.TexasCommunityCardsAwaiting
		st.Community = state.CommunityTurnAwaiting
	case state.RoundPostTurn:
		st.Texas = state.TexasCommunityCardsAwaiting
		st.Community = state.CommunityRiverAwaiting
	case state.RoundShowdown:
		st.Texas = state.TexasRevealing
	}
	st.CurrentTurn = cfg.DealerIndex
}

// startStreet opens a fresh betting street: action starts left of the
// dealer, the round closes when it comes back around to the dealer, and
// per-street bets reset.
func (e *Engine) startStreet(gameID string, st *state.GameState, cfg *state.GameConfig, list *state.PlayerList, round state.BettingRound) error {
	st.Texas = state.TexasBetting
	st.BettingRound = round
	st.CurrentTurn = nextSeat(cfg.DealerIndex, cfg.MaxPlayers)
	st.LastToCall = cfg.DealerIndex
	st.CurrentCallAmount = 0
	for seat := uint8(0); seat < cfg.MaxPlayers; seat++ {
		addr := list.Player(seat)
		if addr == "" {
			continue
		}
		p, err := e.rec.Player(gameID, addr)
		if err != nil {
			return err
		}
		if p.CurrentBet == 0 {
			continue
		}
		p.CurrentBet = 0
		if err := e.rec.SetPlayer(p); err != nil {
			return err
		}
	}
	return nil
}

// allRemainingAllIn reports whether every non-folded player is out of
// chips, in which case further betting is meaningless.
func (e *Engine) allRemainingAllIn(gameID string, list *state.PlayerList, max uint8) (bool, error) {
	for seat := uint8(0); seat < max; seat++ {
		addr := list.Player(seat)
		if addr == "" {
			continue
		}
		p, err := e.rec.Player(gameID, addr)
		if err != nil {
			return false, err
		}
		if !p.Folded && p.Chips > 0 {
			return false, nil
		}
	}
	return true, nil
}

// decryptCard multiplies an encrypted card point by the provided inverse
// lock key. Rejects a zero key and a degenerate result up front; the real
// integrity check happens when the fully decrypted point is matched against
// the canonical deck.
func decryptCard(p ecmath.Point, invKey ecmath.Scalar) (ecmath.Point, error) {
	if invKey.IsZero() {
		return ecmath.Point{}, errorsmod.Wrap(ecmath.ErrInvalidScalar, "zero inverse key")
	}
	out, err := ecmath.ScalarMult(invKey, p)
	if err != nil {
		return ecmath.Point{}, err
	}
	if out.IsIdentity() {
		return ecmath.Point{}, errorsmod.Wrap(ecmath.ErrECOperationFailed, "decryption produced identity")
	}
	return out, nil
}

// decompressAll converts a split submission's compressed points.
func decompressAll(parts [][ecmath.CompressedPointSize]byte) ([]ecmath.Point, error) {
	out := make([]ecmath.Point, len(parts))
	for i, c := range parts {
		p, err := ecmath.Decompress(c)
		if err != nil {
			return nil, errorsmod.Wrapf(ErrDecompressionFailed, "point %d: %v", i, err)
		}
		out[i] = p
	}
	return out, nil
}
