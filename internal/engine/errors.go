package engine

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/ecmath"
)

// Engine errors in the shared "poker" codespace. Codes are grouped by
// concern: sequencing 1xx, authorization 2xx, game logic 3xx, resolution
// 7xx, split submissions 8xx. Crypto (4xx), hand evaluation (5xx), storage
// (6xx) and ledger (9xx) codes live with their packages.
var (
	ErrInvalidState               = errorsmod.Register(ecmath.Codespace, 100, "invalid game state")
	ErrInvalidShufflingState      = errorsmod.Register(ecmath.Codespace, 101, "invalid shuffling state")
	ErrInvalidDrawingState        = errorsmod.Register(ecmath.Codespace, 102, "invalid drawing state")
	ErrInvalidBettingState        = errorsmod.Register(ecmath.Codespace, 103, "invalid betting state")
	ErrInvalidTexasState          = errorsmod.Register(ecmath.Codespace, 104, "invalid hold'em state")
	ErrInvalidCommunityCardsState = errorsmod.Register(ecmath.Codespace, 105, "invalid community cards state")

	ErrUnauthorized  = errorsmod.Register(ecmath.Codespace, 200, "unauthorized")
	ErrNotYourTurn   = errorsmod.Register(ecmath.Codespace, 201, "not your turn")
	ErrNotAPlayer    = errorsmod.Register(ecmath.Codespace, 202, "not a player in this game")
	ErrAlreadyPlayer = errorsmod.Register(ecmath.Codespace, 203, "already seated in this game")

	ErrGameFull             = errorsmod.Register(ecmath.Codespace, 300, "game is full")
	ErrInsufficientChips    = errorsmod.Register(ecmath.Codespace, 301, "insufficient chips")
	ErrInvalidBetAmount     = errorsmod.Register(ecmath.Codespace, 302, "invalid bet amount")
	ErrAlreadyFolded        = errorsmod.Register(ecmath.Codespace, 303, "player already folded")
	ErrDeckNotSubmitted     = errorsmod.Register(ecmath.Codespace, 304, "deck mapping not submitted")
	ErrCardAlreadyRevealed  = errorsmod.Register(ecmath.Codespace, 305, "card already revealed")
	ErrInvalidCommitment    = errorsmod.Register(ecmath.Codespace, 306, "seed does not match commitment")
	ErrCannotDrawMoreCards  = errorsmod.Register(ecmath.Codespace, 307, "cannot draw more cards")
	ErrInvalidVectorSize    = errorsmod.Register(ecmath.Codespace, 308, "invalid vector size")
	ErrNoCardsLeft          = errorsmod.Register(ecmath.Codespace, 309, "no cards left in deck")
	ErrInvalidCardIndex     = errorsmod.Register(ecmath.Codespace, 310, "invalid card index")
	ErrPlayerAlreadyRevealed = errorsmod.Register(ecmath.Codespace, 311, "player already revealed this card")
	ErrNotCardOwner         = errorsmod.Register(ecmath.Codespace, 312, "not the card owner")
	ErrInvalidSmallBlind    = errorsmod.Register(ecmath.Codespace, 313, "invalid small blind")
	ErrInvalidBigBlind      = errorsmod.Register(ecmath.Codespace, 314, "invalid big blind")
	ErrDeckAlreadySubmitted = errorsmod.Register(ecmath.Codespace, 315, "deck mapping already submitted")
	ErrAlreadyInitialized   = errorsmod.Register(ecmath.Codespace, 316, "game already exists")
	ErrNotCommunityCard     = errorsmod.Register(ecmath.Codespace, 321, "not a community card")

	ErrPotAlreadyClaimed = errorsmod.Register(ecmath.Codespace, 700, "pot already claimed")
	ErrPotNotClaimed     = errorsmod.Register(ecmath.Codespace, 701, "pot not claimed")
	ErrNoWinner          = errorsmod.Register(ecmath.Codespace, 702, "no winner")
	ErrCannotLeaveNow    = errorsmod.Register(ecmath.Codespace, 703, "cannot leave the game now")
	ErrTimeoutNotReached = errorsmod.Register(ecmath.Codespace, 704, "action timeout not reached")
	ErrInvalidGamePhase  = errorsmod.Register(ecmath.Codespace, 705, "invalid game phase")
	ErrGameNotFinished   = errorsmod.Register(ecmath.Codespace, 706, "game not finished")
	ErrInvalidAuthority  = errorsmod.Register(ecmath.Codespace, 707, "invalid authority")

	ErrPart1NotSubmitted     = errorsmod.Register(ecmath.Codespace, 800, "part 1 not submitted")
	ErrPart1AlreadySubmitted = errorsmod.Register(ecmath.Codespace, 801, "part 1 already submitted")
	ErrDecompressionFailed   = errorsmod.Register(ecmath.Codespace, 802, "point decompression failed")
)
