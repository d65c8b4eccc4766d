// Package ledger abstracts value transfer for the poker engine. The engine
// never touches balances directly: buy-ins move into a per-game escrow and
// payouts, refunds and penalties move back out through this interface.
package ledger

import (
	"cosmossdk.io/math"
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/ecmath"
)

// Ledger errors (900-999) in the shared "poker" codespace.
var (
	ErrInsufficientFunds = errorsmod.Register(ecmath.Codespace, 900, "insufficient funds")
	ErrInvalidAmount     = errorsmod.Register(ecmath.Codespace, 901, "invalid amount")
	ErrUnknownAccount    = errorsmod.Register(ecmath.Codespace, 902, "unknown account")
)

// Ledger moves value between player accounts and per-game escrow vaults.
// Implementations must be atomic per call: a failed transfer leaves both
// sides untouched.
type Ledger interface {
	// ToEscrow moves amount from addr's account into the game's vault.
	ToEscrow(gameID, addr string, amount math.Int) error
	// FromEscrow moves amount from the game's vault to addr's account.
	FromEscrow(gameID, addr string, amount math.Int) error
	// Balance returns addr's free balance.
	Balance(addr string) math.Int
	// EscrowBalance returns the game vault's balance.
	EscrowBalance(gameID string) math.Int
}
