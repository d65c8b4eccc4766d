package ledger

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Bank is an in-memory Ledger. Escrow vaults are ordinary accounts under a
// reserved prefix, so total supply is conserved by construction.
type Bank struct {
	mu       sync.Mutex
	balances map[string]math.Int
}

var _ Ledger = (*Bank)(nil)

const escrowPrefix = "escrow/"

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[string]math.Int)}
}

// Mint credits addr, creating the account if needed. Test and demo setup
// only; gameplay moves value, never creates it.
func (b *Bank) Mint(addr string, amount math.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr] = b.balanceLocked(addr).Add(amount)
}

func (b *Bank) balanceLocked(addr string) math.Int {
	if v, ok := b.balances[addr]; ok {
		return v
	}
	return math.ZeroInt()
}

func (b *Bank) transfer(from, to string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidAmount, "%s", amount)
	}
	if amount.IsZero() {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	have := b.balanceLocked(from)
	if have.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientFunds, "%s has %s, needs %s", from, have, amount)
	}
	b.balances[from] = have.Sub(amount)
	b.balances[to] = b.balanceLocked(to).Add(amount)
	return nil
}

func (b *Bank) ToEscrow(gameID, addr string, amount math.Int) error {
	return b.transfer(addr, escrowPrefix+gameID, amount)
}

func (b *Bank) FromEscrow(gameID, addr string, amount math.Int) error {
	return b.transfer(escrowPrefix+gameID, addr, amount)
}

func (b *Bank) Balance(addr string) math.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceLocked(addr)
}

func (b *Bank) EscrowBalance(gameID string) math.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceLocked(escrowPrefix + gameID)
}
