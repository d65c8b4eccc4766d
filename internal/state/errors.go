package state

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/vitorpy/solana-poker/internal/ecmath"
)

// Storage and record errors (600-699) in the shared "poker" codespace.
var (
	ErrRecordNotFound = errorsmod.Register(ecmath.Codespace, 600, "record not found")
	ErrCorruptRecord  = errorsmod.Register(ecmath.Codespace, 601, "corrupt record")
	ErrInvalidConfig  = errorsmod.Register(ecmath.Codespace, 602, "invalid game configuration")
	ErrStoreFailure   = errorsmod.Register(ecmath.Codespace, 603, "store failure")
)
