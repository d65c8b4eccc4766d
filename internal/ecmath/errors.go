package ecmath

import errorsmod "cosmossdk.io/errors"

// Crypto errors (400-499) in the shared "poker" codespace.
var (
	ErrInvalidPoint      = errorsmod.Register(Codespace, 400, "invalid curve point")
	ErrInvalidScalar     = errorsmod.Register(Codespace, 401, "invalid scalar")
	ErrECOperationFailed = errorsmod.Register(Codespace, 402, "elliptic curve operation failed")
)

// Codespace is shared with the game engine so error codes form a single
// numbered taxonomy.
const Codespace = "poker"
