package state

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/fxamacker/cbor/v2"
)

// Records cross the store boundary as deterministic CBOR: integer keys,
// canonical map ordering, no floats. Two encodes of the same record are
// byte-identical, which the state fingerprint relies on.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		Time:          cbor.TimeUnix,
		ShortestFloat: cbor.ShortestFloat16,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes a record for storage.
func Marshal(v any) ([]byte, error) {
	b, err := encMode.Marshal(v)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrStoreFailure, "encode: %v", err)
	}
	return b, nil
}

// Unmarshal decodes a stored record.
func Unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return errorsmod.Wrapf(ErrCorruptRecord, "decode: %v", err)
	}
	return nil
}
