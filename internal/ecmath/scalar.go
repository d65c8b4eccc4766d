// Package ecmath implements the group arithmetic underneath the mental poker
// protocol: alt_bn128 (bn254) G1 point operations, 256-bit modular arithmetic
// over the prime group order, point compression with the sign of y folded into
// the high bit of x, and keccak256 commitments.
package ecmath

import (
	"encoding/hex"

	"github.com/cronokirby/saferith"
)

const ScalarSize = 32

// Scalar is a 256-bit unsigned integer in big-endian form, canonically
// reduced modulo the bn254 group order.
type Scalar [ScalarSize]byte

var (
	// n, the (prime) order of the bn254 G1 group.
	orderBytes = mustHex("30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001")
	// n-2, the Fermat inversion exponent. Kept as an explicit constant so the
	// inversion loop below walks exactly these bits.
	orderMinus2 = mustHex("30644e72e131a029b85045b68181585d2833e84879b9709143e1f593efffffff")

	order = saferith.ModulusFromNat(new(saferith.Nat).SetBytes(orderBytes))
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("ecmath: bad hex constant: " + err.Error())
	}
	return b
}

// NewScalar interprets b as a big-endian integer and reduces it modulo the
// group order.
func NewScalar(b []byte) (Scalar, error) {
	if len(b) != ScalarSize {
		return Scalar{}, ErrInvalidScalar.Wrapf("expected %d bytes, got %d", ScalarSize, len(b))
	}
	n := new(saferith.Nat).SetBytes(b)
	n.Mod(n, order)
	return scalarFromNat(n), nil
}

// ScalarFromUint64 lifts a small integer into the scalar field.
func ScalarFromUint64(x uint64) Scalar {
	var s Scalar
	for i := 0; i < 8; i++ {
		s[ScalarSize-1-i] = byte(x >> (8 * i))
	}
	return s
}

func (s Scalar) IsZero() bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}
	return true
}

func (s Scalar) Equal(t Scalar) bool {
	return s == t
}

func (s Scalar) Bytes() []byte {
	out := make([]byte, ScalarSize)
	copy(out, s[:])
	return out
}

func natFromScalar(s Scalar) *saferith.Nat {
	return new(saferith.Nat).SetBytes(s[:])
}

func scalarFromNat(n *saferith.Nat) Scalar {
	var s Scalar
	n.FillBytes(s[:])
	return s
}

// ModAdd returns (a + b) mod n.
func ModAdd(a, b Scalar) Scalar {
	out := new(saferith.Nat).ModAdd(natFromScalar(a), natFromScalar(b), order)
	return scalarFromNat(out)
}

// ModSub returns (a - b) mod n.
func ModSub(a, b Scalar) Scalar {
	out := new(saferith.Nat).ModSub(natFromScalar(a), natFromScalar(b), order)
	return scalarFromNat(out)
}

// ModMul returns (a * b) mod n.
func ModMul(a, b Scalar) Scalar {
	out := new(saferith.Nat).ModMul(natFromScalar(a), natFromScalar(b), order)
	return scalarFromNat(out)
}

// Cmp compares a and b as integers: -1 if a < b, 0 if equal, 1 if a > b.
func Cmp(a, b Scalar) int {
	gt, eq, _ := natFromScalar(a).Cmp(natFromScalar(b))
	switch {
	case eq == 1:
		return 0
	case gt == 1:
		return 1
	default:
		return -1
	}
}

// ModInverse returns a^-1 mod n via Fermat's little theorem (a^(n-2) mod n,
// valid because n is prime), using square-and-multiply over the bits of n-2
// from least to most significant. The second return is false for a == 0,
// which has no inverse; callers must treat that as a hard failure.
func ModInverse(a Scalar) (Scalar, bool) {
	if a.IsZero() {
		return Scalar{}, false
	}

	result := new(saferith.Nat).SetUint64(1)
	base := natFromScalar(a)
	base.Mod(base, order)

	for i := len(orderMinus2) - 1; i >= 0; i-- {
		for j := 0; j < 8; j++ {
			if (orderMinus2[i]>>j)&1 == 1 {
				result.ModMul(result, base, order)
			}
			base.ModMul(base, base, order)
		}
	}

	return scalarFromNat(result), true
}

// Add256 returns a + b as plain 256-bit integers with wraparound, the
// accumulation primitive for seed-derived randomness.
func Add256(a, b [32]byte) [32]byte {
	out := new(saferith.Nat).Add(
		new(saferith.Nat).SetBytes(a[:]),
		new(saferith.Nat).SetBytes(b[:]),
		256,
	)
	var sum [32]byte
	out.FillBytes(sum[:])
	return sum
}
