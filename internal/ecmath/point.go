package ecmath

import (
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/cronokirby/saferith"
)

const (
	// PointSize is the uncompressed affine encoding: x || y, big-endian.
	PointSize = 64
	// CompressedPointSize is the x coordinate with the sign of y folded into
	// the high bit of the first byte. The bn254 base field prime is 254 bits,
	// so the top bit of a canonical big-endian x is always clear and free to
	// carry the sign.
	CompressedPointSize = 32
)

// signBit marks the lexicographically larger square root in compressed form.
const signBit = 0x80

// Point is an affine bn254 G1 point, x || y big-endian. The all-zero value
// is the group identity and never encodes a card.
type Point [PointSize]byte

var (
	g1Gen = func() bn254.G1Affine {
		_, _, g, _ := bn254.Generators()
		return g
	}()

	// p, the bn254 base field prime, and (p+1)/4, the square root exponent
	// (valid because p = 3 mod 4).
	fieldBytes = mustHex("30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd47")
	sqrtExp    = new(saferith.Nat).SetBytes(mustHex("0c19139cb84c680a6e14116da060561765e05aa45a1c72a34f082305b61f3f52"))

	field    = saferith.ModulusFromNat(new(saferith.Nat).SetBytes(fieldBytes))
	fieldNat = new(saferith.Nat).SetBytes(fieldBytes)
	curveB   = new(saferith.Nat).SetUint64(3)
)

// NewPoint validates that b encodes a point on the curve (or the identity)
// and returns it.
func NewPoint(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, ErrInvalidPoint.Wrapf("expected %d bytes, got %d", PointSize, len(b))
	}
	var p Point
	copy(p[:], b)
	if p.IsIdentity() {
		return p, nil
	}
	if _, err := p.affine(); err != nil {
		return Point{}, err
	}
	return p, nil
}

func (p Point) IsIdentity() bool {
	return p == Point{}
}

func (p Point) X() [32]byte {
	var x [32]byte
	copy(x[:], p[:32])
	return x
}

func (p Point) Y() [32]byte {
	var y [32]byte
	copy(y[:], p[32:])
	return y
}

func (p Point) Bytes() []byte {
	out := make([]byte, PointSize)
	copy(out, p[:])
	return out
}

func (p Point) Equal(q Point) bool {
	return p == q
}

func (p Point) affine() (bn254.G1Affine, error) {
	var a bn254.G1Affine
	if err := a.X.SetBytesCanonical(p[:32]); err != nil {
		return a, ErrInvalidPoint.Wrapf("x coordinate: %v", err)
	}
	if err := a.Y.SetBytesCanonical(p[32:]); err != nil {
		return a, ErrInvalidPoint.Wrapf("y coordinate: %v", err)
	}
	if !a.IsOnCurve() {
		return a, ErrInvalidPoint.Wrap("not on curve")
	}
	return a, nil
}

func fromAffine(a *bn254.G1Affine) Point {
	var p Point
	x := a.X.Bytes()
	y := a.Y.Bytes()
	copy(p[:32], x[:])
	copy(p[32:], y[:])
	return p
}

// PointAdd returns a + b on the curve. The identity is handled here rather
// than passed down to the group backend.
func PointAdd(a, b Point) (Point, error) {
	if a.IsIdentity() {
		return NewPoint(b[:])
	}
	if b.IsIdentity() {
		return NewPoint(a[:])
	}
	pa, err := a.affine()
	if err != nil {
		return Point{}, err
	}
	pb, err := b.affine()
	if err != nil {
		return Point{}, err
	}
	var sum bn254.G1Affine
	sum.Add(&pa, &pb)
	return fromAffine(&sum), nil
}

// ScalarMult returns k * p.
func ScalarMult(k Scalar, p Point) (Point, error) {
	if p.IsIdentity() {
		return Point{}, nil
	}
	pa, err := p.affine()
	if err != nil {
		return Point{}, err
	}
	var out bn254.G1Affine
	out.ScalarMultiplication(&pa, new(big.Int).SetBytes(k[:]))
	return fromAffine(&out), nil
}

// ScalarBaseMult returns k * G for the standard generator.
func ScalarBaseMult(k Scalar) (Point, error) {
	var out bn254.G1Affine
	out.ScalarMultiplication(&g1Gen, new(big.Int).SetBytes(k[:]))
	return fromAffine(&out), nil
}

// Compress folds p into 32 bytes: x with the sign of y in the high bit.
// The identity has no compressed form and is rejected, so a compressed value
// can never alias a real card to the all-zero encoding.
func Compress(p Point) ([CompressedPointSize]byte, error) {
	var out [CompressedPointSize]byte
	if p.IsIdentity() {
		return out, ErrInvalidPoint.Wrap("cannot compress the identity")
	}
	if _, err := p.affine(); err != nil {
		return out, err
	}
	copy(out[:], p[:32])
	if out[0]&signBit != 0 {
		return out, ErrECOperationFailed.Wrap("x coordinate out of field range")
	}
	y := new(saferith.Nat).SetBytes(p[32:])
	yNeg := new(saferith.Nat).ModNeg(y, field)
	if gt, _, _ := y.Cmp(yNeg); gt == 1 {
		out[0] |= signBit
	}
	return out, nil
}

// Decompress recovers the affine point from its 32-byte form by solving
// y^2 = x^3 + 3 over the base field. Fails with ErrInvalidPoint when x has
// no square root on the curve or encodes the identity.
func Decompress(c [CompressedPointSize]byte) (Point, error) {
	sign := c[0]&signBit != 0
	var xb [32]byte
	copy(xb[:], c[:])
	xb[0] &^= signBit

	x := new(saferith.Nat).SetBytes(xb[:])
	if _, _, lt := x.Cmp(fieldNat); lt != 1 {
		return Point{}, ErrInvalidPoint.Wrap("x coordinate out of field range")
	}
	if xb == ([32]byte{}) {
		return Point{}, ErrInvalidPoint.Wrap("cannot decompress the identity")
	}

	// rhs = x^3 + 3
	rhs := new(saferith.Nat).ModMul(x, x, field)
	rhs.ModMul(rhs, x, field)
	rhs.ModAdd(rhs, curveB, field)

	y := new(saferith.Nat).Exp(rhs, sqrtExp, field)
	check := new(saferith.Nat).ModMul(y, y, field)
	if eq := check.Eq(rhs); eq != 1 {
		return Point{}, ErrInvalidPoint.Wrap("x has no point on the curve")
	}

	yNeg := new(saferith.Nat).ModNeg(y, field)
	gt, _, _ := y.Cmp(yNeg)
	if sign != (gt == 1) {
		y = yNeg
	}

	var p Point
	copy(p[:32], xb[:])
	y.FillBytes(p[32:])
	if _, err := p.affine(); err != nil {
		return Point{}, err
	}
	return p, nil
}
