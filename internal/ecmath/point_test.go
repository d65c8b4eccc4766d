package ecmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T, i int) Point {
	t.Helper()
	p, err := ScalarBaseMult(testScalar(t, 'p', i))
	require.NoError(t, err)
	require.False(t, p.IsIdentity())
	return p
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		p := testPoint(t, i)
		c, err := Compress(p)
		require.NoError(t, err)
		got, err := Decompress(c)
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}

func TestCompressIdentityRejected(t *testing.T) {
	_, err := Compress(Point{})
	require.ErrorIs(t, err, ErrInvalidPoint)

	_, err = Decompress([CompressedPointSize]byte{})
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestDecompressInvalidX(t *testing.T) {
	// x = p is out of range.
	var c [CompressedPointSize]byte
	copy(c[:], fieldBytes)
	_, err := Decompress(c)
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestGeneratorMatchesCurve(t *testing.T) {
	// alt_bn128's G1 generator is (1, 2), and the stored group order
	// annihilates it.
	one := ScalarFromUint64(1)
	g, err := ScalarBaseMult(one)
	require.NoError(t, err)

	var want Point
	want[31] = 1
	want[63] = 2
	require.Equal(t, want, g)

	nMinus1 := ModSub(Scalar{}, one)
	negG, err := ScalarMult(nMinus1, g)
	require.NoError(t, err)
	sum, err := PointAdd(g, negG)
	require.NoError(t, err)
	require.True(t, sum.IsIdentity())
}

func TestScalarMultCommutes(t *testing.T) {
	// The commutativity the shuffle protocol relies on:
	// k1*(k2*P) == k2*(k1*P).
	p := testPoint(t, 0)
	k1 := testScalar(t, 'k', 1)
	k2 := testScalar(t, 'k', 2)

	a, err := ScalarMult(k2, p)
	require.NoError(t, err)
	a, err = ScalarMult(k1, a)
	require.NoError(t, err)

	b, err := ScalarMult(k1, p)
	require.NoError(t, err)
	b, err = ScalarMult(k2, b)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestScalarMultInverseUndoes(t *testing.T) {
	// Encrypt with k, decrypt with k^-1: the reveal path.
	p := testPoint(t, 3)
	k := testScalar(t, 'k', 3)
	inv, ok := ModInverse(k)
	require.True(t, ok)

	enc, err := ScalarMult(k, p)
	require.NoError(t, err)
	dec, err := ScalarMult(inv, enc)
	require.NoError(t, err)
	require.Equal(t, p, dec)
}

func TestPointAddIdentity(t *testing.T) {
	p := testPoint(t, 4)
	got, err := PointAdd(p, Point{})
	require.NoError(t, err)
	require.Equal(t, p, got)

	got, err = PointAdd(Point{}, p)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestNewPointRejectsGarbage(t *testing.T) {
	var junk [PointSize]byte
	junk[0] = 1
	junk[63] = 7
	_, err := NewPoint(junk[:])
	require.ErrorIs(t, err, ErrInvalidPoint)

	_, err = NewPoint([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestCommitment(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], []byte("0123456789abcdef0123456789abcdef"))

	c := ComputeCommitment(seed)
	require.True(t, VerifyCommitment(c, seed))

	seed[0] ^= 1
	require.False(t, VerifyCommitment(c, seed))
}

func TestDeriveValueDistinct(t *testing.T) {
	var seed [SeedSize]byte
	seed[31] = 9
	seen := make(map[[32]byte]bool)
	for k := 0; k < 52; k++ {
		v := DeriveValue(seed, uint8(k))
		require.False(t, seen[v])
		seen[v] = true
	}
}
