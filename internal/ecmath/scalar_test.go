package ecmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testScalar(t *testing.T, tag byte, i int) Scalar {
	t.Helper()
	h := Keccak256([]byte{tag, byte(i), byte(i >> 8)})
	s, err := NewScalar(h[:])
	require.NoError(t, err)
	require.False(t, s.IsZero())
	return s
}

func TestModInverseRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		a := testScalar(t, 'i', i)
		inv, ok := ModInverse(a)
		require.True(t, ok)
		require.Equal(t, ScalarFromUint64(1), ModMul(a, inv), "a * a^-1 != 1")
	}
}

func TestModInverseOfZero(t *testing.T) {
	_, ok := ModInverse(Scalar{})
	require.False(t, ok)
}

func TestModInverseSmallValues(t *testing.T) {
	for _, x := range []uint64{1, 2, 3, 7, 52, 1 << 32} {
		a := ScalarFromUint64(x)
		inv, ok := ModInverse(a)
		require.True(t, ok)
		require.Equal(t, ScalarFromUint64(1), ModMul(a, inv))
	}
}

func TestModArithmetic(t *testing.T) {
	a := testScalar(t, 'a', 0)
	b := testScalar(t, 'b', 0)

	require.Equal(t, Scalar{}, ModSub(a, a))
	require.Equal(t, a, ModAdd(ModSub(a, b), b))
	require.Equal(t, ModMul(a, b), ModMul(b, a))
	require.Equal(t, 0, Cmp(a, a))
	require.Equal(t, -Cmp(a, b), Cmp(b, a))
}

func TestNewScalarReduces(t *testing.T) {
	// The order itself must reduce to zero.
	s, err := NewScalar(orderBytes)
	require.NoError(t, err)
	require.True(t, s.IsZero())

	_, err = NewScalar([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestAdd256Wraps(t *testing.T) {
	var allOnes [32]byte
	for i := range allOnes {
		allOnes[i] = 0xff
	}
	one := [32]byte{31: 1}
	require.Equal(t, [32]byte{}, Add256(allOnes, one))

	a := [32]byte{31: 200}
	b := [32]byte{31: 100}
	require.Equal(t, [32]byte{30: 1, 31: 44}, Add256(a, b))
}
