package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUtils(t *testing.T) {

	t.Run("IsPowerOfTwo", func(t *testing.T) {
		require.True(t, IsPowerOfTwo(1))
		require.True(t, IsPowerOfTwo(uint64(1<<40)))
		require.False(t, IsPowerOfTwo(0))
		require.False(t, IsPowerOfTwo(-4))
		require.False(t, IsPowerOfTwo(12))
	})

	t.Run("Division", func(t *testing.T) {
		require.Equal(t, 3, DivCeil(7, 3))
		require.Equal(t, 2, DivCeil(6, 3))
		require.Equal(t, -3, DivFloor(-7, 3))
		require.Equal(t, -2, DivFloor(-6, 3))
		require.Equal(t, 2, DivFloor(7, 3))
		require.Equal(t, 64, AlignUp(33, 32))
	})

	t.Run("BitReverse", func(t *testing.T) {
		require.Equal(t, uint64(4), BitReverse64(uint64(1), 3))
		require.Equal(t, 6, BitReverse64(3, 3))
		require.Equal(t, 0, BitReverse64(0, 0))
		require.Equal(t, 7, BitReverse64(7, 3))
	})

	t.Run("Views", func(t *testing.T) {
		x := []uint64{0xffffffffffffffff, 2}
		y := Int64s(x)
		require.Equal(t, int64(-1), y[0])
		y[1] = -2
		require.Equal(t, uint64(0xfffffffffffffffe), x[1])
		require.True(t, SameStart(x, Uint64s(y)))
		require.False(t, SameStart(x[1:], x))
		require.Nil(t, Float64s(nil))
	})
}
