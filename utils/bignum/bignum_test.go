package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBignum(t *testing.T) {

	t.Run("Int128", func(t *testing.T) {
		require.Equal(t, 0, Int128(5, 0).Cmp(NewInt(5)))
		require.Equal(t, 0, Int128(^uint64(0), ^uint64(0)).Cmp(NewInt(-1)))

		want := new(big.Int).Lsh(NewInt(1), 64)
		require.Equal(t, 0, Int128(0, 1).Cmp(want))
	})

	t.Run("Log2", func(t *testing.T) {
		x, _ := Log2(NewFloat(1024, 128)).Float64()
		require.InDelta(t, 10, x, 1e-12)

		x, _ = Log2(NewFloat(0.125, 128)).Float64()
		require.InDelta(t, -3, x, 1e-12)

		require.True(t, Log2(NewFloat(0, 128)).IsInf())
	})

	t.Run("Stats", func(t *testing.T) {
		values := []*big.Float{NewFloat(-2, 64), NewFloat(2, 64), NewFloat(-2, 64), NewFloat(2, 64)}
		stats := Stats(values, 64)
		// sample std = sqrt(16/3)
		require.InDelta(t, math.Log2(math.Sqrt(16.0/3)), stats[0], 1e-9)
		require.InDelta(t, 0, stats[1], 1e-12)

		require.Panics(t, func() { Stats(values[:1], 64) })
	})
}
