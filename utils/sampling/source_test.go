package sampling

import (
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {

	t.Run("Determinism", func(t *testing.T) {
		a := NewSource([32]byte{1})
		b := NewSource([32]byte{1})
		c := NewSource([32]byte{2})

		bufA := make([]byte, 3000)
		bufB := make([]byte, 3000)
		bufC := make([]byte, 3000)
		a.Read(bufA)
		b.Read(bufB)
		c.Read(bufC)
		require.Equal(t, bufA, bufB)
		require.NotEqual(t, bufA, bufC)

		a.Reset()
		require.Equal(t, bufB[:8], func() []byte { x := make([]byte, 8); a.Read(x); return x }())

		require.Equal(t, NewSource([32]byte{3}).NewSource().Uint64(), NewSource([32]byte{3}).NewSource().Uint64())
	})

	t.Run("Uint64N", func(t *testing.T) {
		s := NewSource([32]byte{})
		for _, n := range []uint64{1, 2, 3, 7, 1000, 1<<63 + 1} {
			for i := 0; i < 256; i++ {
				require.Less(t, s.Uint64N(n), n)
			}
		}
		require.Panics(t, func() { s.Uint64N(0) })
	})

	t.Run("Int64Range", func(t *testing.T) {
		s := NewSource([32]byte{})
		for i := 0; i < 1024; i++ {
			x := s.Int64Range(-5, 5)
			require.GreaterOrEqual(t, x, int64(-5))
			require.LessOrEqual(t, x, int64(5))
		}
	})

	t.Run("Float64", func(t *testing.T) {
		s := NewSource([32]byte{})
		values := make([]float64, 1<<14)
		for i := range values {
			values[i] = s.Float64(-1, 1)
			require.GreaterOrEqual(t, values[i], -1.0)
			require.Less(t, values[i], 1.0)
		}
		mean, err := stats.Mean(values)
		require.NoError(t, err)
		require.InDelta(t, 0, mean, 0.05)
	})

	t.Run("NormFloat64", func(t *testing.T) {
		s := NewSource([32]byte{})
		values := make([]float64, 1<<14)
		for i := range values {
			values[i] = s.NormFloat64()
		}
		std, err := stats.StandardDeviation(values)
		require.NoError(t, err)
		require.InDelta(t, 1, std, 0.05)
	})
}
