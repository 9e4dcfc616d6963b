package concurrency

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrency(t *testing.T) {

	t.Run("NoError", func(t *testing.T) {

		acc := make([]int, 8)

		resources := make([]bool, 4)

		rm := NewResourceManager(resources)

		for i := range acc {
			rm.Run(func(r bool) (err error) {
				acc[i]++
				return
			})
		}

		require.NoError(t, rm.Wait())

		for i := range acc {
			require.Equal(t, acc[i], 1)
		}
	})

	t.Run("WithError", func(t *testing.T) {
		acc := make([]int, 8)

		resources := make([]bool, 4)

		rm := NewResourceManager(resources)

		for i := range acc {
			rm.Run(func(r bool) (err error) {
				acc[i]++
				if i == 2 {
					return fmt.Errorf("something bad happened")
				}

				return
			})
		}

		require.Error(t, rm.Wait())
	})

	t.Run("ExclusiveResources", func(t *testing.T) {

		resources := []*atomic.Int32{{}, {}}

		rm := NewResourceManager(resources)

		var overlap atomic.Bool
		for i := 0; i < 64; i++ {
			rm.Run(func(r *atomic.Int32) (err error) {
				if r.Add(1) != 1 {
					overlap.Store(true)
				}
				r.Add(-1)
				return
			})
		}

		require.NoError(t, rm.Wait())
		require.False(t, overlap.Load())
	})

	t.Run("Empty", func(t *testing.T) {
		require.Panics(t, func() { NewResourceManager([]int{}) })
	})
}
