package backend

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Pro7ech/poulpy/fft64"
	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/ntt120"
	"github.com/Pro7ech/poulpy/utils"
	"github.com/Pro7ech/poulpy/utils/concurrency"
)

// New builds the backend of ring degree n described by cfg.
// Configuration mistakes are reported as errors wrapping the sentinels of this package.
func New(n int, cfg Config) (m hal.Module, err error) {

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	if n < 2 || !utils.IsPowerOfTwo(n) || (cfg.Kind == NTT120 && n > 1<<ntt120.MaxLogN) {
		return nil, fmt.Errorf("%w: N=%d", ErrInvalidDegree, n)
	}

	kernels, err := cfg.kernels()
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	switch cfg.Kind {
	case FFT64:
		m, err = fft64.NewModule(n, fft64.Options{Kernels: kernels, Tolerance: cfg.FFTTolerance, Logger: &logger})
	case NTT120:
		m, err = ntt120.NewModule(n, ntt120.Options{Kernels: kernels, Logger: &logger})
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Kind, err)
	}

	logger.Info().Str("backend", m.Name()).Int("N", n).Str("kernels", kernels.Name()).Msg("backend selected")

	return
}

// NewScratchPool returns a resource manager handing one arena of the given
// size in bytes to each of at most workers concurrent tasks.
func NewScratchPool(workers, bytes int) *concurrency.ResourceManager[*hal.Scratch] {
	if workers < 1 {
		panic(fmt.Errorf("invalid workers: %d < 1", workers))
	}
	arenas := make([]*hal.Scratch, workers)
	for i := range arenas {
		arenas[i] = hal.NewScratch(bytes)
	}
	return concurrency.NewResourceManager(arenas)
}
