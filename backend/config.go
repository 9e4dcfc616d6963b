// Package backend selects and builds a [hal.Module] from a [Config], and
// provides the per-task scratch arenas used to share a module across goroutines.
package backend

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/cpu"

	"github.com/Pro7ech/poulpy/fft64"
	"github.com/Pro7ech/poulpy/ring"
)

// Kind is the transform realization of a backend.
type Kind string

const (
	// FFT64 is the floating-point backend of package fft64.
	FFT64 Kind = fft64.Name
	// NTT120 is the exact backend of package ntt120.
	NTT120 Kind = "ntt120"
)

// KernelSet selects the raw-limb and transform kernels.
type KernelSet string

const (
	// KernelsRef selects the scalar reference kernels.
	KernelsRef KernelSet = ring.KernelsNameRef
	// KernelsUnrolled selects the unrolled kernels.
	KernelsUnrolled KernelSet = ring.KernelsNameUnrolled
	// KernelsAuto selects the unrolled kernels if the CPU has wide vector
	// units and the reference kernels otherwise.
	KernelsAuto KernelSet = "auto"
)

var (
	// ErrInvalidDegree is returned for a ring degree that is not a supported power of two.
	ErrInvalidDegree = errors.New("invalid ring degree")
	// ErrUnknownBackend is returned for an unknown [Kind].
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrUnknownKernels is returned for an unknown [KernelSet].
	ErrUnknownKernels = errors.New("unknown kernels")
	// ErrInvalidTolerance is returned for a negative or non-finite FFT tolerance.
	ErrInvalidTolerance = errors.New("invalid tolerance")
)

// Config is the configuration of a backend.
type Config struct {
	Kind    Kind
	Kernels KernelSet
	// FFTTolerance is the self-check tolerance of the FFT64 backend, its default if zero.
	FFTTolerance float64
	// Logger receives the backend selection and lifecycle events, disabled if nil.
	Logger *zerolog.Logger
}

// DefaultConfig returns the FFT64 backend with automatic kernel selection.
func DefaultConfig() Config {
	return Config{
		Kind:         FFT64,
		Kernels:      KernelsAuto,
		FFTTolerance: fft64.DefaultTolerance,
	}
}

// Validate checks the configuration.
func (c Config) Validate() (err error) {
	switch c.Kind {
	case FFT64, NTT120:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Kind)
	}
	if _, err = c.kernels(); err != nil {
		return
	}
	if c.FFTTolerance < 0 || math.IsNaN(c.FFTTolerance) || math.IsInf(c.FFTTolerance, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, c.FFTTolerance)
	}
	return nil
}

// kernels resolves the kernel set.
func (c Config) kernels() (ring.Kernels, error) {
	set := c.Kernels
	if set == "" || set == KernelsAuto {
		set = detectKernels()
	}
	k, err := ring.NewKernels(string(set))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernels, c.Kernels)
	}
	return k, nil
}

// detectKernels returns the kernels picked by [KernelsAuto] on the running CPU.
func detectKernels() KernelSet {
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasAVX2 {
			return KernelsUnrolled
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return KernelsUnrolled
		}
	}
	return KernelsRef
}

// String returns a compact description of the configuration.
func (c Config) String() string {
	var sb strings.Builder
	sb.WriteString("kind=")
	sb.WriteString(string(c.Kind))
	sb.WriteString(" kernels=")
	sb.WriteString(string(c.Kernels))
	if c.Kind == FFT64 {
		sb.WriteString(" tolerance=")
		sb.WriteString(strconv.FormatFloat(c.FFTTolerance, 'g', -1, 64))
	}
	return sb.String()
}
