package fft64

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/ring"
)

// Name is the name of the backend.
const Name = "fft64"

// DefaultTolerance is the default maximum deviation from the nearest integer
// accepted by the self-check of the tables.
const DefaultTolerance = 1.0 / (1 << 20)

// Options are the construction options of a [Module].
type Options struct {
	// Kernels is the raw-limb and transform kernel set, [ring.KernelsRef] if nil.
	Kernels ring.Kernels
	// Tolerance is the maximum deviation from the nearest integer accepted
	// by the self-check, [DefaultTolerance] if zero.
	Tolerance float64
	// Logger receives the lifecycle events, disabled if nil.
	Logger *zerolog.Logger
}

// Module is the floating-point backend. It implements [hal.Module].
type Module struct {
	hal.Base
	table     *Table
	fft       kernels
	tolerance float64
	state     hal.State
	logger    zerolog.Logger
}

var _ hal.Module = (*Module)(nil)

// NewModule builds the tables of the ring degree N, checks them and returns
// a [Module] in the [hal.Ready] state.
func NewModule(N int, opts Options) (m *Module, err error) {

	if N < 2 || N&(N-1) != 0 {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be a power of two greater than one", N)
	}

	k := opts.Kernels
	if k == nil {
		k = ring.KernelsRef{}
	}

	fft, err := newKernels(k.Name())
	if err != nil {
		return nil, err
	}

	m = &Module{
		Base:      hal.NewBase(N, k),
		fft:       fft,
		tolerance: opts.Tolerance,
		logger:    zerolog.Nop(),
	}

	if m.tolerance == 0 {
		m.tolerance = DefaultTolerance
	}

	if opts.Logger != nil {
		m.logger = *opts.Logger
	}

	m.table = NewTable(N)
	m.state = hal.TableBuilt
	m.logger.Debug().Str("backend", Name).Int("N", N).Str("kernels", k.Name()).Msg("tables built")

	if err = m.selfCheck(); err != nil {
		return nil, fmt.Errorf("self-check: %w", err)
	}

	m.state = hal.Ready
	m.logger.Debug().Str("backend", Name).Int("N", N).Float64("tolerance", m.tolerance).Msg("ready")

	return
}

// selfCheck checks that zeta^{N/2} = i and that X * X^{N-1} = -1 within the tolerance.
func (m *Module) selfCheck() (err error) {

	t := m.table

	if t.M >= 2 {
		re, im := cmul(t.twistRe[t.M>>1], t.twistIm[t.M>>1], t.twistRe[t.M>>1], t.twistIm[t.M>>1])
		if math.Abs(re) > m.tolerance || math.Abs(im-1) > m.tolerance {
			return fmt.Errorf("zeta^(N/2) = %v + i*%v != i", re, im)
		}
	}

	N := m.N()

	a := make([]float64, N)
	b := make([]float64, N)

	// a = X, b = X^{N-1}
	a[1] = 1
	b[N-1] = 1

	m.fft.Forward(t, a[:t.M], a[t.M:])
	m.fft.Forward(t, b[:t.M], b[t.M:])
	m.fft.Mul(a[:t.M], a[t.M:], b[:t.M], b[t.M:], a[:t.M], a[t.M:])
	m.fft.Inverse(t, a[:t.M], a[t.M:])

	for i, x := range a {
		want := 0.0
		if i == 0 {
			want = -1
		}
		if math.Abs(x-want) > m.tolerance {
			return fmt.Errorf("X * X^(N-1): coefficient %d = %v != %v", i, x, want)
		}
	}

	return nil
}

// Name returns the name of the backend.
func (m *Module) Name() string {
	return Name
}

// BigWords returns the number of 64-bit words per coefficient of a [hal.VecZnxBig].
func (m *Module) BigWords() int {
	return 1
}

// DftWords returns the number of 64-bit words per coefficient of a [hal.VecZnxDft].
func (m *Module) DftWords() int {
	return 1
}

// Tolerance returns the maximum rounding deviation accepted by the self-check.
func (m *Module) Tolerance() float64 {
	return m.tolerance
}

// State returns the lifecycle state of the module.
func (m *Module) State() hal.State {
	return m.state
}

// Close releases the tables.
func (m *Module) Close() {
	m.table = nil
	m.state = hal.Uninitialized
	m.logger.Debug().Str("backend", Name).Int("N", m.N()).Msg("closed")
}

// SetLogger sets the logger of the module.
func (m *Module) SetLogger(logger zerolog.Logger) {
	m.logger = logger
}

func (m *Module) checkReady() {
	if m.state != hal.Ready {
		panic(fmt.Errorf("invalid module state: %s != %s", m.state, hal.Ready))
	}
}
