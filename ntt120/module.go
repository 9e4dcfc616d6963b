package ntt120

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/ring"
)

// Name is the name of the backend.
const Name = "ntt120"

// Options are the construction options of a [Module].
type Options struct {
	// Kernels is the raw-limb and transform kernel set, [ring.KernelsRef] if nil.
	Kernels ring.Kernels
	// Logger receives the lifecycle events, disabled if nil.
	Logger *zerolog.Logger
}

// Module is the exact backend. It implements [hal.Module].
type Module struct {
	hal.Base
	table  *Table
	ntt    kernels
	state  hal.State
	logger zerolog.Logger
}

var _ hal.Module = (*Module)(nil)

// NewModule builds the tables of the ring degree N, checks them and returns
// a [Module] in the [hal.Ready] state.
func NewModule(N int, opts Options) (m *Module, err error) {

	if N < 2 || N&(N-1) != 0 || N > 1<<MaxLogN {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be a power of two in [2, 2^%d]", N, MaxLogN)
	}

	k := opts.Kernels
	if k == nil {
		k = ring.KernelsRef{}
	}

	ntt, err := newKernels(k.Name())
	if err != nil {
		return nil, err
	}

	m = &Module{
		Base:   hal.NewBase(N, k),
		ntt:    ntt,
		logger: zerolog.Nop(),
	}

	if opts.Logger != nil {
		m.logger = *opts.Logger
	}

	if m.table, err = NewTable(N); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}

	m.state = hal.TableBuilt
	m.logger.Debug().Str("backend", Name).Int("N", N).Str("kernels", k.Name()).Msg("tables built")

	if err = m.selfCheck(); err != nil {
		return nil, fmt.Errorf("self-check: %w", err)
	}

	m.state = hal.Ready
	m.logger.Debug().Str("backend", Name).Int("N", N).Msg("ready")

	return
}

// selfCheck checks that psi^N = -1 for every prime and that X * X^{N-1} = -1.
func (m *Module) selfCheck() (err error) {

	t := m.table
	N := m.N()

	for p, q := range t.Q {
		if ring.ModExp(t.Psi[p], uint64(N), q) != q-1 {
			return fmt.Errorf("psi^N != -1 mod %d", q)
		}
	}

	a := make([]uint64, 4*N)
	b := make([]uint64, 4*N)

	// a = X, b = X^{N-1}
	for p := range 4 {
		a[4+p] = 1
		b[4*(N-1)+p] = 1
	}

	m.ntt.Forward(t, a)
	m.ntt.Forward(t, b)
	m.ntt.Mul(t, a, b, a)
	m.ntt.Inverse(t, a)

	for i := range N {
		lo, hi := t.Reconstruct([4]uint64(a[4*i : 4*i+4]))
		want := [2]uint64{}
		if i == 0 {
			want = [2]uint64{^uint64(0), ^uint64(0)}
		}
		if lo != want[0] || hi != want[1] {
			return fmt.Errorf("X * X^(N-1): coefficient %d = [%#x, %#x] != [%#x, %#x]", i, lo, hi, want[0], want[1])
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
	return 2
}

// DftWords returns the number of 64-bit words per coefficient of a [hal.VecZnxDft].
func (m *Module) DftWords() int {
	return 4
}

// Table returns the tables of the module.
func (m *Module) Table() *Table {
	return m.table
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
