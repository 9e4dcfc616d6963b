package ntt120

import (
	"fmt"
	"math/big"
	"math/bits"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/ring"
	"github.com/Pro7ech/poulpy/utils/bignum"
	"github.com/Pro7ech/poulpy/utils/sampling"
)

func testString(opname string, k ring.Kernels, n int) string {
	return fmt.Sprintf("%s/kernels=%s/N=%d", opname, k.Name(), n)
}

var testKernels = []ring.Kernels{ring.KernelsRef{}, ring.KernelsUnrolled{}}

func newTestSource() *sampling.Source {
	return sampling.NewSource([32]byte{'n', 't', 't', '1', '2', '0'})
}

func newTestModule(t *testing.T, n int, k ring.Kernels) *Module {
	m, err := NewModule(n, Options{Kernels: k})
	require.NoError(t, err)
	return m
}

func fillRaw(source *sampling.Source, a *hal.VecZnx, col, logBound int) {
	for l := range a.Size {
		for i, x := 0, a.At(col, l); i < len(x); i++ {
			x[i] = source.Int64Range(-1<<logBound, 1<<logBound)
		}
	}
}

// negacyclicMul returns a * b mod X^N+1 as big integers.
func negacyclicMul(a, b []int64) []*big.Int {
	n := len(a)
	res := make([]*big.Int, n)
	for i := range res {
		res[i] = new(big.Int)
	}
	tmp := new(big.Int)
	for i := range a {
		for j := range b {
			tmp.Mul(big.NewInt(a[i]), big.NewInt(b[j]))
			if k := i + j; k < n {
				res[k].Add(res[k], tmp)
			} else {
				res[k-n].Sub(res[k-n], tmp)
			}
		}
	}
	return res
}

func addTo(res, a []*big.Int) {
	for i := range res {
		res[i].Add(res[i], a[i])
	}
}

func bigInts(x []int64) []*big.Int {
	res := make([]*big.Int, len(x))
	for i := range x {
		res[i] = big.NewInt(x[i])
	}
	return res
}

// bigAt returns the int128 coefficients of the given limb.
func bigAt(v *hal.VecZnxBig, col, limb int) []*big.Int {
	x := v.At(col, limb)
	res := make([]*big.Int, v.N)
	for i := range res {
		res[i] = bignum.Int128(x[2*i], x[2*i+1])
	}
	return res
}

func requireBigEqual(t *testing.T, want, have []*big.Int) {
	require.Equal(t, len(want), len(have))
	for i := range want {
		require.Zero(t, want[i].Cmp(have[i]), "coefficient %d: %v != %v", i, want[i], have[i])
	}
}

type bogusKernels struct {
	ring.KernelsRef
}

func (bogusKernels) Name() string {
	return "bogus"
}

func TestTable(t *testing.T) {

	t.Run("Schedule", func(t *testing.T) {
		for logN := 1; logN <= MaxLogN; logN++ {
			tab := &Table{N: 1 << logN, LogN: logN}
			tab.buildSchedules()
			forward, inverse := tab.Bounds()
			require.Len(t, forward, logN)
			require.Len(t, inverse, logN)
			for i, b := range append(forward, inverse...) {
				for _, bound := range b {
					require.LessOrEqual(t, bound, maxBound, "logN=%d level=%d", logN, i)
				}
			}
			for _, lv := range tab.forward {
				require.LessOrEqual(t, mulOut(lv.in), maxBound)
				require.LessOrEqual(t, lv.kShift+LogQ, maxBound)
				if lv.reduce {
					require.LessOrEqual(t, lv.redH+1, maxBound)
				}
			}
			for _, lv := range tab.inverse {
				require.LessOrEqual(t, mulOut(lv.mid), maxBound)
				require.LessOrEqual(t, lv.kShift+LogQ, maxBound)
			}
			require.LessOrEqual(t, tab.untwistH+LogQ+1, maxBound)
		}
	})

	t.Run("Primes", func(t *testing.T) {
		Q := big.NewInt(1)
		for _, q := range Primes {
			require.True(t, ring.IsPrime(q))
			require.Equal(t, uint64(1), q&(1<<17-1))
			require.Equal(t, LogQ, bits.Len64(q))
			Q.Mul(Q, new(big.Int).SetUint64(q))
		}
		require.Equal(t, 120, Q.BitLen())
	})

	t.Run("InvalidDegree", func(t *testing.T) {
		for _, n := range []int{0, 1, 3, 1 << (MaxLogN + 1)} {
			_, err := NewTable(n)
			require.Error(t, err, "N=%d", n)
		}
	})

	t.Run("Reconstruct", func(t *testing.T) {

		tab, err := NewTable(4)
		require.NoError(t, err)

		Q := big.NewInt(1)
		for _, q := range Primes {
			Q.Mul(Q, new(big.Int).SetUint64(q))
		}
		halfQ := new(big.Int).Rsh(Q, 1)

		source := newTestSource()

		values := []*big.Int{
			big.NewInt(0),
			big.NewInt(1),
			big.NewInt(-1),
			new(big.Int).Set(halfQ),
			new(big.Int).Neg(halfQ),
		}
		for range 256 {
			x := bignum.Int128(source.Uint64(), source.Uint64())
			x.Mod(x, Q)
			if x.Cmp(halfQ) > 0 {
				x.Sub(x, Q)
			}
			values = append(values, x)
		}

		for _, x := range values {
			var r [4]uint64
			for k, q := range Primes {
				r[k] = new(big.Int).Mod(x, new(big.Int).SetUint64(q)).Uint64()
			}
			lo, hi := tab.Reconstruct(r)
			require.Zero(t, x.Cmp(bignum.Int128(lo, hi)), "%v != %v", x, bignum.Int128(lo, hi))
		}
	})
}

func TestModule(t *testing.T) {

	t.Run("Lifecycle", func(t *testing.T) {
		m := newTestModule(t, 16, nil)
		require.Equal(t, hal.Ready, m.State())
		require.Equal(t, Name, m.Name())
		require.Equal(t, 2, m.BigWords())
		require.Equal(t, 4, m.DftWords())
		require.NotNil(t, m.Table())

		a := hal.NewVecZnx(16, 1, 1)
		res := hal.NewVecZnxDft(m, 1, 1)
		m.DftForward(res, 0, a, 0)

		m.Close()
		require.Equal(t, hal.Uninitialized, m.State())
		require.Panics(t, func() { m.DftForward(res, 0, a, 0) })
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		for _, n := range []int{0, 1, 12, 1 << (MaxLogN + 1)} {
			_, err := NewModule(n, Options{})
			require.Error(t, err, "N=%d", n)
		}
		_, err := NewModule(16, Options{Kernels: bogusKernels{}})
		require.Error(t, err)
	})
}

func TestDft(t *testing.T) {

	source := newTestSource()

	for _, kernels := range testKernels {

		for n := 2; n <= 256; n <<= 1 {

			m := newTestModule(t, n, kernels)

			t.Run(testString("RoundTrip", kernels, n), func(t *testing.T) {
				a := hal.NewVecZnx(n, 1, 3)
				fillRaw(source, a, 0, 62)

				aDft := hal.NewVecZnxDft(m, 1, 4)
				m.DftForward(aDft, 0, a, 0)
				require.Equal(t, make([]uint64, 4*n), aDft.At(0, 3))

				keep := aDft.Clone()
				res := hal.NewVecZnxBig(m, 1, 4)
				m.DftInverse(res, 0, aDft, 0, hal.NewScratch(m.DftInverseTmpBytes()))
				require.True(t, aDft.Equal(keep))
				for l := range 3 {
					requireBigEqual(t, bigInts(a.At(0, l)), bigAt(res, 0, l))
				}
				requireBigEqual(t, bigInts(make([]int64, n)), bigAt(res, 0, 3))

				consumed := hal.NewVecZnxBig(m, 1, 2)
				m.DftInverseConsume(consumed, 0, aDft, 0)
				for l := range 2 {
					requireBigEqual(t, bigInts(a.At(0, l)), bigAt(consumed, 0, l))
				}
			})

			t.Run(testString("Product", kernels, n), func(t *testing.T) {
				a := hal.NewVecZnx(n, 1, 1)
				b := hal.NewVecZnx(n, 1, 1)
				fillRaw(source, a, 0, 50)
				fillRaw(source, b, 0, 50)

				aDft := hal.NewVecZnxDft(m, 1, 1)
				bDft := hal.NewVecZnxDft(m, 1, 1)
				m.DftForward(aDft, 0, a, 0)
				m.DftForward(bDft, 0, b, 0)
				m.DftMul(aDft, 0, aDft, 0, bDft, 0)

				res := hal.NewVecZnxBig(m, 1, 1)
				m.DftInverseConsume(res, 0, aDft, 0)
				requireBigEqual(t, negacyclicMul(a.At(0, 0), b.At(0, 0)), bigAt(res, 0, 0))
			})
		}
	}

	t.Run("Convolution", func(t *testing.T) {
		m := newTestModule(t, 4, nil)
		a := hal.NewVecZnx(4, 1, 1)
		b := hal.NewVecZnx(4, 1, 1)
		copy(a.At(0, 0), []int64{1, 2})
		copy(b.At(0, 0), []int64{3, 4})

		aDft := hal.NewVecZnxDft(m, 1, 1)
		bDft := hal.NewVecZnxDft(m, 1, 1)
		m.DftForward(aDft, 0, a, 0)
		m.DftForward(bDft, 0, b, 0)
		m.DftMul(bDft, 0, aDft, 0, bDft, 0)

		res := hal.NewVecZnxBig(m, 1, 1)
		m.DftInverseConsume(res, 0, bDft, 0)
		requireBigEqual(t, bigInts([]int64{3, 10, 8, 0}), bigAt(res, 0, 0))
	})

	t.Run("KernelsAgree", func(t *testing.T) {
		n := 256
		ref := newTestModule(t, n, ring.KernelsRef{})
		unrolled := newTestModule(t, n, ring.KernelsUnrolled{})

		a := hal.NewVecZnx(n, 1, 2)
		fillRaw(source, a, 0, 62)

		x := hal.NewVecZnxDft(ref, 1, 2)
		y := hal.NewVecZnxDft(unrolled, 1, 2)
		ref.DftForward(x, 0, a, 0)
		unrolled.DftForward(y, 0, a, 0)
		require.True(t, x.Equal(y))

		ref.DftMul(x, 0, x, 0, x, 0)
		unrolled.DftMul(y, 0, y, 0, y, 0)
		require.True(t, x.Equal(y))

		bx := hal.NewVecZnxBig(ref, 1, 2)
		by := hal.NewVecZnxBig(unrolled, 1, 2)
		ref.DftInverseConsume(bx, 0, x, 0)
		unrolled.DftInverseConsume(by, 0, y, 0)
		require.True(t, x.Equal(y))
		require.True(t, bx.Equal(by))
	})

	t.Run("ExtremeResidues", func(t *testing.T) {
		// all residues at q-1 maximize the intermediate values of every butterfly
		n := 1024
		for _, kernels := range testKernels {
			m := newTestModule(t, n, kernels)
			a := hal.NewVecZnx(n, 1, 1)
			for i := range n {
				a.At(0, 0)[i] = -1
			}
			aDft := hal.NewVecZnxDft(m, 1, 1)
			m.DftForward(aDft, 0, a, 0)
			for i, x := range aDft.At(0, 0) {
				require.Less(t, x, Primes[i&3])
			}
			res := hal.NewVecZnxBig(m, 1, 1)
			m.DftInverseConsume(res, 0, aDft, 0)
			requireBigEqual(t, bigInts(a.At(0, 0)), bigAt(res, 0, 0))
		}
	})

	t.Run("Arithmetic", func(t *testing.T) {
		n := 32
		m := newTestModule(t, n, nil)

		a := hal.NewVecZnx(n, 1, 2)
		b := hal.NewVecZnx(n, 1, 3)
		fillRaw(source, a, 0, 60)
		fillRaw(source, b, 0, 60)

		aDft := hal.NewVecZnxDft(m, 1, 2)
		bDft := hal.NewVecZnxDft(m, 1, 3)
		m.DftForward(aDft, 0, a, 0)
		m.DftForward(bDft, 0, b, 0)

		sum := hal.NewVecZnxDft(m, 1, 4)
		m.DftAdd(sum, 0, aDft, 0, bDft, 0)
		diff := hal.NewVecZnxDft(m, 1, 4)
		m.DftSub(diff, 0, aDft, 0, bDft, 0)

		want := hal.NewVecZnx(n, 1, 4)
		m.VecZnxAdd(want, 0, a, 0, b, 0)
		res := hal.NewVecZnxBig(m, 1, 4)
		m.DftInverseConsume(res, 0, sum, 0)
		for l := range 4 {
			requireBigEqual(t, bigInts(want.At(0, l)), bigAt(res, 0, l))
		}

		m.VecZnxSub(want, 0, a, 0, b, 0)
		m.DftInverseConsume(res, 0, diff, 0)
		for l := range 4 {
			requireBigEqual(t, bigInts(want.At(0, l)), bigAt(res, 0, l))
		}

		cpy := hal.NewVecZnxDft(m, 1, 3)
		m.DftCopy(cpy, 0, aDft, 0)
		require.Equal(t, aDft.At(0, 1), cpy.At(0, 1))
		require.Equal(t, make([]uint64, 4*n), cpy.At(0, 2))

		m.DftAddInplace(cpy, 0, bDft, 0)
		m.DftAdd(sum, 0, aDft, 0, bDft, 0)
		for l := range 3 {
			require.Equal(t, sum.At(0, l), cpy.At(0, l))
		}

		m.DftZero(cpy, 0)
		require.Equal(t, make([]uint64, 3*4*n), cpy.Data)
	})
}

// normalizedDigits returns the balanced base 2^basek digits of sum_j x[j] * 2^((size-1-j)*basek)
// modulo 2^(size*basek), most significant first.
func normalizedDigits(x []*big.Int, basek int) []int64 {
	size := len(x)
	v := new(big.Int)
	for j := range size {
		v.Lsh(v, uint(basek))
		v.Add(v, x[j])
	}
	base := new(big.Int).Lsh(big.NewInt(1), uint(basek))
	half := new(big.Int).Rsh(base, 1)
	digits := make([]int64, size)
	d := new(big.Int)
	for j := size - 1; j >= 0; j-- {
		d.Mod(v, base)
		if d.Cmp(half) >= 0 {
			d.Sub(d, base)
		}
		digits[j] = d.Int64()
		v.Sub(v, d)
		v.Rsh(v, uint(basek))
	}
	return digits
}

func TestBig(t *testing.T) {

	source := newTestSource()
	n := 32

	for _, kernels := range testKernels {

		m := newTestModule(t, n, kernels)

		t.Run(testString("AddSub", kernels, n), func(t *testing.T) {
			a := hal.NewVecZnx(n, 1, 2)
			b := hal.NewVecZnx(n, 1, 3)
			fillRaw(source, a, 0, 62)
			fillRaw(source, b, 0, 62)

			x := hal.NewVecZnxBig(m, 1, 2)
			m.BigAddSmallInplace(x, 0, a, 0)
			m.BigAddSmallInplace(x, 0, a, 0)
			y := hal.NewVecZnxBig(m, 1, 3)
			m.BigAddSmallInplace(y, 0, b, 0)

			sum := hal.NewVecZnxBig(m, 1, 4)
			m.BigAdd(sum, 0, x, 0, y, 0)
			for l := range 4 {
				want := bigInts(make([]int64, n))
				if l < 2 {
					addTo(want, bigInts(a.At(0, l)))
					addTo(want, bigInts(a.At(0, l)))
				}
				if l < 3 {
					addTo(want, bigInts(b.At(0, l)))
				}
				requireBigEqual(t, want, bigAt(sum, 0, l))
			}

			m.BigAddInplace(x, 0, y, 0)
			for l := range 2 {
				require.Equal(t, sum.At(0, l), x.At(0, l))
			}

			m.BigSubSmallInplace(x, 0, b, 0)
			m.BigSubSmallInplace(x, 0, a, 0)
			for l := range 2 {
				requireBigEqual(t, bigInts(a.At(0, l)), bigAt(x, 0, l))
			}
		})

		t.Run(testString("Normalize", kernels, n), func(t *testing.T) {
			size := 3
			a := hal.NewVecZnx(n, 1, size)
			fillRaw(source, a, 0, 62)

			// accumulators beyond 64 bits
			acc := hal.NewVecZnxBig(m, 1, size)
			for range 16 {
				m.BigAddSmallInplace(acc, 0, a, 0)
			}

			for _, basek := range []int{12, 50, 63} {
				res := hal.NewVecZnx(n, 1, size)
				m.BigNormalize(basek, res, 0, basek, acc, 0, hal.NewScratch(m.BigNormalizeTmpBytes(size)))
				for i := range n {
					x := make([]*big.Int, size)
					for l := range size {
						x[l] = bigAt(acc, 0, l)[i]
					}
					want := normalizedDigits(x, basek)
					for l := range size {
						require.Equal(t, want[l], res.At(0, l)[i], "basek=%d coefficient=%d limb=%d", basek, i, l)
					}
				}
			}

			// base 2^12 to base 2^18
			basek := 12
			res := hal.NewVecZnx(n, 1, size)
			m.BigNormalize(basek, res, 0, basek, acc, 0, hal.NewScratch(m.BigNormalizeTmpBytes(size)))
			want := hal.NewVecZnx(n, 1, 2)
			m.VecZnxNormalizeBase2k(18, want, 0, basek, res, 0, 0, hal.NewScratch(m.VecZnxNormalizeBase2kTmpBytes(size)))
			wide := hal.NewVecZnx(n, 1, 2)
			m.BigNormalize(18, wide, 0, basek, acc, 0, hal.NewScratch(m.BigNormalizeTmpBytes(size)))
			require.True(t, wide.Equal(want))
		})
	}
}

func TestVmp(t *testing.T) {

	source := newTestSource()
	n := 16
	// rows * colsIn exceeds the number of lazy products between folds
	rows, colsIn, colsOut, size := 5, 2, 2, 3

	for _, kernels := range testKernels {

		m := newTestModule(t, n, kernels)

		entries := make([][]*hal.VecZnx, rows)
		pmat := hal.NewVmpPMat(m, rows, colsIn, colsOut, size)
		for r := range rows {
			entries[r] = make([]*hal.VecZnx, colsIn)
			for ci := range colsIn {
				e := hal.NewVecZnx(n, colsOut, size)
				eDft := hal.NewVecZnxDft(m, colsOut, size)
				for co := range colsOut {
					fillRaw(source, e, co, 40)
					m.DftForward(eDft, co, e, co)
				}
				m.VmpPrepareRow(pmat, r, ci, eDft)
				entries[r][ci] = e
			}
		}

		a := hal.NewVecZnx(n, colsIn, rows)
		aDft := hal.NewVecZnxDft(m, colsIn, rows)
		for ci := range colsIn {
			fillRaw(source, a, ci, 40)
			m.DftForward(aDft, ci, a, ci)
		}

		product := func(co, k int) []*big.Int {
			res := bigInts(make([]int64, n))
			for r := range rows {
				for ci := range colsIn {
					addTo(res, negacyclicMul(a.At(ci, r), entries[r][ci].At(co, k)))
				}
			}
			return res
		}

		inverse := func(v *hal.VecZnxDft) *hal.VecZnxBig {
			res := hal.NewVecZnxBig(m, v.Cols, v.Size)
			for co := range v.Cols {
				m.DftInverseConsume(res, co, v.Clone(), co)
			}
			return res
		}

		t.Run(testString("Apply", kernels, n), func(t *testing.T) {
			resSize := size + 1
			res := hal.NewVecZnxDft(m, colsOut, resSize)
			scratch := hal.NewScratch(m.VmpApplyTmpBytes(resSize, rows, rows, colsIn, colsOut, size))
			m.VmpApply(res, aDft, pmat, scratch)
			for i, x := range res.Data {
				require.Less(t, x, Primes[i&3])
			}
			got := inverse(res)
			for co := range colsOut {
				for k := range size {
					requireBigEqual(t, product(co, k), bigAt(got, co, k))
				}
				requireBigEqual(t, bigInts(make([]int64, n)), bigAt(got, co, size))
			}
		})

		for _, scale := range []int{0, 2, -1} {
			t.Run(testString(fmt.Sprintf("ApplyAdd/scale=%d", scale), kernels, n), func(t *testing.T) {
				c := hal.NewVecZnx(n, colsOut, size)
				res := hal.NewVecZnxDft(m, colsOut, size)
				for co := range colsOut {
					fillRaw(source, c, co, 40)
					m.DftForward(res, co, c, co)
				}
				scratch := hal.NewScratch(m.VmpApplyTmpBytes(size, rows, rows, colsIn, colsOut, size))
				m.VmpApplyAdd(res, aDft, pmat, scale, scratch)
				got := inverse(res)
				for co := range colsOut {
					for j := range size {
						want := bigInts(c.At(co, j))
						if k := j - scale; k >= 0 && k < size {
							addTo(want, product(co, k))
						}
						requireBigEqual(t, want, bigAt(got, co, j))
					}
				}
			})
		}
	}
}

func TestSvp(t *testing.T) {

	source := newTestSource()
	n := 64

	for _, kernels := range testKernels {

		m := newTestModule(t, n, kernels)

		t.Run(testString("Apply", kernels, n), func(t *testing.T) {
			s := hal.NewScalarZnx(n, 1)
			for i := range n {
				s.At(0)[i] = source.Int64Range(-1, 1)
			}
			ppol := hal.NewSvpPPol(m, 1)
			m.SvpPrepare(ppol, 0, s, 0)

			b := hal.NewVecZnx(n, 1, 2)
			fillRaw(source, b, 0, 62)
			bDft := hal.NewVecZnxDft(m, 1, 2)
			m.DftForward(bDft, 0, b, 0)

			res := hal.NewVecZnxDft(m, 1, 3)
			m.SvpApply(res, 0, ppol, 0, bDft, 0)

			prod := hal.NewVecZnxBig(m, 1, 3)
			m.DftInverseConsume(prod, 0, res, 0)
			for l := range 2 {
				requireBigEqual(t, negacyclicMul(s.At(0), b.At(0, l)), bigAt(prod, 0, l))
			}
			requireBigEqual(t, bigInts(make([]int64, n)), bigAt(prod, 0, 2))
		})
	}
}

func TestDftProperties(t *testing.T) {

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 16
	properties := gopter.NewProperties(parameters)

	source := newTestSource()

	properties.Property("products are exact", prop.ForAll(
		func(logN int) bool {
			n := 1 << logN
			m, err := NewModule(n, Options{Kernels: ring.KernelsUnrolled{}})
			if err != nil {
				return false
			}
			a := hal.NewVecZnx(n, 1, 1)
			b := hal.NewVecZnx(n, 1, 1)
			fillRaw(source, a, 0, 52)
			fillRaw(source, b, 0, 52)
			aDft := hal.NewVecZnxDft(m, 1, 1)
			bDft := hal.NewVecZnxDft(m, 1, 1)
			m.DftForward(aDft, 0, a, 0)
			m.DftForward(bDft, 0, b, 0)
			m.DftMul(aDft, 0, aDft, 0, bDft, 0)
			res := hal.NewVecZnxBig(m, 1, 1)
			m.DftInverseConsume(res, 0, aDft, 0)
			want := negacyclicMul(a.At(0, 0), b.At(0, 0))
			for i, x := range bigAt(res, 0, 0) {
				if x.Cmp(want[i]) != 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
