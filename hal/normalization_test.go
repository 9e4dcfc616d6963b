package hal

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/poulpy/ring"
	"github.com/Pro7ech/poulpy/utils"
	"github.com/Pro7ech/poulpy/utils/bignum"
)

// bigValue returns sum_j a_j * 2^{(a.Size-1-j)*basek} for the i-th coefficient.
func bigValue(basek int, a *VecZnx, col, i int) *big.Int {
	v := new(big.Int)
	for j := range a.Size {
		v.Lsh(v, uint(basek))
		v.Add(v, big.NewInt(a.At(col, j)[i]))
	}
	return v
}

// signedValue returns the value of the normalized signed digits of the i-th
// coefficient of a at basek, with the carry out of limb 0 dropped.
func signedValue(basek int, a *VecZnx, col, i int) *big.Int {
	v := bigValue(basek, a, col, i)
	base := new(big.Int).Lsh(big.NewInt(1), uint(basek))
	half := new(big.Int).Rsh(base, 1)
	res := new(big.Int)
	d := new(big.Int)
	for j := range a.Size {
		d.Mod(v, base)
		if d.Cmp(half) >= 0 {
			d.Sub(d, base)
		}
		v.Sub(v, d).Rsh(v, uint(basek))
		res.Add(res, new(big.Int).Lsh(d, uint(j*basek)))
	}
	return res
}

// expectedBase2k returns the integer R such that a * 2^offset equals
// R * 2^-(resSize*resBasek) mod 1, when the destination grid is large enough.
// a is the value of its normalized signed digits at aBasek.
func expectedBase2k(resBasek, resSize, aBasek int, a *VecZnx, col, i, offset int) *big.Int {
	shift := resSize*resBasek + offset - a.Size*aBasek
	if shift < 0 {
		panic(fmt.Errorf("destination grid too small"))
	}
	v := signedValue(aBasek, a, col, i)
	return v.Lsh(v, uint(shift))
}

func requireNormalized(t *testing.T, basek int, res *VecZnx, col int, expected func(i int) *big.Int) {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(res.Size*basek))
	half := int64(1) << (basek - 1)
	for i := range res.N {
		for j := range res.Size {
			d := res.At(col, j)[i]
			require.True(t, d >= -half && d < half, "digit %d of limb %d out of range", d, j)
		}
		have := bigValue(basek, res, col, i)
		have.Mod(have, modulus)
		want := expected(i)
		want.Mod(want, modulus)
		require.Zero(t, have.Cmp(want), "coefficient %d: have %v want %v", i, have, want)
	}
}

func TestNormalize(t *testing.T) {

	source := newTestSource()
	n := 16

	for _, kernels := range testKernels {

		m := NewBase(n, kernels)

		for _, basek := range []int{1, 7, 17, 50, 63} {

			t.Run(testString("Normalize", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 2, 3)
				fillRaw(source, a, 1, 60)
				res := NewVecZnx(n, 1, 4)
				scratch := NewScratch(m.VecZnxNormalizeTmpBytes())
				m.VecZnxNormalize(basek, res, 0, a, 1, scratch)
				requireNormalized(t, basek, res, 0, func(i int) *big.Int {
					return expectedBase2k(basek, res.Size, basek, a, 1, i, 0)
				})
			})

			t.Run(testString("Normalize/Idempotent", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 1, 4)
				fillRaw(source, a, 0, 62)
				scratch := NewScratch(m.VecZnxNormalizeTmpBytes())
				m.VecZnxNormalizeInplace(basek, a, 0, scratch)
				b := a.Clone()
				m.VecZnxNormalizeInplace(basek, b, 0, scratch)
				require.True(t, a.Equal(b))
			})

			t.Run(testString("Normalize/Truncation", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 1, 5)
				fillRaw(source, a, 0, 60)
				scratch := NewScratch(m.VecZnxNormalizeTmpBytes())

				// normalizing into fewer limbs equals normalizing then renormalizing
				full := NewVecZnx(n, 1, 5)
				m.VecZnxNormalize(basek, full, 0, a, 0, scratch)
				have := NewVecZnx(n, 1, 2)
				m.VecZnxNormalize(basek, have, 0, a, 0, scratch)
				want := NewVecZnx(n, 1, 2)
				m.VecZnxNormalize(basek, want, 0, full, 0, scratch)
				require.True(t, have.Equal(want))
			})
		}
	}
}

func TestNormalizeBase2k(t *testing.T) {

	source := newTestSource()
	n := 8

	for _, kernels := range testKernels {

		m := NewBase(n, kernels)

		for _, aBasek := range []int{12, 17, 30} {
			for _, resBasek := range []int{12, 17, 30, 62} {
				for _, offset := range []int{-40, -13, 0, 5, 31} {

					name := fmt.Sprintf("%s/aBasek=%d/offset=%d", testString("NormalizeBase2k", kernels, n, resBasek), aBasek, offset)

					t.Run(name, func(t *testing.T) {

						a := NewVecZnx(n, 1, 3)
						fillRaw(source, a, 0, 60)

						resSize := utils.DivCeil(a.Size*aBasek-offset, resBasek) + 1
						res := NewVecZnx(n, 1, resSize)
						scratch := NewScratch(m.VecZnxNormalizeBase2kTmpBytes(a.Size))

						m.VecZnxNormalizeBase2k(resBasek, res, 0, aBasek, a, 0, offset, scratch)

						requireNormalized(t, resBasek, res, 0, func(i int) *big.Int {
							return expectedBase2k(resBasek, resSize, aBasek, a, 0, i, offset)
						})
					})

					t.Run(name+"/Truncation", func(t *testing.T) {

						a := NewVecZnx(n, 1, 3)
						fillRaw(source, a, 0, 60)
						scratch := NewScratch(m.VecZnxNormalizeBase2kTmpBytes(32))

						// exact intermediate on a 7-bit grid
						midBasek := 7
						mid := NewVecZnx(n, 1, utils.DivCeil(a.Size*aBasek+max(-offset, 0), midBasek)+1)
						m.VecZnxNormalizeBase2k(midBasek, mid, 0, aBasek, a, 0, offset, scratch)

						for _, size := range []int{1, 2} {
							have := NewVecZnx(n, 1, size)
							m.VecZnxNormalizeBase2k(resBasek, have, 0, aBasek, a, 0, offset, scratch)
							want := NewVecZnx(n, 1, size)
							m.VecZnxNormalizeBase2k(resBasek, want, 0, midBasek, mid, 0, 0, scratch)
							require.True(t, have.Equal(want), "size=%d", size)
						}
					})
				}
			}
		}

		t.Run(testString("NormalizeBase2k/SignedRightShift", kernels, n, 2), func(t *testing.T) {

			scratch := NewScratch(m.VecZnxNormalizeBase2kTmpBytes(2))

			for _, tc := range []struct {
				aBasek int
				raw    int64
				want   []int64
			}{
				// raw 3 at base 4 is the digit -1, that is -1/4, shifted to -1/8 = -2/16
				{2, 3, []int64{0, -2}},
				// raw 5 at base 8 is the digit -3, that is -3/8, shifted to -3/16
				{3, 5, []int64{-1, 1}},
			} {
				a := NewVecZnx(n, 1, 1)
				for i := range n {
					a.At(0, 0)[i] = tc.raw
				}

				res := NewVecZnx(n, 1, len(tc.want))
				m.VecZnxNormalizeBase2k(2, res, 0, tc.aBasek, a, 0, -1, scratch)
				for j, w := range tc.want {
					for i := range n {
						require.Equal(t, w, res.At(0, j)[i], "aBasek=%d limb=%d", tc.aBasek, j)
					}
				}

				if tc.aBasek == 2 {
					rsh := NewVecZnx(n, 1, len(tc.want))
					m.VecZnxRsh(2, 1, rsh, 0, a, 0, NewScratch(m.VecZnxLshTmpBytes(a.Size)))
					require.True(t, rsh.Equal(res))
				}
			}
		})

		for _, basek := range []int{9, 17, 60} {
			for _, offset := range []int{-70, -17, -1, 0, 3, 17, 35, 100} {
				t.Run(fmt.Sprintf("%s/offset=%d", testString("NormalizeBase2k/GeneralEqualsShift", kernels, n, basek), offset), func(t *testing.T) {
					a := NewVecZnx(n, 1, 4)
					fillRaw(source, a, 0, 62)
					scratch := NewScratch(m.VecZnxNormalizeBase2kTmpBytes(a.Size))
					for _, size := range []int{1, 3, 6} {
						have := NewVecZnx(n, 1, size)
						m.normalizeShift(basek, have, 0, a, 0, offset, scratch)
						want := NewVecZnx(n, 1, size)
						m.normalizeCrossBase(basek, want, 0, basek, a, 0, offset, scratch)
						require.True(t, have.Equal(want), "size=%d", size)
					}
				})
			}
		}
	}
}

func TestShift(t *testing.T) {

	source := newTestSource()
	n := 16

	for _, kernels := range testKernels {

		m := NewBase(n, kernels)

		for _, basek := range []int{12, 19, 50} {

			t.Run(testString("Lsh/Value", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 1, 3)
				fillRaw(source, a, 0, 60)
				scratch := NewScratch(m.VecZnxLshTmpBytes(a.Size))
				for _, k := range []int{0, 1, basek - 1, basek, basek + 3, 2*basek + 5, 4 * basek} {
					res := NewVecZnx(n, 1, 3)
					m.VecZnxLsh(basek, k, res, 0, a, 0, scratch)
					requireNormalized(t, basek, res, 0, func(i int) *big.Int {
						return expectedBase2k(basek, res.Size, basek, a, 0, i, k)
					})
				}
			})

			t.Run(testString("Lsh/Inplace", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 1, 4)
				fillRaw(source, a, 0, 60)
				scratch := NewScratch(m.VecZnxLshTmpBytes(a.Size))
				for _, k := range []int{3, basek + 3, 2 * basek} {
					want := NewVecZnx(n, 1, 4)
					m.VecZnxLsh(basek, k, want, 0, a, 0, scratch)
					have := a.Clone()
					m.VecZnxLshInplace(basek, k, have, 0, scratch)
					require.True(t, have.Equal(want))
				}
			})

			t.Run(testString("Rsh/Inplace", kernels, n, basek), func(t *testing.T) {
				a := NewVecZnx(n, 1, 4)
				fillRaw(source, a, 0, 60)
				scratch := NewScratch(m.VecZnxLshTmpBytes(a.Size))
				for _, k := range []int{3, basek + 3, 2 * basek} {
					want := NewVecZnx(n, 1, 4)
					m.VecZnxRsh(basek, k, want, 0, a, 0, scratch)
					have := a.Clone()
					m.VecZnxRshInplace(basek, k, have, 0, scratch)
					require.True(t, have.Equal(want))
				}
			})

			t.Run(testString("RshLsh/Inverse", kernels, n, basek), func(t *testing.T) {
				size := 6
				scratch := NewScratch(m.VecZnxLshTmpBytes(size))
				for _, k := range []int{1, basek - 1, basek, 2*basek + 1} {
					// the top limbs are zero so that no bit is lost by the left shift
					a := NewVecZnx(n, 1, size)
					m.VecZnxFillUniform(basek, a, 0, source)
					for l := range utils.DivCeil(k, basek) + 1 {
						clear(a.At(0, l))
					}
					b := NewVecZnx(n, 1, size)
					m.VecZnxLsh(basek, k, b, 0, a, 0, scratch)
					m.VecZnxRshInplace(basek, k, b, 0, scratch)
					require.True(t, a.Equal(b), "k=%d", k)
				}
			})
		}
	}
}

func TestNormalizeProperties(t *testing.T) {

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 64
	properties := gopter.NewProperties(parameters)

	n := 8
	m := NewBase(n, ring.KernelsUnrolled{})
	source := newTestSource()
	scratch := NewScratch(m.VecZnxNormalizeBase2kTmpBytes(8))

	properties.Property("normalize is idempotent", prop.ForAll(
		func(basek int) bool {
			a := NewVecZnx(n, 1, 3)
			fillRaw(source, a, 0, 62)
			m.VecZnxNormalizeInplace(basek, a, 0, scratch)
			b := a.Clone()
			m.VecZnxNormalizeInplace(basek, b, 0, scratch)
			return a.Equal(b)
		},
		gen.IntRange(1, 63),
	))

	properties.Property("cross-base normalization preserves the value", prop.ForAll(
		func(aBasek, resBasek, offset int) bool {
			a := NewVecZnx(n, 1, 2)
			fillRaw(source, a, 0, 60)
			res := NewVecZnx(n, 1, utils.DivCeil(a.Size*aBasek-offset, resBasek)+1)
			m.VecZnxNormalizeBase2k(resBasek, res, 0, aBasek, a, 0, offset, scratch)
			modulus := new(big.Int).Lsh(big.NewInt(1), uint(res.Size*resBasek))
			for i := range n {
				have := bigValue(resBasek, res, 0, i)
				want := expectedBase2k(resBasek, res.Size, aBasek, a, 0, i, offset)
				if have.Sub(have, want).Mod(have, modulus).Sign() != 0 {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 40),
		gen.IntRange(2, 40),
		gen.IntRange(-64, 64),
	))

	properties.TestingRun(t)
}

func TestStd(t *testing.T) {
	n := 1 << 12
	m := NewBase(n, ring.KernelsRef{})
	source := newTestSource()

	basek, k, sigma := 17, 40, 3.2*1024
	scratch := NewScratch(m.VecZnxNormalizeTmpBytes())

	t.Run("Std", func(t *testing.T) {
		a := NewVecZnx(n, 1, 3)
		m.VecZnxFillNormal(basek, a, 0, k, source, sigma, 6*sigma)
		m.VecZnxNormalizeInplace(basek, a, 0, scratch)

		std := m.VecZnxStd(basek, a, 0)
		want, _ := new(big.Float).SetMantExp(bignum.NewFloat(sigma, 64), -k).Float64()
		require.InDelta(t, 1, std/want, 0.1)

		data := make([]int64, n)
		m.DecodeVecI64(basek, a, 0, k, data)
		values := make([]float64, n)
		for i := range data {
			values[i] = float64(data[i])
		}

		mean, err := stats.Mean(values)
		require.NoError(t, err)
		require.InDelta(t, 0, mean, 0.1*sigma)

		sampleStd, err := stats.StandardDeviationSample(values)
		require.NoError(t, err)
		require.InDelta(t, 1, sampleStd/sigma, 0.1)
		require.InDelta(t, 1, std/math.Ldexp(sampleStd, -k), 1e-9)
	})

	t.Run("Bound", func(t *testing.T) {
		bound := 2 * sigma
		a := NewVecZnx(n, 1, 3)
		m.VecZnxFillNormal(basek, a, 0, k, source, sigma, bound)
		m.VecZnxNormalizeInplace(basek, a, 0, scratch)

		data := make([]int64, n)
		m.DecodeVecI64(basek, a, 0, k, data)
		values := make([]float64, n)
		for i := range data {
			values[i] = math.Abs(float64(data[i]))
		}

		maxAbs, err := stats.Max(values)
		require.NoError(t, err)
		require.LessOrEqual(t, maxAbs, math.Round(bound))
	})

	t.Run("ZeroNoise", func(t *testing.T) {
		a := NewVecZnx(n, 1, 3)
		m.VecZnxFillUniform(basek, a, 0, source)
		want := a.Clone()
		m.VecZnxAddNormal(basek, a, 0, k, source, sigma, 0)
		require.True(t, a.Equal(want))
		m.VecZnxAddNormal(basek, a, 0, k, source, 0, 6*sigma)
		require.True(t, a.Equal(want))
	})

	t.Run("InvalidBound", func(t *testing.T) {
		a := NewVecZnx(n, 1, 3)
		require.Panics(t, func() { m.VecZnxAddNormal(basek, a, 0, k, source, sigma, 1<<65) })
		require.Panics(t, func() { m.VecZnxAddNormal(basek, a, 0, k, source, sigma, 1<<63) })
		require.Panics(t, func() { m.VecZnxAddNormal(basek, a, 0, k, source, sigma, -1) })
		require.Panics(t, func() { m.VecZnxAddNormal(basek, a, 0, k, source, sigma, math.NaN()) })
		require.NotPanics(t, func() {
			m.VecZnxAddNormal(basek, a, 0, k, source, sigma, math.Nextafter(1<<63, 0))
		})
	})
}
