package hal

import (
	"fmt"
	"math"
	"math/big"

	"github.com/Pro7ech/poulpy/ring"
	"github.com/Pro7ech/poulpy/utils"
	"github.com/Pro7ech/poulpy/utils/bignum"
)

// encodingLayout returns the number of limbs ceil(k/basek) holding k bits
// of precision and the unused low bits kRem of the last of them.
func encodingLayout(basek, k, size int) (limbs, kRem int) {
	checkBasek(basek)
	if k < 1 {
		panic(fmt.Errorf("invalid precision: k=%d < 1", k))
	}
	limbs = utils.DivCeil(k, basek)
	if limbs > size {
		panic(fmt.Errorf("invalid precision: k=%d requires %d limbs but vector has %d", k, limbs, size))
	}
	return limbs, limbs*basek - k
}

// EncodeVecI64 sets the given column of res to data * 2^-k, with data[i]
// on the i-th coefficient. logMax bounds the input as |data[i]| < 2^logMax:
// if logMax + kRem < basek, every value fits in a single digit of limb
// ceil(k/basek)-1, otherwise the values are decomposed over the limbs above.
// All other limbs and coefficients are zeroed.
func (m *Base) EncodeVecI64(basek int, res *VecZnx, resCol int, k int, data []int64, logMax int) {
	m.CheckN(res)
	limbs, kRem := encodingLayout(basek, k, res.Size)

	if len(data) > m.n {
		panic(fmt.Errorf("invalid data: len(data)=%d > N=%d", len(data), m.n))
	}

	m.VecZnxZero(res, resCol)

	if logMax+kRem < basek {
		out := res.At(resCol, limbs-1)
		for i, x := range data {
			out[i] = x << kRem
		}
		return
	}

	for i, x := range data {
		encodeCoeff(basek, res, resCol, limbs, kRem, i, x)
	}
}

// EncodeCoeffI64 sets the i-th coefficient of the given column of res to data * 2^-k.
// See [Base.EncodeVecI64].
func (m *Base) EncodeCoeffI64(basek int, res *VecZnx, resCol int, k int, i int, data int64, logMax int) {
	m.CheckN(res)
	limbs, kRem := encodingLayout(basek, k, res.Size)

	for l := range res.Size {
		res.At(resCol, l)[i] = 0
	}

	if logMax+kRem < basek {
		res.At(resCol, limbs-1)[i] = data << kRem
		return
	}

	encodeCoeff(basek, res, resCol, limbs, kRem, i, data)
}

// encodeCoeff writes the normalized digits of x * 2^kRem on the limbs [0, limbs).
func encodeCoeff(basek int, res *VecZnx, resCol, limbs, kRem, i int, x int64) {
	bl := basek - kRem
	d := ring.Digit(x, bl)
	c := (x - d) >> bl
	res.At(resCol, limbs-1)[i] = d << kRem
	for l := limbs - 2; l >= 0; l-- {
		u := ring.Digit(c, basek)
		res.At(resCol, l)[i] = u
		c = ring.Carry(c, u, basek)
	}
}

// DecodeVecI64 reads the k most significant bits of the given column of a
// into data, that is floor(a * 2^k) for each of the first len(data) coefficients.
func (m *Base) DecodeVecI64(basek int, a *VecZnx, aCol int, k int, data []int64) {
	m.CheckN(a)
	limbs, kRem := encodingLayout(basek, k, a.Size)

	if len(data) > m.n {
		panic(fmt.Errorf("invalid data: len(data)=%d > N=%d", len(data), m.n))
	}

	for i := range data {
		data[i] = decodeCoeff(basek, a, aCol, limbs, kRem, i)
	}
}

// DecodeCoeffI64 returns the k most significant bits of the i-th coefficient
// of the given column of a. See [Base.DecodeVecI64].
func (m *Base) DecodeCoeffI64(basek int, a *VecZnx, aCol int, k int, i int) int64 {
	m.CheckN(a)
	limbs, kRem := encodingLayout(basek, k, a.Size)
	return decodeCoeff(basek, a, aCol, limbs, kRem, i)
}

// decodeCoeff evaluates sum_{j < limbs-1} a_j * 2^{(limbs-1-j)*basek - kRem} + (a_{limbs-1} >> kRem).
func decodeCoeff(basek int, a *VecZnx, aCol, limbs, kRem, i int) (x int64) {
	for j := range limbs - 1 {
		x = x<<basek + a.At(aCol, j)[i]
	}
	return x<<(basek-kRem) + a.At(aCol, limbs-1)[i]>>kRem
}

// DecodeVecFloat sets data[i] to the exact value sum_j a_j * 2^{-(j+1)*basek}
// of the i-th coefficient, with a.Size * basek bits of precision.
// Nil entries of data are allocated.
func (m *Base) DecodeVecFloat(basek int, a *VecZnx, aCol int, data []*big.Float) {
	m.CheckN(a)
	checkBasek(basek)

	if len(data) > m.n {
		panic(fmt.Errorf("invalid data: len(data)=%d > N=%d", len(data), m.n))
	}

	prec := uint(max(a.Size, 1)*basek) + 64

	acc := bignum.NewFloat(0, prec)
	digit := bignum.NewFloat(0, prec)

	for i := range data {

		acc.SetInt64(0)

		for j := a.Size - 1; j >= 0; j-- {
			digit.SetInt64(a.At(aCol, j)[i])
			acc.Add(acc, digit)
			acc.SetMantExp(acc, -basek)
		}

		if data[i] == nil {
			data[i] = new(big.Float)
		}

		data[i].SetPrec(prec).Set(acc)
	}
}

// VecZnxStd returns the standard deviation of the torus values of the N
// coefficients of the given column of a.
func (m *Base) VecZnxStd(basek int, a *VecZnx, aCol int) float64 {
	values := make([]*big.Float, m.n)
	m.DecodeVecFloat(basek, a, aCol, values)
	stats := bignum.Stats(values, values[0].Prec())
	return math.Exp2(stats[0])
}
