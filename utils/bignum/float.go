// Package bignum implements arbitrary precision arithmetic helpers.
package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Log returns ln(x) with x.Prec() bits of precision.
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Log2 returns log2(x) with x.Prec() bits of precision.
// Returns -Inf if x is zero.
func Log2(x *big.Float) (log2 *big.Float) {
	if x.Sign() == 0 {
		return new(big.Float).SetInf(true)
	}
	ln := Log(x)
	return ln.Quo(ln, Log(NewFloat(2, x.Prec())))
}

// Stats returns the base 2 logarithm of the standard deviation
// and the mean of values, computed with prec bits of precision.
func Stats(values []*big.Float, prec uint) [2]float64 {

	N := len(values)

	if N < 2 {
		panic(fmt.Errorf("invalid values: at least two values are required"))
	}

	mean := NewFloat(0, prec)
	tmp := NewFloat(0, prec)

	for i := 0; i < N; i++ {
		mean.Add(mean, values[i])
	}

	mean.Quo(mean, NewFloat(N, prec))

	std := NewFloat(0, prec)

	for i := 0; i < N; i++ {
		tmp.Sub(values[i], mean)
		tmp.Mul(tmp, tmp)
		std.Add(std, tmp)
	}

	std.Quo(std, NewFloat(N-1, prec))
	std.Sqrt(std)

	log2Std := math.Inf(-1)
	if std.Sign() != 0 {
		log2Std, _ = Log2(std).Float64()
	}

	meanF64, _ := mean.Float64()

	return [2]float64{log2Std, meanF64}
}
