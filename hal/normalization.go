package hal

import (
	"fmt"

	"github.com/Pro7ech/poulpy/utils"
)

// VecZnxNormalizeTmpBytes returns the arena bytes needed by [Base.VecZnxNormalize].
func (m *Base) VecZnxNormalizeTmpBytes() int {
	return 2 * bytesOf(m.n)
}

// VecZnxNormalizeBase2kTmpBytes returns the arena bytes needed by
// [Base.VecZnxNormalizeBase2k] for an input of aSize limbs.
func (m *Base) VecZnxNormalizeBase2kTmpBytes(aSize int) int {
	return bytesOf(aSize*m.n) + 2*bytesOf(m.n)
}

// VecZnxLshTmpBytes returns the arena bytes needed by the shifts of a vector of size limbs.
func (m *Base) VecZnxLshTmpBytes(size int) int {
	return m.VecZnxNormalizeBase2kTmpBytes(size)
}

// VecZnxNormalize writes on res the normalized base 2^basek digits of a.
func (m *Base) VecZnxNormalize(basek int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch) {
	m.CheckN(res, a)
	checkBasek(basek)
	zero, carry, _ := m.takeCarry(scratch)
	m.normalizeWindows(basek, 0, max(res.Size, a.Size), res, resCol, func(i int) []int64 {
		if i < a.Size {
			return a.At(aCol, i)
		}
		return zero
	}, carry)
}

// VecZnxNormalizeInplace normalizes a in place.
func (m *Base) VecZnxNormalizeInplace(basek int, a *VecZnx, aCol int, scratch *Scratch) {
	m.VecZnxNormalize(basek, a, aCol, a, aCol, scratch)
}

// VecZnxNormalizeBase2k writes on res the normalized base 2^resBasek digits of
// a * 2^offset mod 1, where a has limbs in base 2^aBasek. a is taken as the
// value of its normalized signed digits at aBasek, a representative of a mod 1
// centered around zero, and it is this value that a negative offset shifts.
// Limbs of the result below the precision of res are truncated; the carries
// they generate are propagated into the limbs of res.
func (m *Base) VecZnxNormalizeBase2k(resBasek int, res *VecZnx, resCol int, aBasek int, a *VecZnx, aCol int, offset int, scratch *Scratch) {
	m.CheckN(res, a)
	checkBasek(resBasek)
	checkBasek(aBasek)

	if resBasek == aBasek {
		m.normalizeShift(resBasek, res, resCol, a, aCol, offset, scratch)
		return
	}

	m.normalizeCrossBase(resBasek, res, resCol, aBasek, a, aCol, offset, scratch)
}

// VecZnxLsh writes on res the normalization of a * 2^k mod 1.
func (m *Base) VecZnxLsh(basek, k int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch) {
	m.VecZnxNormalizeBase2k(basek, res, resCol, basek, a, aCol, k, scratch)
}

// VecZnxLshInplace evaluates a = a * 2^k mod 1.
func (m *Base) VecZnxLshInplace(basek, k int, a *VecZnx, aCol int, scratch *Scratch) {
	m.VecZnxLsh(basek, k, a, aCol, a, aCol, scratch)
}

// VecZnxRsh writes on res the normalization of a * 2^-k, where a is the value
// of its normalized signed digits.
// The bits shifted below the last limb of res are truncated.
func (m *Base) VecZnxRsh(basek, k int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch) {
	m.VecZnxNormalizeBase2k(basek, res, resCol, basek, a, aCol, -k, scratch)
}

// VecZnxRshInplace evaluates a = a * 2^-k, with a taken as in [Base.VecZnxRsh].
func (m *Base) VecZnxRshInplace(basek, k int, a *VecZnx, aCol int, scratch *Scratch) {
	m.VecZnxRsh(basek, k, a, aCol, a, aCol, scratch)
}

func checkBasek(basek int) {
	if basek < 1 || basek > 63 {
		panic(fmt.Errorf("invalid basek: %d not in [1, 63]", basek))
	}
}

// takeCarry returns a zeroed limb, a carry limb and the remaining arena.
func (m *Base) takeCarry(scratch *Scratch) (zero, carry []int64, rem *Scratch) {
	zero, rem = scratch.TakeInt64s(m.n)
	carry, rem = rem.TakeInt64s(m.n)
	clear(zero)
	return
}

// normalizeWindows propagates the carries from window last-1 up to window 0.
// input(i) returns the raw limb feeding window i, which is shifted left by lsh
// bits. Windows at or beyond res.Size only update the carry, windows below
// res.Size write their digit on res and the carry out of window 0 is discarded.
// last must be at least res.Size.
// The limb returned by input(i) may alias the limb i of res.
func (m *Base) normalizeWindows(basek, lsh, last int, res *VecZnx, resCol int, input func(i int) []int64, carry []int64) {

	k := m.kernels
	first := true

	for i := last - 1; i >= 0; i-- {

		x := input(i)

		if i >= res.Size {
			if first {
				k.NormalizeFirstStepCarryOnly(basek, lsh, x, carry)
			} else {
				k.NormalizeMiddleStepCarryOnly(basek, lsh, x, carry)
			}
			first = false
			continue
		}

		out := res.At(resCol, i)

		switch {
		case first && i == 0:
			clear(carry)
			k.NormalizeFinalStep(basek, lsh, x, carry, out)
		case first:
			k.NormalizeFirstStep(basek, lsh, x, carry, out)
		case i == 0:
			k.NormalizeFinalStep(basek, lsh, x, carry, out)
		default:
			k.NormalizeMiddleStep(basek, lsh, x, carry, out)
		}

		first = false
	}
}

// normalizeShift is the same-base path: with offset = s * basek + r, limb j
// of a feeds window j - s with an intra-limb shift of r bits.
func (m *Base) normalizeShift(basek int, res *VecZnx, resCol int, a *VecZnx, aCol int, offset int, scratch *Scratch) {

	s := utils.DivFloor(offset, basek)
	r := offset - s*basek

	zero, carry, rem := m.takeCarry(scratch)

	src, srcCol := a, aCol

	// A right shift applies to the signed digit value of a, and
	// a whole-limb move cannot be done in place.
	if offset < 0 || (s != 0 && sameColumn(res, resCol, a, aCol)) {
		var tmp *VecZnx
		tmp, rem = rem.TakeVecZnx(m.n, 1, a.Size)
		m.normalizeWindows(basek, 0, a.Size, tmp, 0, func(i int) []int64 {
			return a.At(aCol, i)
		}, carry)
		src, srcCol = tmp, 0
	}

	m.normalizeWindows(basek, r, max(res.Size, src.Size-s), res, resCol, func(i int) []int64 {
		if j := i + s; j >= 0 && j < src.Size {
			return src.At(srcCol, j)
		}
		return zero
	}, carry)
}

// normalizeCrossBase is the general path. a is first normalized at aBasek, then
// every source limb is split at the window boundaries of the destination grid:
// limb j has its least significant bit at position P = (j+1)*aBasek - offset
// bits below the point and window i covers the positions (i*resBasek, (i+1)*resBasek].
// The topmost piece of a limb carries its sign, the lower pieces are unsigned.
func (m *Base) normalizeCrossBase(resBasek int, res *VecZnx, resCol int, aBasek int, a *VecZnx, aCol int, offset int, scratch *Scratch) {

	if resBasek > 62 {
		panic(fmt.Errorf("invalid basek: cross-base normalization requires resBasek <= 62 but is %d", resBasek))
	}

	zero, carry, rem := m.takeCarry(scratch)
	acc := zero

	tmp, _ := rem.TakeVecZnx(m.n, 1, a.Size)
	m.normalizeWindows(aBasek, 0, a.Size, tmp, 0, func(i int) []int64 {
		return a.At(aCol, i)
	}, carry)

	ab, rb := aBasek, resBasek

	last := max(res.Size, utils.DivCeil(max(a.Size*ab-offset, 0), rb))

	k := m.kernels

	m.normalizeWindows(rb, 0, last, res, resCol, func(i int) []int64 {

		clear(acc)

		lo, hi := i*rb, (i+1)*rb

		for j := range a.Size {

			P := (j+1)*ab - offset

			iTop := utils.DivFloor(P-ab, rb)
			iBot := utils.DivFloor(P-1, rb)

			if i < iTop || i > iBot {
				continue
			}

			tStart := max(0, P-hi)
			shl := hi - P + tStart

			if i == iTop {
				k.AddTopBits(tStart, shl, tmp.At(0, j), acc)
			} else {
				k.AddBitField(tStart, min(ab, P-lo)-tStart, shl, tmp.At(0, j), acc)
			}
		}

		return acc
	}, carry)
}
