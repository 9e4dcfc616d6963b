package ring

// KernelsRef is the scalar reference implementation of [Kernels].
type KernelsRef struct{}

// Name returns the name of the kernel set.
func (KernelsRef) Name() string {
	return KernelsNameRef
}

func (KernelsRef) Add(a, b, res []int64) {
	checkLen(len(res), a, b)
	for i := range res {
		res[i] = a[i] + b[i]
	}
}

func (KernelsRef) AddInplace(a, res []int64) {
	checkLen(len(res), a)
	for i := range res {
		res[i] += a[i]
	}
}

func (KernelsRef) Sub(a, b, res []int64) {
	checkLen(len(res), a, b)
	for i := range res {
		res[i] = a[i] - b[i]
	}
}

func (KernelsRef) SubABInplace(a, res []int64) {
	checkLen(len(res), a)
	for i := range res {
		res[i] -= a[i]
	}
}

func (KernelsRef) SubBAInplace(a, res []int64) {
	checkLen(len(res), a)
	for i := range res {
		res[i] = a[i] - res[i]
	}
}

func (KernelsRef) Negate(a, res []int64) {
	checkLen(len(res), a)
	for i := range res {
		res[i] = -a[i]
	}
}

func (KernelsRef) NegateInplace(res []int64) {
	for i := range res {
		res[i] = -res[i]
	}
}

func (KernelsRef) NormalizeFirstStepCarryOnly(basek, lsh int, x, carry []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(carry), x)
	for i := range carry {
		_, carry[i] = splitLsh(x[i], basek, lsh)
	}
}

func (KernelsRef) NormalizeMiddleStepCarryOnly(basek, lsh int, x, carry []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(carry), x)
	for i := range carry {
		d, c := splitLsh(x[i], basek, lsh)
		t := d + carry[i]
		carry[i] = c + Carry(t, Digit(t, basek), basek)
	}
}

func (KernelsRef) NormalizeFirstStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	for i := range res {
		res[i], carry[i] = splitLsh(x[i], basek, lsh)
	}
}

func (KernelsRef) NormalizeMiddleStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	for i := range res {
		d, c := splitLsh(x[i], basek, lsh)
		t := d + carry[i]
		u := Digit(t, basek)
		res[i] = u
		carry[i] = c + Carry(t, u, basek)
	}
}

func (KernelsRef) NormalizeFinalStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	for i := range res {
		d, _ := splitLsh(x[i], basek, lsh)
		res[i] = Digit(d+carry[i], basek)
	}
}

func (KernelsRef) AddBitField(start, width, shl int, x, acc []int64) {
	checkLen(len(acc), x)
	mask := int64(1)<<width - 1
	for i := range acc {
		acc[i] += ((x[i] >> start) & mask) << shl
	}
}

func (KernelsRef) AddTopBits(start, shl int, x, acc []int64) {
	checkLen(len(acc), x)
	for i := range acc {
		acc[i] += (x[i] >> start) << shl
	}
}
