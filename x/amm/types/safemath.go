package types

import (
	"cosmossdk.io/math"
)

// Overflow-checked helpers for the pool math. Products of two uint64 values
// are formed in math.Int so they never wrap; results are narrowed back to
// uint64 only after checking they fit.

func checkedAdd(a, b uint64) (uint64, error) {
	if a > (1<<64-1)-b {
		return 0, ErrArithmeticOverflow.Wrapf("%d + %d overflows uint64", a, b)
	}
	return a + b, nil
}

func toUint64(v math.Int) (uint64, error) {
	if v.IsNegative() || !v.IsUint64() {
		return 0, ErrArithmeticOverflow.Wrapf("%s does not fit in uint64", v)
	}
	return v.Uint64(), nil
}

// mulDivFloor returns floor(a * b / c).
func mulDivFloor(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrArithmeticOverflow.Wrap("division by zero")
	}
	product, err := math.NewIntFromUint64(a).SafeMul(math.NewIntFromUint64(b))
	if err != nil {
		return 0, ErrArithmeticOverflow.Wrapf("%d * %d: %v", a, b, err)
	}
	quo, err := product.SafeQuo(math.NewIntFromUint64(c))
	if err != nil {
		return 0, ErrArithmeticOverflow.Wrapf("%s / %d: %v", product, c, err)
	}
	return toUint64(quo)
}

// mulDivCeil returns ceil(a * b / c).
func mulDivCeil(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrArithmeticOverflow.Wrap("division by zero")
	}
	divisor := math.NewIntFromUint64(c)
	product, err := math.NewIntFromUint64(a).SafeMul(math.NewIntFromUint64(b))
	if err != nil {
		return 0, ErrArithmeticOverflow.Wrapf("%d * %d: %v", a, b, err)
	}
	quo := product.Quo(divisor)
	if !product.Mod(divisor).IsZero() {
		quo = quo.AddRaw(1)
	}
	return toUint64(quo)
}
