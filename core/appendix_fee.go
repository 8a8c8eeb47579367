package core

// Fee model (spec §4.3): fee(n) = constantPart + ceil(n/unitSize)*unitFee,
// or the zero fee. All arithmetic is exact 64-bit integer; overflow is the
// caller's problem (the enclosing transaction fails validation, not this
// appendix in isolation).

import "fmt"

// OneSPA is the chain's smallest-to-display currency multiplier.
// Overridable via ChainConfig.OneSPA; this is only the historical default.
const OneSPA int64 = 100_000_000

// Fee is either NONE or a SizeBased schedule. The zero value is NONE.
type Fee struct {
	unitFee      int64
	unitSize     int64
	constantPart int64
	sizeBased    bool
}

// NoFee is the zero fee.
var NoFee = Fee{}

// SizeBasedFee builds a SizeBased(constantPart, unitFee, unitSize) schedule.
// unitSize must be >= 1; constantPart and unitFee must be >= 0.
func SizeBasedFee(constantPart, unitFee, unitSize int64) Fee {
	if unitSize < 1 {
		unitSize = 1
	}
	if constantPart < 0 {
		constantPart = 0
	}
	if unitFee < 0 {
		unitFee = 0
	}
	return Fee{constantPart: constantPart, unitFee: unitFee, unitSize: unitSize, sizeBased: true}
}

// IsZero reports whether the fee is the NONE schedule.
func (f Fee) IsZero() bool { return !f.sizeBased && f.constantPart == 0 }

// Evaluate computes constantPart + ceil(effectiveSize/unitSize)*unitFee for
// a non-negative effectiveSize. Returns an error if the result would
// overflow 63 bits (spec §4.3: that is a validation failure of the
// enclosing transaction, surfaced here as ErrNotValid so the caller can
// propagate it directly).
func (f Fee) Evaluate(effectiveSize int64) (int64, error) {
	if effectiveSize < 0 {
		return 0, fmt.Errorf("%w: negative effective size %d", ErrNotValid, effectiveSize)
	}
	if !f.sizeBased {
		return 0, nil
	}
	units := (effectiveSize + f.unitSize - 1) / f.unitSize
	product, ok := mulOverflows(units, f.unitFee)
	if !ok {
		return 0, fmt.Errorf("%w: fee computation overflows 63 bits", ErrNotValid)
	}
	total, ok := addOverflows(f.constantPart, product)
	if !ok {
		return 0, fmt.Errorf("%w: fee computation overflows 63 bits", ErrNotValid)
	}
	return total, nil
}

// mulOverflows multiplies two non-negative int64s, reporting ok=false if the
// product would not fit in int64.
func mulOverflows(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	result := a * b
	if result/a != b || result < 0 {
		return 0, false
	}
	return result, true
}

// addOverflows adds two non-negative int64s, reporting ok=false if the sum
// would not fit in int64.
func addOverflows(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	sum := a + b
	if sum < 0 {
		return 0, false
	}
	return sum, true
}
