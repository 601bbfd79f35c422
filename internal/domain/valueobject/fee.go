package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// FeeType – immutable value object
// ---------------------------------------------------------------------------

// FeeType classifies a fee charged over the life of a loan.
type FeeType struct {
	value string
}

const (
	feeTypeProcessing      = "PROCESSING"
	feeTypeOrigination     = "ORIGINATION"
	feeTypeApplication     = "APPLICATION"
	feeTypeLatePayment     = "LATE_PAYMENT"
	feeTypeEarlySettlement = "EARLY_SETTLEMENT"
	feeTypeOther           = "OTHER"
)

var (
	FeeTypeProcessing      = FeeType{value: feeTypeProcessing}
	FeeTypeOrigination     = FeeType{value: feeTypeOrigination}
	FeeTypeApplication     = FeeType{value: feeTypeApplication}
	FeeTypeLatePayment     = FeeType{value: feeTypeLatePayment}
	FeeTypeEarlySettlement = FeeType{value: feeTypeEarlySettlement}
	FeeTypeOther           = FeeType{value: feeTypeOther}
)

var validFeeTypes = map[string]FeeType{
	feeTypeProcessing:      FeeTypeProcessing,
	feeTypeOrigination:     FeeTypeOrigination,
	feeTypeApplication:     FeeTypeApplication,
	feeTypeLatePayment:     FeeTypeLatePayment,
	feeTypeEarlySettlement: FeeTypeEarlySettlement,
	feeTypeOther:           FeeTypeOther,
}

// NewFeeType creates a FeeType from a raw string.
func NewFeeType(s string) (FeeType, error) {
	v, ok := validFeeTypes[s]
	if !ok {
		return FeeType{}, fmt.Errorf("invalid fee type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the fee type.
func (t FeeType) String() string { return t.value }

// IsZero returns true if the fee type has not been initialised.
func (t FeeType) IsZero() bool { return t.value == "" }

// FeeBasis identifies which amount a fee is computed against.
type FeeBasis int

const (
	// FeeBasisPrincipal means the fee applies against the loan principal.
	FeeBasisPrincipal FeeBasis = iota
	// FeeBasisOutstanding means the fee applies against the due or
	// outstanding balance supplied by the caller.
	FeeBasisOutstanding
)

// Basis returns which base amount fees of this type are computed against.
// Upfront fees (processing, origination, application) apply to the loan
// principal; servicing fees apply to the outstanding balance.
func (t FeeType) Basis() FeeBasis {
	switch t.value {
	case feeTypeProcessing, feeTypeOrigination, feeTypeApplication:
		return FeeBasisPrincipal
	default:
		return FeeBasisOutstanding
	}
}

// ---------------------------------------------------------------------------
// FeeSpec – tagged value object
// ---------------------------------------------------------------------------

// CalculationType distinguishes flat fees from proportional ones.
type CalculationType struct {
	value string
}

const (
	calcTypeFixed      = "FIXED"
	calcTypePercentage = "PERCENTAGE"
)

var (
	CalculationTypeFixed      = CalculationType{value: calcTypeFixed}
	CalculationTypePercentage = CalculationType{value: calcTypePercentage}
)

// NewCalculationType creates a CalculationType from a raw string.
func NewCalculationType(s string) (CalculationType, error) {
	switch s {
	case calcTypeFixed:
		return CalculationTypeFixed, nil
	case calcTypePercentage:
		return CalculationTypePercentage, nil
	default:
		return CalculationType{}, fmt.Errorf("invalid calculation type: %q", s)
	}
}

// String returns the string representation of the calculation type.
func (t CalculationType) String() string { return t.value }

// FeeSpec describes a single fee. The constructors guarantee that a FIXED
// spec carries an amount and a PERCENTAGE spec carries a percentage, so
// invalid combinations are unrepresentable. A zero amount or percentage is
// valid and yields a zero fee.
type FeeSpec struct {
	feeType    FeeType
	calcType   CalculationType
	amount     decimal.Decimal
	percentage decimal.Decimal
}

// NewFixedFee creates a flat fee of the given amount.
func NewFixedFee(feeType FeeType, amount decimal.Decimal) (FeeSpec, error) {
	if feeType.IsZero() {
		return FeeSpec{}, fmt.Errorf("fee type is required")
	}
	if amount.IsNegative() {
		return FeeSpec{}, fmt.Errorf("fee amount must not be negative, got %s", amount)
	}
	return FeeSpec{feeType: feeType, calcType: CalculationTypeFixed, amount: amount}, nil
}

// NewPercentageFee creates a fee proportional to a base amount.
func NewPercentageFee(feeType FeeType, percentage decimal.Decimal) (FeeSpec, error) {
	if feeType.IsZero() {
		return FeeSpec{}, fmt.Errorf("fee type is required")
	}
	if percentage.IsNegative() {
		return FeeSpec{}, fmt.Errorf("fee percentage must not be negative, got %s", percentage)
	}
	return FeeSpec{feeType: feeType, calcType: CalculationTypePercentage, percentage: percentage}, nil
}

// Type returns the fee classification.
func (f FeeSpec) Type() FeeType { return f.feeType }

// CalculationType returns how the fee is computed.
func (f FeeSpec) CalculationType() CalculationType { return f.calcType }

// Amount returns the flat amount for FIXED specs (zero otherwise).
func (f FeeSpec) Amount() decimal.Decimal { return f.amount }

// Percentage returns the rate for PERCENTAGE specs (zero otherwise).
func (f FeeSpec) Percentage() decimal.Decimal { return f.percentage }
