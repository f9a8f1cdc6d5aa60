// Package pricing holds the money math shared by the quotation engine and
// invoice line items. All functions are pure; every monetary output is
// rounded to two decimals at the point of computation so recomputing with
// unchanged inputs reproduces identical figures.
package pricing

import (
	"fmt"
	"math"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
)

// TaxMode selects between tax-inclusive and tax-exclusive computation.
type TaxMode string

const (
	// TaxInclusive treats the given price as already containing tax
	// ("withTax"): the base is back-computed from the price.
	TaxInclusive TaxMode = "withTax"
	// TaxExclusive treats the given price as a pre-tax base
	// ("withoutTax"): tax is added on top.
	TaxExclusive TaxMode = "withoutTax"
)

// GSTMode selects what the quotation-level tax applies to.
type GSTMode string

const (
	GSTFull   GSTMode = "Full"
	GSTMargin GSTMode = "Margin"
	GSTNone   GSTMode = "None"
)

// ComputationError reports a numeric input that makes a derived value
// undefined. It wraps httpx.ErrComputation for transport mapping.
type ComputationError struct {
	Field string
	Value float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: value %.2f is out of range", e.Field, e.Value)
}

// FieldName implements httpx.FieldError.
func (e *ComputationError) FieldName() string { return e.Field }

// Unwrap lets errors.Is match httpx.ErrComputation.
func (e *ComputationError) Unwrap() error { return httpx.ErrComputation }

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyDiscount applies a percentage discount to a pre-tax price.
func ApplyDiscount(price, discountPercent float64) (discount, discounted float64) {
	discounted = Round2(price * (1 - discountPercent/100))
	discount = Round2(price - discounted)
	return discount, discounted
}

// InclusiveTax splits a tax-inclusive price into base and tax at the given rate.
func InclusiveTax(price, rate float64) (base, tax float64) {
	base = Round2(price / (1 + rate/100))
	tax = Round2(price - base)
	return base, tax
}

// ExclusiveTax computes the tax on a pre-tax base and the resulting total.
func ExclusiveTax(base, rate float64) (tax, total float64) {
	tax = Round2(base * rate / 100)
	total = Round2(base + tax)
	return tax, total
}

// LineItemInput is one invoice or quotation line before computation.
type LineItemInput struct {
	Price           float64
	DiscountPercent float64
	TaxPercent      float64
	Mode            TaxMode
}

// LineItemResult carries the derived figures of a line.
type LineItemResult struct {
	Discount  float64
	Base      float64
	TaxAmount float64
	Amount    float64
}

// ComputeLineItem applies discount then the selected tax formula. The
// discount always hits the pre-tax price first.
func ComputeLineItem(in LineItemInput) (LineItemResult, error) {
	if in.Price < 0 {
		return LineItemResult{}, &ComputationError{Field: "price", Value: in.Price}
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return LineItemResult{}, &ComputationError{Field: "discountPercent", Value: in.DiscountPercent}
	}
	if in.TaxPercent < 0 {
		return LineItemResult{}, &ComputationError{Field: "taxPercent", Value: in.TaxPercent}
	}

	discount, discounted := ApplyDiscount(in.Price, in.DiscountPercent)

	var res LineItemResult
	res.Discount = discount
	switch in.Mode {
	case TaxInclusive:
		res.Base, res.TaxAmount = InclusiveTax(discounted, in.TaxPercent)
		res.Amount = discounted
	case TaxExclusive:
		res.Base = discounted
		res.TaxAmount, res.Amount = ExclusiveTax(discounted, in.TaxPercent)
	default:
		return LineItemResult{}, &ComputationError{Field: "taxMode", Value: 0}
	}
	return res, nil
}

// MarginAmount derives the absolute margin from the authoritative percent.
// Callers must never trust a stored margin amount; this is the only source.
func MarginAmount(marginPercent, tierTotal float64) float64 {
	return Round2(marginPercent * tierTotal / 100)
}

// TierInput is the pricing summary input for one accommodation tier.
type TierInput struct {
	TierTotal     float64
	MarginPercent float64
	Discount      float64
	GSTOn         GSTMode
	TaxPercent    float64
	Received      float64
}

// TierResult is the fully derived payable summary for one tier.
type TierResult struct {
	MarginAmount float64
	Payable      float64
	TaxAmount    float64
	GrandTotal   float64
	Balance      float64
}

// SummarizeTier computes payable = tierTotal + margin - discount, applies
// GST per mode, then the outstanding balance. Balance may be negative
// (overpayment) and is reported as-is.
func SummarizeTier(in TierInput) (TierResult, error) {
	if in.TierTotal < 0 {
		return TierResult{}, &ComputationError{Field: "tierTotal", Value: in.TierTotal}
	}
	if in.MarginPercent < 0 {
		return TierResult{}, &ComputationError{Field: "marginPercent", Value: in.MarginPercent}
	}
	if in.Discount < 0 {
		return TierResult{}, &ComputationError{Field: "discount", Value: in.Discount}
	}
	if in.TaxPercent < 0 {
		return TierResult{}, &ComputationError{Field: "taxPercent", Value: in.TaxPercent}
	}

	var res TierResult
	res.MarginAmount = MarginAmount(in.MarginPercent, in.TierTotal)
	res.Payable = Round2(in.TierTotal + res.MarginAmount - in.Discount)

	switch in.GSTOn {
	case GSTFull:
		res.TaxAmount, _ = ExclusiveTax(res.Payable, in.TaxPercent)
	case GSTMargin:
		res.TaxAmount, _ = ExclusiveTax(res.MarginAmount, in.TaxPercent)
	case GSTNone:
		res.TaxAmount = 0
	default:
		return TierResult{}, &ComputationError{Field: "gstOn", Value: 0}
	}

	res.GrandTotal = Round2(res.Payable + res.TaxAmount)
	res.Balance = Round2(res.GrandTotal - in.Received)
	return res, nil
}
