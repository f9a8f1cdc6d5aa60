package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
)

func TestComputeLineItemExclusive(t *testing.T) {
	res, err := ComputeLineItem(LineItemInput{
		Price:           1000,
		DiscountPercent: 10,
		TaxPercent:      18,
		Mode:            TaxExclusive,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Discount)
	assert.Equal(t, 900.0, res.Base)
	assert.Equal(t, 162.0, res.TaxAmount)
	assert.Equal(t, 1062.0, res.Amount)
}

func TestComputeLineItemInclusive(t *testing.T) {
	res, err := ComputeLineItem(LineItemInput{
		Price:      1050,
		TaxPercent: 5,
		Mode:       TaxInclusive,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, res.Base)
	assert.Equal(t, 50.0, res.TaxAmount)
	assert.Equal(t, 1050.0, res.Amount)
}

func TestTaxFormulasRoundTrip(t *testing.T) {
	prices := []float64{1050, 999.99, 1, 123456.78}
	for _, p := range prices {
		base, tax := InclusiveTax(p, 5)
		assert.InDelta(t, p, base+tax, 0.01, "inclusive round trip for %.2f", p)

		taxOut, total := ExclusiveTax(p, 18)
		assert.InDelta(t, total, p+taxOut, 0.01, "exclusive round trip for %.2f", p)
	}
}

func TestComputeLineItemIdempotent(t *testing.T) {
	in := LineItemInput{Price: 4999.37, DiscountPercent: 7.5, TaxPercent: 18, Mode: TaxExclusive}
	first, err := ComputeLineItem(in)
	require.NoError(t, err)
	second, err := ComputeLineItem(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeLineItemRejectsNegatives(t *testing.T) {
	cases := []struct {
		name  string
		in    LineItemInput
		field string
	}{
		{"negative price", LineItemInput{Price: -1, Mode: TaxExclusive}, "price"},
		{"negative discount", LineItemInput{Price: 10, DiscountPercent: -5, Mode: TaxExclusive}, "discountPercent"},
		{"discount above 100", LineItemInput{Price: 10, DiscountPercent: 101, Mode: TaxExclusive}, "discountPercent"},
		{"negative tax", LineItemInput{Price: 10, TaxPercent: -1, Mode: TaxExclusive}, "taxPercent"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeLineItem(tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, httpx.ErrComputation))
			var compErr *ComputationError
			require.True(t, errors.As(err, &compErr))
			assert.Equal(t, tc.field, compErr.Field)
		})
	}
}

func TestSummarizeTierFullGST(t *testing.T) {
	res, err := SummarizeTier(TierInput{
		TierTotal:     50000,
		MarginPercent: 10,
		Discount:      2000,
		GSTOn:         GSTFull,
		TaxPercent:    18,
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, res.MarginAmount)
	assert.Equal(t, 53000.0, res.Payable)
	assert.Equal(t, 9540.0, res.TaxAmount)
	assert.Equal(t, 62540.0, res.GrandTotal)
}

func TestSummarizeTierMarginGST(t *testing.T) {
	res, err := SummarizeTier(TierInput{
		TierTotal:     50000,
		MarginPercent: 10,
		GSTOn:         GSTMargin,
		TaxPercent:    18,
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, res.MarginAmount)
	assert.Equal(t, 55000.0, res.Payable)
	assert.Equal(t, 900.0, res.TaxAmount)
	assert.Equal(t, 55900.0, res.GrandTotal)
}

func TestSummarizeTierNoGST(t *testing.T) {
	res, err := SummarizeTier(TierInput{
		TierTotal:     20000,
		MarginPercent: 5,
		Discount:      500,
		GSTOn:         GSTNone,
		TaxPercent:    18,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TaxAmount)
	assert.Equal(t, 20500.0, res.GrandTotal)
}

func TestSummarizeTierBalanceNotClamped(t *testing.T) {
	res, err := SummarizeTier(TierInput{
		TierTotal: 10000,
		GSTOn:     GSTNone,
		Received:  12000,
	})
	require.NoError(t, err)
	assert.Equal(t, -2000.0, res.Balance)
}

func TestMarginAmountRederives(t *testing.T) {
	assert.Equal(t, 5000.0, MarginAmount(10, 50000))
	// Changing the tier total must change the derived amount; nothing stale.
	assert.Equal(t, 6000.0, MarginAmount(10, 60000))
	assert.Equal(t, 123.46, MarginAmount(10, 1234.56))
}
