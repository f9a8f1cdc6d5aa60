package quotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

func summaryFixture() *Draft {
	d := &Draft{
		Stays: []StayLocation{{City: "Gangtok", Nights: 4}},
		Pricing: &PricingSummary{
			GSTOn:      pricing.GSTFull,
			TaxPercent: 18,
		},
	}
	d.Stays[0].Plans.Standard.TotalCost = 50000
	d.Stays[0].Plans.Deluxe.TotalCost = 72000
	d.Pricing.Standard = TierSummary{Tier: TierStandard, MarginPercent: 10, Discount: 2000}
	d.Pricing.Deluxe = TierSummary{Tier: TierDeluxe, MarginPercent: 10}
	d.Pricing.Superior = TierSummary{Tier: TierSuperior}
	return d
}

func TestRecomputeSummary(t *testing.T) {
	d := summaryFixture()
	require.NoError(t, RecomputeSummary(d))

	std := d.Pricing.Standard
	assert.Equal(t, 50000.0, std.TierTotal)
	assert.Equal(t, 5000.0, std.MarginAmount)
	assert.Equal(t, 53000.0, std.Payable)
	assert.Equal(t, 9540.0, std.TaxAmount)
	assert.Equal(t, 62540.0, std.GrandTotal)
	assert.Equal(t, 62540.0, std.Balance)

	// Tiers are independent.
	assert.Equal(t, 72000.0, d.Pricing.Deluxe.TierTotal)
	assert.Equal(t, 7200.0, d.Pricing.Deluxe.MarginAmount)
	assert.Equal(t, 0.0, d.Pricing.Superior.TierTotal)
}

func TestRecomputeSummaryIncludesTransport(t *testing.T) {
	d := summaryFixture()
	d.Transport = &TransportPlan{TotalCost: 10000}
	require.NoError(t, RecomputeSummary(d))

	assert.Equal(t, 60000.0, d.Pricing.Standard.TierTotal)
	assert.Equal(t, 82000.0, d.Pricing.Deluxe.TierTotal)
}

func TestRecomputeSummaryRederivesMarginAmount(t *testing.T) {
	d := summaryFixture()
	// A stale stored amount must never survive a recompute.
	d.Pricing.Standard.MarginAmount = 99999
	require.NoError(t, RecomputeSummary(d))
	assert.Equal(t, 5000.0, d.Pricing.Standard.MarginAmount)
}

func TestRecomputeSummaryPreservesInputs(t *testing.T) {
	d := summaryFixture()
	require.NoError(t, RecomputeSummary(d))

	assert.Equal(t, 10.0, d.Pricing.Standard.MarginPercent)
	assert.Equal(t, 2000.0, d.Pricing.Standard.Discount)
	assert.Equal(t, pricing.GSTFull, d.Pricing.GSTOn)
	assert.Equal(t, 18.0, d.Pricing.TaxPercent)
}

func TestRecomputeSummaryBalanceNotClamped(t *testing.T) {
	d := summaryFixture()
	d.Pricing.Received = 70000
	require.NoError(t, RecomputeSummary(d))
	assert.Equal(t, -7460.0, d.Pricing.Standard.Balance)
}

func TestRecomputeSummaryNoPricingIsNoOp(t *testing.T) {
	d := &Draft{Stays: []StayLocation{{City: "Gangtok", Nights: 1}}}
	require.NoError(t, RecomputeSummary(d))
	assert.Nil(t, d.Pricing)
}
