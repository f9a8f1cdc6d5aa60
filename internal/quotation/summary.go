package quotation

import (
	"fmt"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

// RecomputeSummary re-derives the three tier summaries from the current
// accommodation aggregates and transport total. Margin amounts come from
// the authoritative percent on every call; a stored amount is never
// trusted. The summary's own inputs (percent, discount, gst mode, tax rate,
// received) are preserved.
func RecomputeSummary(d *Draft) error {
	if d.Pricing == nil {
		return nil
	}

	transportTotal := 0.0
	if d.Transport != nil {
		transportTotal = d.Transport.TotalCost
	}

	for _, tier := range Tiers {
		sum := d.Pricing.TierSummaryFor(tier)
		sum.Tier = tier
		sum.TierTotal = pricing.Round2(TierTotal(d.Stays, tier) + transportTotal)

		res, err := pricing.SummarizeTier(pricing.TierInput{
			TierTotal:     sum.TierTotal,
			MarginPercent: sum.MarginPercent,
			Discount:      sum.Discount,
			GSTOn:         d.Pricing.GSTOn,
			TaxPercent:    d.Pricing.TaxPercent,
			Received:      d.Pricing.Received,
		})
		if err != nil {
			return fmt.Errorf("tier %s: %w", tier, err)
		}
		sum.MarginAmount = res.MarginAmount
		sum.Payable = res.Payable
		sum.TaxAmount = res.TaxAmount
		sum.GrandTotal = res.GrandTotal
		sum.Balance = res.Balance
	}
	return nil
}
