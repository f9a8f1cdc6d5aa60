package quotation

import (
	"fmt"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

// ComputePlanTotal derives the total cost of one accommodation plan:
// room cost plus mattress surcharges. Absent quantities count as zero;
// negative inputs are rejected before anything is written.
func ComputePlanTotal(p *AccommodationPlan) (float64, error) {
	if p.Nights < 0 {
		return 0, &pricing.ComputationError{Field: "nights", Value: float64(p.Nights)}
	}
	if p.Rooms < 0 {
		return 0, &pricing.ComputationError{Field: "rooms", Value: float64(p.Rooms)}
	}
	if p.CostPerNight < 0 {
		return 0, &pricing.ComputationError{Field: "cost_per_night", Value: p.CostPerNight}
	}
	if p.AdultMattressQty < 0 {
		return 0, &pricing.ComputationError{Field: "adult_mattress_qty", Value: float64(p.AdultMattressQty)}
	}
	if p.AdultMattressCost < 0 {
		return 0, &pricing.ComputationError{Field: "adult_mattress_cost", Value: p.AdultMattressCost}
	}
	if p.ChildMattressQty < 0 {
		return 0, &pricing.ComputationError{Field: "child_mattress_qty", Value: float64(p.ChildMattressQty)}
	}
	if p.ChildMattressCost < 0 {
		return 0, &pricing.ComputationError{Field: "child_mattress_cost", Value: p.ChildMattressCost}
	}
	if p.WithoutBedCost < 0 {
		return 0, &pricing.ComputationError{Field: "without_bed_cost", Value: p.WithoutBedCost}
	}

	roomCost := p.CostPerNight * float64(p.Rooms) * float64(p.Nights)
	extraCost := float64(p.AdultMattressQty)*p.AdultMattressCost +
		float64(p.ChildMattressQty)*p.ChildMattressCost
	if p.WithoutMattress {
		extraCost += p.WithoutBedCost
	}
	return pricing.Round2(roomCost + extraCost), nil
}

// RecomputePlans refreshes the derived totals of every (city, tier) plan.
// Tiers are independent: a failure names the exact city and tier.
func RecomputePlans(stays []StayLocation) error {
	for i := range stays {
		for _, tier := range Tiers {
			plan := stays[i].Plans.Plan(tier)
			total, err := ComputePlanTotal(plan)
			if err != nil {
				return fmt.Errorf("stay %q tier %s: %w", stays[i].City, tier, err)
			}
			plan.TotalCost = total
		}
	}
	return nil
}

// TierTotal aggregates one tier's plan totals across all cities.
func TierTotal(stays []StayLocation, tier Tier) float64 {
	total := 0.0
	for i := range stays {
		total += stays[i].Plans.Plan(tier).TotalCost
	}
	return pricing.Round2(total)
}
