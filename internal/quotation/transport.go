package quotation

import (
	"github.com/tripdesk/tripdesk/internal/pricing"
)

// ComputeTransportTotal derives the vehicle cost for the draft. The per-day
// basis charges rate × days; the per-km basis charges rate × distance, with
// the distance doubled on a round trip. Driver allowance and toll/parking
// ride on top of either basis.
func ComputeTransportTotal(t *TransportPlan) (float64, error) {
	if t.Days < 0 {
		return 0, &pricing.ComputationError{Field: "days", Value: float64(t.Days)}
	}
	if t.Rate < 0 {
		return 0, &pricing.ComputationError{Field: "rate", Value: t.Rate}
	}
	if t.DistanceKM < 0 {
		return 0, &pricing.ComputationError{Field: "distance_km", Value: t.DistanceKM}
	}
	if t.DriverAllowance < 0 {
		return 0, &pricing.ComputationError{Field: "driver_allowance", Value: t.DriverAllowance}
	}
	if t.TollParking < 0 {
		return 0, &pricing.ComputationError{Field: "toll_parking", Value: t.TollParking}
	}

	var base float64
	switch t.Basis {
	case BasisPerKM:
		distance := t.DistanceKM
		if t.TripMode == TripRoundTrip {
			distance *= 2
		}
		base = t.Rate * distance
	case BasisPerDay:
		base = t.Rate * float64(t.Days)
	default:
		return 0, &ValidationError{Field: "basis", Reason: "cost basis must be per_day or per_km"}
	}

	return pricing.Round2(base + t.DriverAllowance + t.TollParking), nil
}
