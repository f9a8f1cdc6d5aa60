package quotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

func TestComputePlanTotal(t *testing.T) {
	plan := &AccommodationPlan{
		Nights:            3,
		Rooms:             2,
		CostPerNight:      2500,
		AdultMattressQty:  1,
		AdultMattressCost: 800,
		ChildMattressQty:  2,
		ChildMattressCost: 500,
	}
	total, err := ComputePlanTotal(plan)
	require.NoError(t, err)
	// 2500*2*3 + 800 + 1000
	assert.Equal(t, 16800.0, total)
}

func TestComputePlanTotalWithoutBed(t *testing.T) {
	plan := &AccommodationPlan{
		Nights:          2,
		Rooms:           1,
		CostPerNight:    1800,
		WithoutMattress: true,
		WithoutBedCost:  600,
	}
	total, err := ComputePlanTotal(plan)
	require.NoError(t, err)
	assert.Equal(t, 4200.0, total)

	// The surcharge only applies when the flag is set.
	plan.WithoutMattress = false
	total, err = ComputePlanTotal(plan)
	require.NoError(t, err)
	assert.Equal(t, 3600.0, total)
}

func TestComputePlanTotalIdempotent(t *testing.T) {
	plan := &AccommodationPlan{Nights: 4, Rooms: 3, CostPerNight: 3333.33}
	first, err := ComputePlanTotal(plan)
	require.NoError(t, err)
	second, err := ComputePlanTotal(plan)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputePlanTotalRejectsNegatives(t *testing.T) {
	cases := []struct {
		field string
		plan  AccommodationPlan
	}{
		{"nights", AccommodationPlan{Nights: -1}},
		{"rooms", AccommodationPlan{Rooms: -1}},
		{"cost_per_night", AccommodationPlan{CostPerNight: -10}},
		{"adult_mattress_qty", AccommodationPlan{AdultMattressQty: -1}},
		{"adult_mattress_cost", AccommodationPlan{AdultMattressCost: -5}},
		{"child_mattress_qty", AccommodationPlan{ChildMattressQty: -1}},
		{"child_mattress_cost", AccommodationPlan{ChildMattressCost: -5}},
		{"without_bed_cost", AccommodationPlan{WithoutBedCost: -5}},
	}
	for _, tc := range cases {
		plan := tc.plan
		_, err := ComputePlanTotal(&plan)
		var cerr *pricing.ComputationError
		require.True(t, errors.As(err, &cerr), "field %s", tc.field)
		assert.Equal(t, tc.field, cerr.Field)
	}
}

func TestRecomputePlansNamesFailingCityAndTier(t *testing.T) {
	stays := []StayLocation{
		{City: "Gangtok", Nights: 2},
		{City: "Pelling", Nights: 1},
	}
	stays[1].Plans.Deluxe.CostPerNight = -100

	err := RecomputePlans(stays)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pelling")
	assert.Contains(t, err.Error(), "deluxe")
}

func TestTierTotalAggregatesAcrossCities(t *testing.T) {
	stays := []StayLocation{
		{City: "Gangtok", Nights: 2},
		{City: "Pelling", Nights: 1},
	}
	stays[0].Plans.Standard = AccommodationPlan{Nights: 2, Rooms: 1, CostPerNight: 2000}
	stays[0].Plans.Deluxe = AccommodationPlan{Nights: 2, Rooms: 1, CostPerNight: 3500}
	stays[1].Plans.Standard = AccommodationPlan{Nights: 1, Rooms: 1, CostPerNight: 1500}
	stays[1].Plans.Deluxe = AccommodationPlan{Nights: 1, Rooms: 1, CostPerNight: 2800}

	require.NoError(t, RecomputePlans(stays))

	assert.Equal(t, 5500.0, TierTotal(stays, TierStandard))
	assert.Equal(t, 9800.0, TierTotal(stays, TierDeluxe))
	assert.Equal(t, 0.0, TierTotal(stays, TierSuperior))
}

func TestComputeTransportTotalPerDay(t *testing.T) {
	total, err := ComputeTransportTotal(&TransportPlan{
		Basis:           BasisPerDay,
		Days:            6,
		Rate:            3500,
		DriverAllowance: 1200,
		TollParking:     300,
	})
	require.NoError(t, err)
	assert.Equal(t, 22500.0, total)
}

func TestComputeTransportTotalPerKM(t *testing.T) {
	oneWay, err := ComputeTransportTotal(&TransportPlan{
		Basis:      BasisPerKM,
		TripMode:   TripOneWay,
		Rate:       18,
		DistanceKM: 124,
	})
	require.NoError(t, err)
	assert.Equal(t, 2232.0, oneWay)

	roundTrip, err := ComputeTransportTotal(&TransportPlan{
		Basis:      BasisPerKM,
		TripMode:   TripRoundTrip,
		Rate:       18,
		DistanceKM: 124,
	})
	require.NoError(t, err)
	assert.Equal(t, 4464.0, roundTrip)
}

func TestComputeTransportTotalRejectsUnknownBasis(t *testing.T) {
	_, err := ComputeTransportTotal(&TransportPlan{Basis: "per_hour", Rate: 10})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "basis", verr.Field)
}

func TestComputeTransportTotalRejectsNegatives(t *testing.T) {
	cases := []struct {
		field string
		plan  TransportPlan
	}{
		{"days", TransportPlan{Basis: BasisPerDay, Days: -1}},
		{"rate", TransportPlan{Basis: BasisPerDay, Rate: -1}},
		{"distance_km", TransportPlan{Basis: BasisPerKM, DistanceKM: -1}},
		{"driver_allowance", TransportPlan{Basis: BasisPerDay, DriverAllowance: -1}},
		{"toll_parking", TransportPlan{Basis: BasisPerDay, TollParking: -1}},
	}
	for _, tc := range cases {
		plan := tc.plan
		_, err := ComputeTransportTotal(&plan)
		var cerr *pricing.ComputationError
		require.True(t, errors.As(err, &cerr), "field %s", tc.field)
		assert.Equal(t, tc.field, cerr.Field)
	}
}
