package quotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

func TestAllocateNights(t *testing.T) {
	alloc, err := AllocateNights([]CityNights{
		{City: "Borong", Nights: 3},
		{City: "Damthang", Nights: 2},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, alloc.TotalNights)
	assert.Equal(t, 6, alloc.TotalDays)
	assert.Nil(t, alloc.Mismatch)

	require.Len(t, alloc.Stays, 2)
	assert.Equal(t, 0, alloc.Stays[0].DayOffset)
	assert.Equal(t, 3, alloc.Stays[1].DayOffset)
}

func TestAllocateNightsDaysAlwaysNightsPlusOne(t *testing.T) {
	inputs := [][]CityNights{
		{{City: "Gangtok", Nights: 1}},
		{{City: "Gangtok", Nights: 2}, {City: "Pelling", Nights: 3}},
		{{City: "A", Nights: 4}, {City: "B", Nights: 1}, {City: "C", Nights: 7}},
	}
	for _, cities := range inputs {
		alloc, err := AllocateNights(cities, nil)
		require.NoError(t, err)
		assert.Equal(t, alloc.TotalNights+1, alloc.TotalDays)
	}
}

func TestAllocateNightsMismatch(t *testing.T) {
	target := 5
	alloc, err := AllocateNights([]CityNights{
		{City: "Borong", Nights: 2},
		{City: "Damthang", Nights: 2},
	}, &target)
	require.NoError(t, err)

	require.NotNil(t, alloc.Mismatch)
	assert.Equal(t, 4, alloc.Mismatch.Allocated)
	assert.Equal(t, 5, alloc.Mismatch.Required)
	// The allocation itself still stands.
	assert.Equal(t, 4, alloc.TotalNights)
	assert.Equal(t, 5, alloc.TotalDays)
}

func TestAllocateNightsRejectsEmptyList(t *testing.T) {
	_, err := AllocateNights(nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cities", verr.Field)
}

func TestAllocateNightsRejectsZeroNights(t *testing.T) {
	_, err := AllocateNights([]CityNights{{City: "Gangtok", Nights: 0}}, nil)
	var cerr *pricing.ComputationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "nights", cerr.Field)
}

func TestReorder(t *testing.T) {
	stays := []StayLocation{
		{City: "A", Nights: 2, DayOffset: 0},
		{City: "B", Nights: 3, DayOffset: 2},
		{City: "C", Nights: 1, DayOffset: 5},
	}

	out, err := Reorder(stays, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, "C", out[0].City)
	assert.Equal(t, "A", out[1].City)
	assert.Equal(t, "B", out[2].City)

	assert.Equal(t, 0, out[0].DayOffset)
	assert.Equal(t, 1, out[1].DayOffset)
	assert.Equal(t, 3, out[2].DayOffset)
	assert.Equal(t, TotalNights(stays), TotalNights(out))

	// The input slice is untouched.
	assert.Equal(t, "A", stays[0].City)
}

func TestReorderOutOfRange(t *testing.T) {
	stays := []StayLocation{{City: "A", Nights: 2}}
	_, err := Reorder(stays, 0, 3)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)
}

func TestRemoveStay(t *testing.T) {
	stays := []StayLocation{
		{City: "A", Nights: 2, DayOffset: 0},
		{City: "B", Nights: 3, DayOffset: 2},
		{City: "C", Nights: 1, DayOffset: 5},
	}

	out, freed, err := RemoveStay(stays, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, freed)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].City)
	assert.Equal(t, "C", out[1].City)
	assert.Equal(t, 0, out[0].DayOffset)
	assert.Equal(t, 2, out[1].DayOffset)
	assert.Equal(t, 3, TotalNights(out))
}

func TestRemoveStayOutOfRange(t *testing.T) {
	_, _, err := RemoveStay([]StayLocation{{City: "A", Nights: 1}}, 5)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "index", verr.Field)
}
