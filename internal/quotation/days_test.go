package quotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDaysFromScratch(t *testing.T) {
	arrival := &Arrival{Point: "Bagdogra", DriveTo: "Gangtok", DistanceKM: 124, Duration: "4h"}
	days := BuildDays(3, nil, arrival)

	require.Len(t, days, 3)
	assert.Equal(t, "Day 1", days[0].Title)
	assert.Equal(t, "Day 3", days[2].Title)

	require.NotNil(t, days[0].Travel)
	assert.Equal(t, "Bagdogra", days[0].Travel.Point)
	assert.Nil(t, days[1].Travel)
	assert.Nil(t, days[2].Travel)
}

func TestBuildDaysPreservesContentOnGrow(t *testing.T) {
	existing := []ItineraryDay{
		{Number: 1, Title: "Arrival day", Details: "drive up", AboutCity: "Gangtok"},
		{Number: 2, Title: "Local tour", Details: "monasteries", AboutCity: "Gangtok"},
	}
	days := BuildDays(4, existing, nil)

	require.Len(t, days, 4)
	assert.Equal(t, "Arrival day", days[0].Title)
	assert.Equal(t, "monasteries", days[1].Details)
	assert.Equal(t, "Day 3", days[2].Title)
	assert.Empty(t, days[2].Details)
	assert.Equal(t, "Day 4", days[3].Title)
}

func TestBuildDaysDropsTrailingOnShrink(t *testing.T) {
	existing := []ItineraryDay{
		{Number: 1, Details: "one"},
		{Number: 2, Details: "two"},
		{Number: 3, Details: "three"},
		{Number: 4, Details: "four"},
	}
	days := BuildDays(2, existing, nil)

	require.Len(t, days, 2)
	assert.Equal(t, "one", days[0].Details)
	assert.Equal(t, "two", days[1].Details)
}

func TestBuildDaysClearsTravelOutsideDayOne(t *testing.T) {
	leg := &Arrival{Point: "NJP"}
	existing := []ItineraryDay{
		{Number: 2, Details: "stray", Travel: leg},
	}
	days := BuildDays(3, existing, nil)

	require.Len(t, days, 3)
	assert.Nil(t, days[1].Travel)
}

func TestBuildDaysKeepsAuthoredTravel(t *testing.T) {
	authored := &Arrival{Point: "Pakyong", DriveTo: "Gangtok"}
	existing := []ItineraryDay{{Number: 1, Details: "x", Travel: authored}}
	fallback := &Arrival{Point: "Bagdogra"}

	days := BuildDays(2, existing, fallback)
	require.NotNil(t, days[0].Travel)
	assert.Equal(t, "Pakyong", days[0].Travel.Point)
}

func TestValidateDays(t *testing.T) {
	ok := []ItineraryDay{
		{Number: 1, Details: "drive", AboutCity: "Gangtok"},
		{Number: 2, Details: "tour", AboutCity: "Gangtok"},
	}
	require.NoError(t, ValidateDays(ok))

	missingDetails := []ItineraryDay{{Number: 1, AboutCity: "Gangtok"}}
	var verr *ValidationError
	require.ErrorAs(t, ValidateDays(missingDetails), &verr)
	assert.Equal(t, "days[1].details", verr.Field)

	missingAbout := []ItineraryDay{{Number: 1, Details: "drive"}, {Number: 2, Details: "tour"}}
	require.ErrorAs(t, ValidateDays(missingAbout), &verr)
	assert.Equal(t, "days[1].about_city", verr.Field)
}
