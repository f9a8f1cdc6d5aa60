package quotation

import (
	"github.com/tripdesk/tripdesk/internal/pricing"
)

// CityNights is one (city, nights) pair of the itinerary allocation input.
type CityNights struct {
	City   string `json:"city" validate:"required"`
	Nights int    `json:"nights" validate:"required,gte=1"`
}

// Allocation is the result of distributing nights across the city list.
type Allocation struct {
	Stays       []StayLocation
	TotalNights int
	TotalDays   int
	Mismatch    *NightsMismatch
}

// AllocateNights distributes nights over the ordered city list and derives
// day offsets and the day count (nights + 1). A target mismatch is
// advisory: the allocation is still accepted, the caller must surface it.
func AllocateNights(items []CityNights, targetNights *int) (Allocation, error) {
	if len(items) == 0 {
		return Allocation{}, &ValidationError{Field: "cities", Reason: "at least one stay location is required"}
	}

	stays := make([]StayLocation, 0, len(items))
	offset := 0
	for _, it := range items {
		if it.City == "" {
			return Allocation{}, &ValidationError{Field: "city", Reason: "city name must not be empty"}
		}
		if it.Nights < 1 {
			return Allocation{}, &pricing.ComputationError{Field: "nights", Value: float64(it.Nights)}
		}
		stays = append(stays, StayLocation{
			City:      it.City,
			Nights:    it.Nights,
			DayOffset: offset,
		})
		offset += it.Nights
	}

	alloc := Allocation{
		Stays:       stays,
		TotalNights: offset,
		TotalDays:   offset + 1,
	}
	if targetNights != nil && *targetNights != alloc.TotalNights {
		alloc.Mismatch = &NightsMismatch{Allocated: alloc.TotalNights, Required: *targetNights}
	}
	return alloc, nil
}

// Reorder moves the stay at index from to index to and recomputes the day
// offsets. It is a pure permutation: allocated nights are untouched.
func Reorder(stays []StayLocation, from, to int) ([]StayLocation, error) {
	if from < 0 || from >= len(stays) {
		return nil, &ValidationError{Field: "from", Reason: "index out of range"}
	}
	if to < 0 || to >= len(stays) {
		return nil, &ValidationError{Field: "to", Reason: "index out of range"}
	}
	out := make([]StayLocation, len(stays))
	copy(out, stays)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out, StayLocation{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	reindex(out)
	return out, nil
}

// RemoveStay drops the stay at index and returns its nights to the
// unallocated pool. Remaining allocations keep their night counts; only the
// offsets shift.
func RemoveStay(stays []StayLocation, index int) ([]StayLocation, int, error) {
	if index < 0 || index >= len(stays) {
		return nil, 0, &ValidationError{Field: "index", Reason: "index out of range"}
	}
	freed := stays[index].Nights
	out := make([]StayLocation, 0, len(stays)-1)
	out = append(out, stays[:index]...)
	out = append(out, stays[index+1:]...)
	reindex(out)
	return out, freed, nil
}

// TotalNights sums the allocated nights of the list.
func TotalNights(stays []StayLocation) int {
	total := 0
	for _, s := range stays {
		total += s.Nights
	}
	return total
}

func reindex(stays []StayLocation) {
	offset := 0
	for i := range stays {
		stays[i].DayOffset = offset
		offset += stays[i].Nights
	}
}
