package quotation

import "fmt"

// BuildDays expands an allocation into exactly totalDays content records.
// Previously authored content is preserved by day number; new trailing days
// start empty; trailing days beyond totalDays are dropped. Day 1 is the
// only day carrying the travel leg, seeded from arrival data when present.
func BuildDays(totalDays int, existing []ItineraryDay, arrival *Arrival) []ItineraryDay {
	if totalDays < 1 {
		return nil
	}

	byNumber := make(map[int]ItineraryDay, len(existing))
	for _, d := range existing {
		byNumber[d.Number] = d
	}

	days := make([]ItineraryDay, 0, totalDays)
	for n := 1; n <= totalDays; n++ {
		day, ok := byNumber[n]
		if !ok {
			day = ItineraryDay{Number: n, Title: fmt.Sprintf("Day %d", n)}
		}
		day.Number = n
		if day.Title == "" {
			day.Title = fmt.Sprintf("Day %d", n)
		}
		if n == 1 {
			if day.Travel == nil && arrival != nil {
				leg := *arrival
				day.Travel = &leg
			}
		} else {
			day.Travel = nil
		}
		days = append(days, day)
	}
	return days
}

// ValidateDays checks that every day has its required authored content.
// The image is optional.
func ValidateDays(days []ItineraryDay) error {
	for _, d := range days {
		if d.Details == "" {
			return &ValidationError{Field: fmt.Sprintf("days[%d].details", d.Number), Reason: "itinerary details are required"}
		}
		if d.AboutCity == "" {
			return &ValidationError{Field: fmt.Sprintf("days[%d].about_city", d.Number), Reason: "about-city text is required"}
		}
	}
	return nil
}
