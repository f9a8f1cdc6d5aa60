// Package triprequest exposes the upstream trip-request records that seed a
// quotation draft. The engine only reads them; ownership stays with the
// lead-intake side of the business.
package triprequest

import "time"

// TripRequest is the incoming enquiry a quotation is drafted against.
type TripRequest struct {
	ID            int64     `json:"id"`
	ClientName    string    `json:"client_name"`
	Sector        string    `json:"sector"`
	TripType      string    `json:"trip_type"`
	TargetNights  int       `json:"target_nights"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	ArrivalPoint  string    `json:"arrival_point"`
	FirstDriveTo  string    `json:"first_drive_to"`
	DistanceKM    float64   `json:"distance_km"`
	DriveDuration string    `json:"drive_duration"`
	TravelDate    time.Time `json:"travel_date"`
	CreatedAt     time.Time `json:"created_at"`
}
