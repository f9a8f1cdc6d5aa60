// Package masterdata holds the back-office CRUD records the wizard looks
// up: hotels for step 4 and vendors for step 7.
package masterdata

import "time"

// Hotel is a bookable property offered within accommodation plans.
type Hotel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Category  string    `json:"category"`
	MealPlans string    `json:"meal_plans,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VendorKind separates hotel vendors from vehicle vendors.
type VendorKind string

const (
	VendorHotel   VendorKind = "hotel"
	VendorVehicle VendorKind = "vehicle"
)

// Vendor is a supplier assignable at finalization.
type Vendor struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Kind      VendorKind `json:"kind"`
	City      string     `json:"city,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BankRef   string     `json:"bank_ref,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
