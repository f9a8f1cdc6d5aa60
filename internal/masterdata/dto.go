package masterdata

// CreateHotelRequest is the payload to register a hotel.
type CreateHotelRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	City      string `json:"city" validate:"required"`
	Category  string `json:"category" validate:"required"`
	MealPlans string `json:"meal_plans"`
	Phone     string `json:"phone"`
}

// UpdateHotelRequest carries the mutable hotel fields.
type UpdateHotelRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	City      string `json:"city" validate:"required"`
	Category  string `json:"category" validate:"required"`
	MealPlans string `json:"meal_plans"`
	Phone     string `json:"phone"`
	IsActive  *bool  `json:"is_active"`
}

// ListHotelsRequest filters the hotel listing.
type ListHotelsRequest struct {
	City       string `json:"city"`
	Search     string `json:"search"`
	ActiveOnly bool   `json:"active_only"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// CreateVendorRequest is the payload to register a vendor.
type CreateVendorRequest struct {
	Name    string     `json:"name" validate:"required,min=2"`
	Kind    VendorKind `json:"kind" validate:"required,oneof=hotel vehicle"`
	City    string     `json:"city"`
	Phone   string     `json:"phone"`
	BankRef string     `json:"bank_ref"`
}

// UpdateVendorRequest carries the mutable vendor fields.
type UpdateVendorRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	BankRef  string `json:"bank_ref"`
	IsActive *bool  `json:"is_active"`
}

// ListVendorsRequest filters the vendor listing.
type ListVendorsRequest struct {
	Kind       VendorKind `json:"kind"`
	City       string     `json:"city"`
	ActiveOnly bool       `json:"active_only"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
