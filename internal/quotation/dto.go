package quotation

import (
	"encoding/json"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

// StepPayload is the tagged variant every step handler accepts: a raw JSON
// document, optionally accompanied by one uploaded attachment (a day
// image). The merge routine treats both shapes uniformly instead of
// branching on content type.
type StepPayload struct {
	Data       json.RawMessage
	Attachment *Attachment
}

// Attachment is an uploaded file travelling with a step submission.
type Attachment struct {
	Name    string
	Content []byte
}

// CreateDraftRequest is the step-1 payload. Submitting it creates the draft.
type CreateDraftRequest struct {
	Client        ClientInfo `json:"client" validate:"required"`
	TripRequestID *int64     `json:"trip_request_id,omitempty"`
}

// ItineraryRequest is the step-2 payload.
type ItineraryRequest struct {
	Cities []CityNights `json:"cities" validate:"required,min=1,dive"`
}

// DayContentRequest is one day's authored content within step 3.
type DayContentRequest struct {
	Number    int      `json:"number" validate:"required,gte=1"`
	Title     string   `json:"title,omitempty"`
	Details   string   `json:"details" validate:"required"`
	AboutCity string   `json:"about_city" validate:"required"`
	ImageRef  string   `json:"image_ref,omitempty"`
	Travel    *Arrival `json:"travel,omitempty"`
	// AttachImage marks the day the submission's attachment belongs to.
	AttachImage bool `json:"attach_image,omitempty"`
}

// DaysRequest is the step-3 payload.
type DaysRequest struct {
	Days []DayContentRequest `json:"days" validate:"required,min=1,dive"`
}

// AccommodationRequest is the step-4 payload: plans keyed by itinerary stop
// and tier.
type AccommodationRequest struct {
	Stays []StayPlansRequest `json:"stays" validate:"required,min=1,dive"`
}

// StayPlansRequest carries the three tier plans of one itinerary stop.
// StayIndex pins the entry to a position in the stay list; when omitted the
// entry is matched to the next unassigned stop with the same city, so
// itineraries that revisit a city address each visit in order.
type StayPlansRequest struct {
	City      string            `json:"city" validate:"required"`
	StayIndex *int              `json:"stay_index,omitempty"`
	Standard  AccommodationPlan `json:"standard"`
	Deluxe    AccommodationPlan `json:"deluxe"`
	Superior  AccommodationPlan `json:"superior"`
}

// TransportRequest is the step-5 payload.
type TransportRequest struct {
	Transport TransportPlan `json:"transport" validate:"required"`
}

// PricingRequest is the step-6 payload. Margin percents are authoritative;
// amounts are derived server-side.
type PricingRequest struct {
	GSTOn      pricing.GSTMode `json:"gst_on" validate:"required,oneof=Full Margin None"`
	TaxPercent float64         `json:"tax_percent" validate:"gte=0"`
	Received   float64         `json:"received" validate:"gte=0"`
	Standard   TierPricingReq  `json:"standard"`
	Deluxe     TierPricingReq  `json:"deluxe"`
	Superior   TierPricingReq  `json:"superior"`
}

// TierPricingReq is the per-tier step-6 input.
type TierPricingReq struct {
	MarginPercent float64 `json:"margin_percent" validate:"gte=0"`
	Discount      float64 `json:"discount" validate:"gte=0"`
}

// FinalizeRequest is the step-7 payload.
type FinalizeRequest struct {
	Tier          Tier              `json:"tier" validate:"required,oneof=standard deluxe superior"`
	VendorMode    VendorMode        `json:"vendor_mode" validate:"required,oneof=SINGLE MULTIPLE"`
	HotelVendor   string            `json:"hotel_vendor,omitempty"`
	CityVendors   map[string]string `json:"city_vendors,omitempty"`
	VehicleVendor string            `json:"vehicle_vendor" validate:"required"`
	BankRef       string            `json:"bank_ref,omitempty"`
}

// ListDraftsRequest filters the draft listing.
type ListDraftsRequest struct {
	Status *Status `json:"status,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}

// StepResult is what every step handler returns: the full updated draft
// plus any advisory warnings raised along the way.
type StepResult struct {
	Draft    *Draft
	Warnings []string
}
