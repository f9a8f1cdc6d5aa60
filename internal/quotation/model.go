package quotation

import (
	"time"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

// Status tracks a draft through the wizard lifecycle.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinalized  Status = "FINALIZED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInvoiced   Status = "INVOICED"
)

// Tier is one of the three parallel accommodation grades.
type Tier string

const (
	TierStandard Tier = "standard"
	TierDeluxe   Tier = "deluxe"
	TierSuperior Tier = "superior"
)

// Tiers lists the grades in display order.
var Tiers = []Tier{TierStandard, TierDeluxe, TierSuperior}

// TripType distinguishes domestic and international packages.
type TripType string

const (
	TripDomestic      TripType = "DOMESTIC"
	TripInternational TripType = "INTERNATIONAL"
)

// VendorMode selects how hotel vendors are assigned at finalization.
type VendorMode string

const (
	VendorSingle   VendorMode = "SINGLE"
	VendorMultiple VendorMode = "MULTIPLE"
)

// Step numbers of the drafting wizard.
const (
	StepClient        = 1
	StepItinerary     = 2
	StepDays          = 3
	StepAccommodation = 4
	StepTransport     = 5
	StepPricing       = 6
	StepFinalize      = 7
)

// ClientInfo is the step-1 payload frozen onto the draft header.
type ClientInfo struct {
	Name     string   `json:"name"`
	Sector   string   `json:"sector"`
	TripType TripType `json:"trip_type"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	Adults   int      `json:"adults,omitempty"`
	Children int      `json:"children,omitempty"`
	Arrival  *Arrival `json:"arrival,omitempty"`
}

// Arrival describes the first travel leg, seeded from the trip request.
type Arrival struct {
	Point      string  `json:"point"`
	DriveTo    string  `json:"drive_to"`
	DistanceKM float64 `json:"distance_km"`
	Duration   string  `json:"duration"`
}

// TierPlans holds the three accommodation plans of one city.
type TierPlans struct {
	Standard AccommodationPlan `json:"standard"`
	Deluxe   AccommodationPlan `json:"deluxe"`
	Superior AccommodationPlan `json:"superior"`
}

// Plan returns the plan for a tier.
func (p *TierPlans) Plan(t Tier) *AccommodationPlan {
	switch t {
	case TierDeluxe:
		return &p.Deluxe
	case TierSuperior:
		return &p.Superior
	default:
		return &p.Standard
	}
}

// StayLocation is a city allocated a number of nights. Order within the
// draft is significant: it drives day numbering.
type StayLocation struct {
	City      string    `json:"city"`
	Nights    int       `json:"nights"`
	DayOffset int       `json:"day_offset"`
	Plans     TierPlans `json:"plans"`
}

// AccommodationPlan is the per-city, per-tier hotel costing. TotalCost is
// derived and recomputed on every input change.
type AccommodationPlan struct {
	HotelType         string  `json:"hotel_type,omitempty"`
	HotelName         string  `json:"hotel_name,omitempty"`
	RoomType          string  `json:"room_type,omitempty"`
	MealPlan          string  `json:"meal_plan,omitempty"`
	Nights            int     `json:"nights"`
	Rooms             int     `json:"rooms"`
	CostPerNight      float64 `json:"cost_per_night"`
	AdultMattressQty  int     `json:"adult_mattress_qty"`
	AdultMattressCost float64 `json:"adult_mattress_cost"`
	ChildMattressQty  int     `json:"child_mattress_qty"`
	ChildMattressCost float64 `json:"child_mattress_cost"`
	WithoutMattress   bool    `json:"without_mattress"`
	WithoutBedCost    float64 `json:"without_bed_cost"`
	TotalCost         float64 `json:"total_cost"`
}

// ItineraryDay is the authored content for one day of the trip. Only day 1
// carries the travel leg.
type ItineraryDay struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	Details   string   `json:"details"`
	AboutCity string   `json:"about_city"`
	ImageRef  string   `json:"image_ref,omitempty"`
	Travel    *Arrival `json:"travel,omitempty"`
}

// TransportBasis selects the transport cost basis.
type TransportBasis string

const (
	BasisPerDay TransportBasis = "per_day"
	BasisPerKM  TransportBasis = "per_km"
)

// TransportTrip distinguishes one-way from round trips.
type TransportTrip string

const (
	TripOneWay    TransportTrip = "one_way"
	TripRoundTrip TransportTrip = "round_trip"
)

// TransportPlan is the single per-draft vehicle costing.
type TransportPlan struct {
	VehicleType     string         `json:"vehicle_type"`
	TripMode        TransportTrip  `json:"trip_mode"`
	Days            int            `json:"days"`
	Basis           TransportBasis `json:"basis"`
	Rate            float64        `json:"rate"`
	DistanceKM      float64        `json:"distance_km"`
	DriverAllowance float64        `json:"driver_allowance"`
	TollParking     float64        `json:"toll_parking"`
	TotalCost       float64        `json:"total_cost"`
}

// TierSummary is the derived payable summary of one tier. MarginPercent is
// the authoritative input; MarginAmount is always a re-computation.
type TierSummary struct {
	Tier          Tier    `json:"tier"`
	TierTotal     float64 `json:"tier_total"`
	MarginPercent float64 `json:"margin_percent"`
	MarginAmount  float64 `json:"margin_amount"`
	Discount      float64 `json:"discount"`
	Payable       float64 `json:"payable"`
	TaxAmount     float64 `json:"tax_amount"`
	GrandTotal    float64 `json:"grand_total"`
	Balance       float64 `json:"balance"`
}

// PricingSummary groups the three tier summaries and the shared tax inputs.
type PricingSummary struct {
	GSTOn      pricing.GSTMode `json:"gst_on"`
	TaxPercent float64         `json:"tax_percent"`
	Received   float64         `json:"received"`
	Standard   TierSummary     `json:"standard"`
	Deluxe     TierSummary     `json:"deluxe"`
	Superior   TierSummary     `json:"superior"`
}

// TierSummaryFor returns the summary of a tier.
func (s *PricingSummary) TierSummaryFor(t Tier) *TierSummary {
	switch t {
	case TierDeluxe:
		return &s.Deluxe
	case TierSuperior:
		return &s.Superior
	default:
		return &s.Standard
	}
}

// FrozenSummary is the per-tier grand total snapshot taken at confirmation,
// kept for audit. Later plan edits must never change it.
type FrozenSummary struct {
	Standard float64 `json:"standard"`
	Deluxe   float64 `json:"deluxe"`
	Superior float64 `json:"superior"`
}

// Finalization records the chosen tier and vendor assignments.
type Finalization struct {
	Tier          Tier              `json:"tier"`
	VendorMode    VendorMode        `json:"vendor_mode"`
	HotelVendor   string            `json:"hotel_vendor,omitempty"`
	CityVendors   map[string]string `json:"city_vendors,omitempty"`
	VehicleVendor string            `json:"vehicle_vendor"`
	BankRef       string            `json:"bank_ref,omitempty"`
	Frozen        FrozenSummary     `json:"frozen"`
	ConfirmedAt   time.Time         `json:"confirmed_at"`
}

// Draft is a quotation under construction. It is created at step 1, mutated
// by every subsequent step and never deleted once finalized.
type Draft struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Status        Status          `json:"status"`
	CurrentStep   int             `json:"current_step"`
	TripRequestID *int64          `json:"trip_request_id,omitempty"`
	Client        ClientInfo      `json:"client"`
	TotalNights   int             `json:"total_nights"`
	TotalDays     int             `json:"total_days"`
	Stays         []StayLocation  `json:"stays,omitempty"`
	Days          []ItineraryDay  `json:"days,omitempty"`
	Transport     *TransportPlan  `json:"transport,omitempty"`
	Pricing       *PricingSummary `json:"pricing,omitempty"`
	Finalization  *Finalization   `json:"finalization,omitempty"`
	CreatedBy     int64           `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Editable reports whether step submissions may still mutate the draft.
func (d *Draft) Editable() bool {
	return d.Status != StatusConfirmed && d.Status != StatusInvoiced
}
