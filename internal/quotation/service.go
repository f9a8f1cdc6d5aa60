package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tripdesk/tripdesk/internal/platform/blob"
	"github.com/tripdesk/tripdesk/internal/shared"
	"github.com/tripdesk/tripdesk/internal/triprequest"
)

var (
	// ErrInvalidStatus indicates a lifecycle transition the draft's current
	// status does not allow.
	ErrInvalidStatus = errors.New("invalid status transition")
)

// Service is the quotation drafting state machine. It owns every draft
// mutation: step handlers validate, merge only the fields their step owns,
// re-run the affected derived computations and persist the whole draft.
type Service struct {
	repo     Repository
	trips    triprequest.Repository
	blobs    blob.Store
	audit    *shared.AuditLogger
	cache    *DraftCache
	validate *validator.Validate
}

// NewService wires the state machine. Audit logger and cache may be nil.
func NewService(repo Repository, trips triprequest.Repository, blobs blob.Store, audit *shared.AuditLogger, cache *DraftCache) *Service {
	return &Service{
		repo:     repo,
		trips:    trips,
		blobs:    blobs,
		audit:    audit,
		cache:    cache,
		validate: validator.New(),
	}
}

// Create handles step 1: it validates the client payload, optionally seeds
// arrival data from the upstream trip request and persists a fresh draft
// under a generated human-readable code.
func (s *Service) Create(ctx context.Context, req CreateDraftRequest, createdBy int64) (*StepResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if req.Client.Name == "" {
		return nil, &ValidationError{Field: "client.name", Reason: "client name is required"}
	}
	if req.Client.Sector == "" {
		return nil, &ValidationError{Field: "client.sector", Reason: "sector/destination is required"}
	}
	if req.Client.TripType != TripDomestic && req.Client.TripType != TripInternational {
		return nil, &ValidationError{Field: "client.trip_type", Reason: "trip type must be DOMESTIC or INTERNATIONAL"}
	}

	client := req.Client
	if req.TripRequestID != nil {
		trip, err := s.trips.Get(ctx, *req.TripRequestID)
		if err != nil {
			if errors.Is(err, triprequest.ErrNotFound) {
				return nil, &ValidationError{Field: "trip_request_id", Reason: "trip request does not exist"}
			}
			return nil, fmt.Errorf("load trip request: %w", err)
		}
		if client.Arrival == nil && trip.ArrivalPoint != "" {
			client.Arrival = &Arrival{
				Point:      trip.ArrivalPoint,
				DriveTo:    trip.FirstDriveTo,
				DistanceKM: trip.DistanceKM,
				Duration:   trip.DriveDuration,
			}
		}
	}

	draft := Draft{
		Status:        StatusDraft,
		CurrentStep:   StepItinerary,
		TripRequestID: req.TripRequestID,
		Client:        client,
		CreatedBy:     createdBy,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		code, err := repo.GenerateCode(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("generate draft code: %w", err)
		}
		draft.Code = code
		id, err := repo.Create(ctx, draft)
		if err != nil {
			return fmt.Errorf("create draft: %w", err)
		}
		draft.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, createdBy, "quotation.create", draft.Code, map[string]any{"step": StepClient})

	stored, err := s.repo.GetByCode(ctx, draft.Code)
	if err != nil {
		return nil, err
	}
	return &StepResult{Draft: stored}, nil
}

// Get resumes a draft by code. Unknown codes surface ErrNotFound.
func (s *Service) Get(ctx context.Context, code string) (*Draft, error) {
	if s.cache != nil {
		return s.cache.Fetch(ctx, code, func(ctx context.Context) (*Draft, error) {
			return s.repo.GetByCode(ctx, code)
		})
	}
	return s.repo.GetByCode(ctx, code)
}

// List returns drafts matching the filter.
func (s *Service) List(ctx context.Context, req ListDraftsRequest) ([]Draft, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, validationError(err)
	}
	return s.repo.List(ctx, req)
}

// UpdateStep applies one step submission to a draft: validate, merge only
// the step-owned section, re-run affected derived computations, persist.
// Applying the same payload twice yields the same draft (replace, never
// append), so at-least-once retries are safe. Any error leaves the draft at
// its last good state; nothing is written.
func (s *Service) UpdateStep(ctx context.Context, code string, step int, payload StepPayload) (*StepResult, error) {
	if step < StepItinerary || step > StepPricing {
		return nil, &ValidationError{Field: "step", Reason: fmt.Sprintf("step must be between %d and %d", StepItinerary, StepPricing)}
	}

	draft, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !draft.Editable() {
		return nil, ErrDraftLocked
	}
	// Forward strictly one step at a time; backward resubmission is free.
	if step > draft.CurrentStep {
		return nil, &ValidationError{Field: "step", Reason: fmt.Sprintf("step %d is not reachable yet, the draft is at step %d", step, draft.CurrentStep)}
	}

	var warnings []string
	switch step {
	case StepItinerary:
		warnings, err = s.applyItinerary(ctx, draft, payload)
	case StepDays:
		err = s.applyDays(ctx, draft, payload)
	case StepAccommodation:
		err = s.applyAccommodation(draft, payload)
	case StepTransport:
		err = s.applyTransport(draft, payload)
	case StepPricing:
		err = s.applyPricing(draft, payload)
	}
	if err != nil {
		return nil, err
	}

	if draft.Status == StatusDraft && step >= StepItinerary {
		draft.Status = StatusInProgress
	}
	if step == StepPricing {
		draft.Status = StatusFinalized
	}
	if next := step + 1; next > draft.CurrentStep {
		draft.CurrentStep = next
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	s.invalidate(ctx, code)
	s.recordAudit(ctx, draft.CreatedBy, "quotation.step", draft.Code, map[string]any{"step": step})

	return &StepResult{Draft: draft, Warnings: warnings}, nil
}

// Finalize is step 7: tier and vendor selection. It freezes the three tier
// grand totals onto the draft and transitions Finalized -> Confirmed. A
// confirmed draft rejects all further step submissions, so the frozen
// summary can never drift.
func (s *Service) Finalize(ctx context.Context, code string, req FinalizeRequest) (*Draft, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	draft, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if draft.Status != StatusFinalized {
		return nil, fmt.Errorf("%w: can only confirm a finalized draft (status %s)", ErrInvalidStatus, draft.Status)
	}
	if draft.Pricing == nil {
		return nil, &ValidationError{Field: "pricing", Reason: "pricing summary must be completed before finalization"}
	}

	fin := Finalization{
		Tier:          req.Tier,
		VendorMode:    req.VendorMode,
		VehicleVendor: req.VehicleVendor,
		BankRef:       req.BankRef,
		ConfirmedAt:   time.Now(),
	}

	switch req.VendorMode {
	case VendorSingle:
		if req.HotelVendor == "" {
			return nil, &ValidationError{Field: "hotel_vendor", Reason: "single-vendor mode requires a hotel vendor"}
		}
		fin.HotelVendor = req.HotelVendor
		fin.CityVendors = make(map[string]string, len(draft.Stays))
		for _, stay := range draft.Stays {
			fin.CityVendors[stay.City] = req.HotelVendor
		}
	case VendorMultiple:
		fin.CityVendors = make(map[string]string, len(draft.Stays))
		for _, stay := range draft.Stays {
			vendor, ok := req.CityVendors[stay.City]
			if !ok || vendor == "" {
				return nil, &ValidationError{Field: "city_vendors." + stay.City, Reason: "multiple-vendor mode requires a vendor per city"}
			}
			fin.CityVendors[stay.City] = vendor
		}
	}

	fin.Frozen = FrozenSummary{
		Standard: draft.Pricing.Standard.GrandTotal,
		Deluxe:   draft.Pricing.Deluxe.GrandTotal,
		Superior: draft.Pricing.Superior.GrandTotal,
	}

	draft.Finalization = &fin
	draft.Status = StatusConfirmed
	draft.CurrentStep = StepFinalize

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("finalize draft: %w", err)
	}
	s.invalidate(ctx, code)
	s.recordAudit(ctx, draft.CreatedBy, "quotation.confirm", draft.Code, map[string]any{
		"tier":        string(req.Tier),
		"vendor_mode": string(req.VendorMode),
	})
	return draft, nil
}

// MarkInvoiced transitions a confirmed draft to Invoiced. Called by the
// invoicing module once an invoice references the quotation.
func (s *Service) MarkInvoiced(ctx context.Context, code string) error {
	draft, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if draft.Status != StatusConfirmed {
		return fmt.Errorf("%w: can only invoice a confirmed draft (status %s)", ErrInvalidStatus, draft.Status)
	}
	if err := s.repo.UpdateStatus(ctx, draft.ID, StatusInvoiced); err != nil {
		return err
	}
	s.invalidate(ctx, code)
	return nil
}

func (s *Service) applyItinerary(ctx context.Context, draft *Draft, payload StepPayload) ([]string, error) {
	var req ItineraryRequest
	if err := decodeStep(payload, &req); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	var target *int
	if draft.TripRequestID != nil {
		trip, err := s.trips.Get(ctx, *draft.TripRequestID)
		if err != nil && !errors.Is(err, triprequest.ErrNotFound) {
			return nil, fmt.Errorf("load trip request: %w", err)
		}
		if err == nil && trip.TargetNights > 0 {
			n := trip.TargetNights
			target = &n
		}
	}

	alloc, err := AllocateNights(req.Cities, target)
	if err != nil {
		return nil, err
	}

	// Preserve authored accommodation plans across re-allocation. Stays are
	// matched by city occurrence so a revisited city keeps a distinct plan
	// per visit.
	previous := make(map[stayKey]StayLocation, len(draft.Stays))
	visits := make(map[string]int, len(draft.Stays))
	for _, stay := range draft.Stays {
		key := stayKey{city: stay.City, visit: visits[stay.City]}
		visits[stay.City]++
		previous[key] = stay
	}
	visits = make(map[string]int, len(alloc.Stays))
	for i := range alloc.Stays {
		stay := &alloc.Stays[i]
		key := stayKey{city: stay.City, visit: visits[stay.City]}
		visits[stay.City]++
		old, kept := previous[key]
		if kept {
			stay.Plans = old.Plans
		}
		for _, tier := range Tiers {
			plan := stay.Plans.Plan(tier)
			if plan.Nights == 0 || !kept || stay.Nights != old.Nights {
				plan.Nights = stay.Nights
			}
		}
	}

	draft.Stays = alloc.Stays
	draft.TotalNights = alloc.TotalNights
	draft.TotalDays = alloc.TotalDays
	draft.Days = BuildDays(alloc.TotalDays, draft.Days, draft.Client.Arrival)

	if err := RecomputePlans(draft.Stays); err != nil {
		return nil, err
	}
	if err := RecomputeSummary(draft); err != nil {
		return nil, err
	}

	if alloc.Mismatch != nil {
		return []string{alloc.Mismatch.String()}, nil
	}
	return nil, nil
}

func (s *Service) applyDays(ctx context.Context, draft *Draft, payload StepPayload) error {
	var req DaysRequest
	if err := decodeStep(payload, &req); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}
	if draft.TotalDays == 0 {
		return &ValidationError{Field: "days", Reason: "itinerary must be allocated before day content"}
	}
	if len(req.Days) != draft.TotalDays {
		return &ValidationError{Field: "days", Reason: fmt.Sprintf("expected %d day entries, got %d", draft.TotalDays, len(req.Days))}
	}

	imageRef := ""
	if payload.Attachment != nil {
		if s.blobs == nil {
			return &ValidationError{Field: "attachment", Reason: "attachment storage is not configured"}
		}
		ref, err := s.blobs.Save(ctx, payload.Attachment.Name, payload.Attachment.Content)
		if err != nil {
			return fmt.Errorf("store attachment: %w", err)
		}
		imageRef = ref
	}

	days := make([]ItineraryDay, 0, len(req.Days))
	for _, dr := range req.Days {
		if dr.Number < 1 || dr.Number > draft.TotalDays {
			return &ValidationError{Field: "days.number", Reason: fmt.Sprintf("day number %d outside 1..%d", dr.Number, draft.TotalDays)}
		}
		day := ItineraryDay{
			Number:    dr.Number,
			Title:     dr.Title,
			Details:   dr.Details,
			AboutCity: dr.AboutCity,
			ImageRef:  dr.ImageRef,
		}
		if dr.AttachImage && imageRef != "" {
			day.ImageRef = imageRef
		}
		if dr.Number == 1 {
			day.Travel = dr.Travel
		}
		days = append(days, day)
	}

	merged := BuildDays(draft.TotalDays, days, draft.Client.Arrival)
	if err := ValidateDays(merged); err != nil {
		return err
	}
	draft.Days = merged
	return nil
}

func (s *Service) applyAccommodation(draft *Draft, payload StepPayload) error {
	var req AccommodationRequest
	if err := decodeStep(payload, &req); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}
	if len(draft.Stays) == 0 {
		return &ValidationError{Field: "stays", Reason: "itinerary must be allocated before accommodation"}
	}

	// Each entry targets one itinerary stop. Revisited cities appear more
	// than once in the stay list, so stops are consumed per entry instead of
	// looked up by name.
	unassigned := make(map[string][]int, len(draft.Stays))
	for i := range draft.Stays {
		city := draft.Stays[i].City
		unassigned[city] = append(unassigned[city], i)
	}

	for _, sp := range req.Stays {
		var idx int
		switch {
		case sp.StayIndex != nil:
			idx = *sp.StayIndex
			if idx < 0 || idx >= len(draft.Stays) {
				return &ValidationError{Field: "stays.stay_index", Reason: fmt.Sprintf("stay index %d outside 0..%d", idx, len(draft.Stays)-1)}
			}
			if draft.Stays[idx].City != sp.City {
				return &ValidationError{Field: "stays.stay_index", Reason: fmt.Sprintf("stay %d is %q, not %q", idx, draft.Stays[idx].City, sp.City)}
			}
		case len(unassigned[sp.City]) > 0:
			idx = unassigned[sp.City][0]
		default:
			return &ValidationError{Field: "stays.city", Reason: fmt.Sprintf("city %q has no unassigned itinerary stop", sp.City)}
		}
		queue := unassigned[sp.City]
		for j, v := range queue {
			if v == idx {
				unassigned[sp.City] = append(queue[:j], queue[j+1:]...)
				break
			}
		}

		stay := &draft.Stays[idx]
		stay.Plans = TierPlans{Standard: sp.Standard, Deluxe: sp.Deluxe, Superior: sp.Superior}
		for _, tier := range Tiers {
			plan := stay.Plans.Plan(tier)
			if plan.Nights == 0 {
				plan.Nights = stay.Nights
			}
		}
	}

	if err := RecomputePlans(draft.Stays); err != nil {
		return err
	}
	return RecomputeSummary(draft)
}

func (s *Service) applyTransport(draft *Draft, payload StepPayload) error {
	var req TransportRequest
	if err := decodeStep(payload, &req); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}
	plan := req.Transport
	if plan.VehicleType == "" {
		return &ValidationError{Field: "transport.vehicle_type", Reason: "vehicle type is required"}
	}
	total, err := ComputeTransportTotal(&plan)
	if err != nil {
		return err
	}
	plan.TotalCost = total
	draft.Transport = &plan
	return RecomputeSummary(draft)
}

func (s *Service) applyPricing(draft *Draft, payload StepPayload) error {
	var req PricingRequest
	if err := decodeStep(payload, &req); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}
	if len(draft.Stays) == 0 {
		return &ValidationError{Field: "stays", Reason: "itinerary must be allocated before pricing"}
	}

	summary := &PricingSummary{
		GSTOn:      req.GSTOn,
		TaxPercent: req.TaxPercent,
		Received:   req.Received,
		Standard:   TierSummary{Tier: TierStandard, MarginPercent: req.Standard.MarginPercent, Discount: req.Standard.Discount},
		Deluxe:     TierSummary{Tier: TierDeluxe, MarginPercent: req.Deluxe.MarginPercent, Discount: req.Deluxe.Discount},
		Superior:   TierSummary{Tier: TierSuperior, MarginPercent: req.Superior.MarginPercent, Discount: req.Superior.Discount},
	}
	draft.Pricing = summary
	return RecomputeSummary(draft)
}

func (s *Service) invalidate(ctx context.Context, code string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, code)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action, code string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "quotation_draft",
		EntityID: code,
		Meta:     meta,
	})
}

func decodeStep(payload StepPayload, target any) error {
	if len(payload.Data) == 0 {
		return &ValidationError{Field: "payload", Reason: "step payload is required"}
	}
	if err := json.Unmarshal(payload.Data, target); err != nil {
		return &ValidationError{Field: "payload", Reason: "malformed step payload: " + err.Error()}
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &ValidationError{Field: first.Namespace(), Reason: "failed " + first.Tag() + " validation"}
	}
	return &ValidationError{Field: "payload", Reason: err.Error()}
}

// stayKey identifies one itinerary stop. visit is the zero-based count of
// earlier stops in the same city, so Gangtok-Pelling-Gangtok yields two
// distinct Gangtok keys.
type stayKey struct {
	city  string
	visit int
}
