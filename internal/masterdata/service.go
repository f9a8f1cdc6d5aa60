package masterdata

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
	"github.com/tripdesk/tripdesk/internal/shared"
)

// Service handles hotel and vendor maintenance.
type Service struct {
	repo     Repository
	audit    *shared.AuditLogger
	validate *validator.Validate
}

// NewService wires the master data service. Audit logger may be nil.
func NewService(repo Repository, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

// CreateHotel registers a new hotel.
func (s *Service) CreateHotel(ctx context.Context, req CreateHotelRequest, actorID int64) (*Hotel, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	h := Hotel{Name: req.Name, City: req.City, Category: req.Category, MealPlans: req.MealPlans, Phone: req.Phone}
	if err := s.repo.CreateHotel(ctx, &h); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "hotel.create", h.ID)
	return &h, nil
}

// UpdateHotel replaces the mutable fields of an existing hotel.
func (s *Service) UpdateHotel(ctx context.Context, id int64, req UpdateHotelRequest, actorID int64) (*Hotel, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Name = req.Name
	h.City = req.City
	h.Category = req.Category
	h.MealPlans = req.MealPlans
	h.Phone = req.Phone
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "hotel.update", h.ID)
	return h, nil
}

// GetHotel fetches a hotel by id.
func (s *Service) GetHotel(ctx context.Context, id int64) (*Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

// ListHotels lists hotels with filters and pagination.
func (s *Service) ListHotels(ctx context.Context, req ListHotelsRequest) ([]Hotel, shared.Pagination, error) {
	hotels, total, err := s.repo.ListHotels(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return hotels, shared.NewPagination(req.Page, req.PageSize, total), nil
}

// CreateVendor registers a new vendor.
func (s *Service) CreateVendor(ctx context.Context, req CreateVendorRequest, actorID int64) (*Vendor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	v := Vendor{Name: req.Name, Kind: req.Kind, City: req.City, Phone: req.Phone, BankRef: req.BankRef}
	if err := s.repo.CreateVendor(ctx, &v); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "vendor.create", v.ID)
	return &v, nil
}

// UpdateVendor replaces the mutable fields of an existing vendor. The kind
// is fixed at creation.
func (s *Service) UpdateVendor(ctx context.Context, id int64, req UpdateVendorRequest, actorID int64) (*Vendor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	v, err := s.repo.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = req.Name
	v.City = req.City
	v.Phone = req.Phone
	v.BankRef = req.BankRef
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateVendor(ctx, v); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "vendor.update", v.ID)
	return v, nil
}

// GetVendor fetches a vendor by id.
func (s *Service) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	return s.repo.GetVendor(ctx, id)
}

// ListVendors lists vendors with filters and pagination.
func (s *Service) ListVendors(ctx context.Context, req ListVendorsRequest) ([]Vendor, shared.Pagination, error) {
	vendors, total, err := s.repo.ListVendors(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return vendors, shared.NewPagination(req.Page, req.PageSize, total), nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "masterdata",
		EntityID: strconv.FormatInt(id, 10),
	})
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string     { return e.field + ": " + e.reason }
func (e *fieldError) FieldName() string { return e.field }
func (e *fieldError) Unwrap() error     { return httpx.ErrValidation }

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	f := verrs[0]
	return &fieldError{field: f.Field(), reason: "failed validation rule " + f.Tag()}
}
