package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
	"github.com/tripdesk/tripdesk/internal/pricing"
	"github.com/tripdesk/tripdesk/internal/shared"
)

// QuotationMarker flips a confirmed quotation to invoiced. Satisfied by the
// quotation service.
type QuotationMarker interface {
	MarkInvoiced(ctx context.Context, code string) error
}

// Service computes and persists invoices.
type Service struct {
	repo       Repository
	quotations QuotationMarker
	idem       *shared.IdempotencyStore
	validate   *validator.Validate
}

// NewService wires the invoicing service. Marker and idempotency store may
// be nil.
func NewService(repo Repository, quotations QuotationMarker, idem *shared.IdempotencyStore) *Service {
	return &Service{
		repo:       repo,
		quotations: quotations,
		idem:       idem,
		validate:   validator.New(),
	}
}

// ComputeLines runs every requested line through the shared formula.
func ComputeLines(reqs []LineItemReq) ([]LineItem, float64, float64, float64, error) {
	lines := make([]LineItem, 0, len(reqs))
	var subtotal, taxTotal, grandTotal float64
	for i, lr := range reqs {
		res, err := pricing.ComputeLineItem(pricing.LineItemInput{
			Price:           lr.Price,
			DiscountPercent: lr.DiscountPercent,
			TaxPercent:      lr.TaxPercent,
			Mode:            lr.TaxMode,
		})
		if err != nil {
			return nil, 0, 0, 0, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, LineItem{
			Particulars:     lr.Particulars,
			Price:           lr.Price,
			DiscountPercent: lr.DiscountPercent,
			Discount:        res.Discount,
			TaxPercent:      lr.TaxPercent,
			TaxMode:         lr.TaxMode,
			Base:            res.Base,
			TaxAmount:       res.TaxAmount,
			Amount:          res.Amount,
		})
		subtotal += res.Base
		taxTotal += res.TaxAmount
		grandTotal += res.Amount
	}
	return lines, pricing.Round2(subtotal), pricing.Round2(taxTotal), pricing.Round2(grandTotal), nil
}

// Preview computes line figures without persisting.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) ([]LineItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	lines, _, _, _, err := ComputeLines(req.Lines)
	return lines, err
}

// Create computes, persists and optionally marks the referenced quotation
// invoiced. An idempotency key makes client retries safe.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, idemKey string, createdBy int64) (*Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}

	if s.idem != nil && idemKey != "" {
		if err := s.idem.CheckAndInsert(ctx, idemKey, "invoicing"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return nil, fmt.Errorf("%w: invoice already created for this request", httpx.ErrDuplicate)
			}
			return nil, err
		}
	}

	lines, subtotal, taxTotal, grandTotal, err := ComputeLines(req.Lines)
	if err != nil {
		s.rollbackIdem(ctx, idemKey)
		return nil, err
	}

	invoice := Invoice{
		QuotationCode: req.QuotationCode,
		ClientName:    req.ClientName,
		Lines:         lines,
		Subtotal:      subtotal,
		TaxTotal:      taxTotal,
		GrandTotal:    grandTotal,
		CreatedBy:     createdBy,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		code, err := repo.GenerateCode(ctx)
		if err != nil {
			return fmt.Errorf("generate invoice code: %w", err)
		}
		invoice.Code = code
		id, err := repo.Create(ctx, invoice)
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		invoice.ID = id
		return nil
	})
	if err != nil {
		s.rollbackIdem(ctx, idemKey)
		return nil, err
	}

	if req.QuotationCode != nil && s.quotations != nil {
		if err := s.quotations.MarkInvoiced(ctx, *req.QuotationCode); err != nil {
			return nil, fmt.Errorf("mark quotation invoiced: %w", err)
		}
	}

	return s.repo.Get(ctx, invoice.ID)
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices with a total count.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	return s.repo.List(ctx, req)
}

func (s *Service) rollbackIdem(ctx context.Context, key string) {
	if s.idem != nil && key != "" {
		_ = s.idem.Delete(ctx, key)
	}
}
