package invoicing

import "github.com/tripdesk/tripdesk/internal/pricing"

// CreateInvoiceRequest creates an invoice; line figures are derived
// server-side from the shared formula.
type CreateInvoiceRequest struct {
	QuotationCode *string       `json:"quotation_code,omitempty"`
	ClientName    string        `json:"client_name" validate:"required"`
	Lines         []LineItemReq `json:"lines" validate:"required,min=1,dive"`
}

// LineItemReq is one requested line before computation.
type LineItemReq struct {
	Particulars     string          `json:"particulars" validate:"required"`
	Price           float64         `json:"price" validate:"gte=0"`
	DiscountPercent float64         `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      float64         `json:"tax_percent" validate:"gte=0"`
	TaxMode         pricing.TaxMode `json:"tax_mode" validate:"required,oneof=withTax withoutTax"`
}

// PreviewRequest computes line figures without persisting anything.
type PreviewRequest struct {
	Lines []LineItemReq `json:"lines" validate:"required,min=1,dive"`
}

// ListInvoicesRequest filters the invoice listing.
type ListInvoicesRequest struct {
	Limit  int `json:"limit" validate:"gte=0,lte=1000"`
	Offset int `json:"offset" validate:"gte=0"`
}
