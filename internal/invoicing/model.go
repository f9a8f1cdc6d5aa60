// Package invoicing issues invoices whose line items share the quotation
// engine's tax formula.
package invoicing

import (
	"time"

	"github.com/tripdesk/tripdesk/internal/pricing"
)

// Invoice is an issued document with computed line items.
type Invoice struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	QuotationCode *string    `json:"quotation_code,omitempty"`
	ClientName    string     `json:"client_name"`
	Lines         []LineItem `json:"lines"`
	Subtotal      float64    `json:"subtotal"`
	TaxTotal      float64    `json:"tax_total"`
	GrandTotal    float64    `json:"grand_total"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LineItem is one computed invoice line.
type LineItem struct {
	Particulars     string          `json:"particulars"`
	Price           float64         `json:"price"`
	DiscountPercent float64         `json:"discount_percent"`
	Discount        float64         `json:"discount"`
	TaxPercent      float64         `json:"tax_percent"`
	TaxMode         pricing.TaxMode `json:"tax_mode"`
	Base            float64         `json:"base"`
	TaxAmount       float64         `json:"tax_amount"`
	Amount          float64         `json:"amount"`
}
