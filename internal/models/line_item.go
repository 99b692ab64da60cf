package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one billable service/period entry, the unit of aggregation
// into invoices. Once linked to an invoice its net amount and VAT rate are
// immutable.
type LineItem struct {
	ID               int64  `json:"id"`
	PayerID          int64  `json:"payer_id"`
	RevenueAccountID int64  `json:"revenue_account_id"`
	IssuerID         int64  `json:"issuer_id"`
	InvoiceID        *int64 `json:"invoice_id,omitempty"`

	Periodicity string          `json:"periodicity"`
	Description string          `json:"description"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATRate     int             `json:"vat_rate"`

	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	CollectionMethod string `json:"collection_method"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoiced reports whether the item is already linked to an invoice.
func (li *LineItem) Invoiced() bool {
	return li.InvoiceID != nil
}

// NetRounded returns the net amount rounded half-up to 2 decimals.
func (li *LineItem) NetRounded() decimal.Decimal {
	return li.NetAmount.Round(2)
}

// VATAmount returns round(net * rate/100, 2). Rounding happens at the line
// level; every aggregate in generated documents sums these rounded values.
func (li *LineItem) VATAmount() decimal.Decimal {
	return li.NetAmount.Mul(decimal.NewFromInt(int64(li.VATRate))).Div(decimal.NewFromInt(100)).Round(2)
}

// GrossTotal returns the rounded net plus the rounded VAT amount.
func (li *LineItem) GrossTotal() decimal.Decimal {
	return li.NetRounded().Add(li.VATAmount())
}

// DocumentDescription is the line description with its periodicity suffix.
func (li *LineItem) DocumentDescription() string {
	return li.Description + PeriodLabel(li.Periodicity, li.PeriodStart)
}
