package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice aggregates a group of line items for one payer, issued by one
// issuer. The (Number, Year, IssuerID) triple is unique; numbering is
// monotonic and gapless per issuer and year.
type Invoice struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Year      int       `json:"year"`
	IssueDate time.Time `json:"issue_date"`
	PayerID   int64     `json:"payer_id"`
	IssuerID  int64     `json:"issuer_id"`

	// Totals equal the sum of the linked items' rounded per-line net and
	// VAT amounts; never recomputed from unrounded values.
	TotalNet decimal.Decimal `json:"total_net"`
	TotalVAT decimal.Decimal `json:"total_vat"`
	Total    decimal.Decimal `json:"total"`

	Status            string `json:"status"`
	DocumentGenerated bool   `json:"document_generated"`
	DocumentFilename  string `json:"document_filename"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
