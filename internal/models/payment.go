package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a collected (or pending) amount allocated to one line item.
// The collected amount of a line item is the sum of its confirmed payments.
type Payment struct {
	ID          int64           `json:"id"`
	LineItemID  int64           `json:"line_item_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RevenueAccount categorizes line items for accounting purposes.
type RevenueAccount struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
