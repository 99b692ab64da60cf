package models

import "time"

// Issuer is the fiscal entity issuing invoices and initiating collections.
// Its IBAN is the creditor account in SEPA collection batches.
type Issuer struct {
	ID         int64  `json:"id"`
	LegalName  string `json:"legal_name"`
	VATNumber  string `json:"vat_number"`
	FiscalCode string `json:"fiscal_code"`

	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`

	FiscalRegime   string `json:"fiscal_regime"`
	CertifiedEmail string `json:"certified_email"`
	IBAN           string `json:"iban"`

	CreatedAt time.Time `json:"created_at"`
}
