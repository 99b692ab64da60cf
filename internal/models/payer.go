package models

import (
	"strings"
	"time"
)

// Payer is the fiscal entity being billed and/or debited.
// LegalName holds the denomination for legal entities, or the family name for
// natural persons; a non-empty GivenName marks the payer as a natural person.
// The two representations are mutually exclusive in generated documents.
type Payer struct {
	ID        int64  `json:"id"`
	LegalName string `json:"legal_name"`
	GivenName string `json:"given_name"`

	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`

	VATNumber    string `json:"vat_number"`
	FiscalCode   string `json:"fiscal_code"`
	SplitPayment bool   `json:"split_payment"`

	RoutingCode    string `json:"routing_code"`
	CertifiedEmail string `json:"certified_email"`

	CollectionMethod string `json:"collection_method"`

	// SDD mandate
	MandateActive        bool       `json:"mandate_active"`
	MandateIBAN          string     `json:"mandate_iban"`
	MandateSignatureDate *time.Time `json:"mandate_signature_date,omitempty"`
	MandateReference     string     `json:"mandate_reference"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsNaturalPerson reports whether the payer is recorded as a natural person.
func (p *Payer) IsNaturalPerson() bool {
	return p.GivenName != ""
}

// Denomination returns the display name: the denomination for legal entities,
// "family name + given name" for natural persons.
func (p *Payer) Denomination() string {
	if p.GivenName == "" {
		return p.LegalName
	}
	return strings.TrimSpace(p.LegalName + " " + p.GivenName)
}
