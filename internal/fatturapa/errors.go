package fatturapa

import "errors"

// Serialization preconditions: the serializer fails fast rather than emit a
// document with empty mandatory fields.
var (
	ErrNoLineItems            = errors.New("invoice has no line items")
	ErrMissingIssuerVAT       = errors.New("issuer VAT number is missing")
	ErrMissingIssuerIBAN      = errors.New("issuer IBAN is missing")
	ErrIncompleteIssuerOffice = errors.New("issuer address is incomplete")
	ErrMissingPayerName       = errors.New("payer name is missing")
	ErrMissingPayerTaxID      = errors.New("payer has neither VAT number nor fiscal code")
)
