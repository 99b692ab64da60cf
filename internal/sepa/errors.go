package sepa

import "errors"

var (
	ErrNoTransactions            = errors.New("collection batch has no transactions")
	ErrMissingCreditorIBAN       = errors.New("creditor IBAN is missing")
	ErrMissingCreditorFiscalCode = errors.New("creditor fiscal code is missing")
)

// Anomaly reasons reported by the eligibility pre-filter.
const (
	ReasonMandateInactive         = "mandate inactive"
	ReasonMissingIBAN             = "missing debtor IBAN"
	ReasonMissingMandateReference = "missing mandate reference, fallback id assigned"
)
