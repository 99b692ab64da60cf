package billing

import "errors"

var (
	// ErrNoLineItems is returned when an emission is requested for zero items.
	ErrNoLineItems = errors.New("no line items selected")

	// ErrMixedIssuers is returned when the selected items belong to more than
	// one issuer; an invoice run never spans issuers.
	ErrMixedIssuers = errors.New("line items belong to different issuers")

	// ErrAlreadyInvoiced is returned when any selected item is already linked
	// to an invoice.
	ErrAlreadyInvoiced = errors.New("line items already invoiced")

	// ErrNoInvoices is returned when a document run is requested for zero
	// invoices.
	ErrNoInvoices = errors.New("no invoices selected")

	// ErrNumberConflict is returned when a concurrent emission claimed the
	// same invoice number; the caller may retry.
	ErrNumberConflict = errors.New("invoice number already taken")

	// ErrNothingToCollect is returned when no outstanding direct-debit amount
	// matches the requested collection run.
	ErrNothingToCollect = errors.New("no outstanding amounts to collect")

	// ErrNotRecurring is returned when a one-off line item is asked to roll
	// into a next period.
	ErrNotRecurring = errors.New("line item has no recurring periodicity")

	// ErrInvalidVATRate is returned when a new line item carries a VAT
	// percentage outside the admitted rates.
	ErrInvalidVATRate = errors.New("VAT rate not admitted")
)
