package models

// Periodicity constants for line items
const (
	PeriodicityOneOff     = "Una tantum"
	PeriodicityMonthly    = "Mensile"
	PeriodicityQuarterly  = "Trimestrale"
	PeriodicitySemiAnnual = "Semestrale"
	PeriodicityAnnual     = "Annuale"
)

// Collection method constants
const (
	CollectionMethodSDD      = "SDD SEPA"
	CollectionMethodTransfer = "Bonifico"
	CollectionMethodCash     = "Contanti"
	CollectionMethodOther    = "Altro"
)

// Payment status constants
const (
	PaymentStatusPending   = "Caricato da confermare"
	PaymentStatusConfirmed = "Confermato"
	PaymentStatusFailed    = "Insoluto"
)

// Invoice status constants
const (
	InvoiceStatusIssued            = "Emessa"
	InvoiceStatusDocumentGenerated = "XML Generato"
	InvoiceStatusSent              = "Inviata a SDI"
	InvoiceStatusAccepted          = "Accettata"
	InvoiceStatusRejected          = "Rifiutata"
)

// Fiscal regime constants
const (
	FiscalRegimeOrdinary   = "Ordinario"
	FiscalRegimeSimplified = "Semplificato"
	FiscalRegimeFlatRate   = "Forfettario"
)

// NullRoutingCode is the placeholder recipient routing code meaning
// "no routing code assigned"; the certified email is used instead.
const NullRoutingCode = "0000000"

// VATRates are the admitted VAT percentages for line items
var VATRates = []int{0, 4, 5, 10, 22}

// ValidVATRate reports whether rate is one of the admitted percentages.
func ValidVATRate(rate int) bool {
	for _, r := range VATRates {
		if r == rate {
			return true
		}
	}
	return false
}
