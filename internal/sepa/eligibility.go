package sepa

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/gestionale/internal/models"
)

// Candidate is an invoiced-but-uncollected amount proposed for direct debit,
// before eligibility checks.
type Candidate struct {
	LineItemID  int64
	Payer       *models.Payer
	Amount      decimal.Decimal
	Description string
	EndToEndID  string
}

// CollectionItem is one eligible direct-debit transaction, assembled
// just-in-time from invoice, line item and payer state. Not persisted.
type CollectionItem struct {
	LineItemID           int64
	PayerID              int64
	DebtorName           string
	DebtorIBAN           string
	MandateID            string
	MandateSignatureDate time.Time // zero when unrecorded
	Amount               decimal.Decimal
	Description          string
	EndToEndID           string
}

// Anomaly is a structured per-payer eligibility report entry.
type Anomaly struct {
	LineItemID int64  `json:"line_item_id"`
	PayerID    int64  `json:"payer_id"`
	PayerName  string `json:"payer_name"`
	Reason     string `json:"reason"`
}

// FilterEligible applies the eligibility pre-filter to a set of candidates.
//
// A payer with an inactive mandate or no account identifier is hard-excluded:
// omitted from the batch and reported. A payer with an active mandate and
// account but no mandate reference is still included, with the generated
// fallback reference MAND-<payer id>, and reported as a soft anomaly.
func FilterEligible(candidates []Candidate) (items []CollectionItem, excluded []Anomaly, warnings []Anomaly) {
	for _, c := range candidates {
		payer := c.Payer

		if !payer.MandateActive {
			excluded = append(excluded, Anomaly{
				LineItemID: c.LineItemID,
				PayerID:    payer.ID,
				PayerName:  payer.Denomination(),
				Reason:     ReasonMandateInactive,
			})
			continue
		}
		if payer.MandateIBAN == "" {
			excluded = append(excluded, Anomaly{
				LineItemID: c.LineItemID,
				PayerID:    payer.ID,
				PayerName:  payer.Denomination(),
				Reason:     ReasonMissingIBAN,
			})
			continue
		}

		mandateID := payer.MandateReference
		if mandateID == "" {
			mandateID = fmt.Sprintf("MAND-%d", payer.ID)
			warnings = append(warnings, Anomaly{
				LineItemID: c.LineItemID,
				PayerID:    payer.ID,
				PayerName:  payer.Denomination(),
				Reason:     ReasonMissingMandateReference,
			})
		}

		item := CollectionItem{
			LineItemID:  c.LineItemID,
			PayerID:     payer.ID,
			DebtorName:  payer.Denomination(),
			DebtorIBAN:  payer.MandateIBAN,
			MandateID:   mandateID,
			Amount:      c.Amount,
			Description: c.Description,
			EndToEndID:  c.EndToEndID,
		}
		if payer.MandateSignatureDate != nil {
			item.MandateSignatureDate = *payer.MandateSignatureDate
		}
		items = append(items, item)
	}
	return items, excluded, warnings
}
