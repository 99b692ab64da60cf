// Package sepa renders SEPA direct-debit collection batches in the ISO 20022
// pain.008.001.02 format and applies the mandate eligibility pre-filter.
package sepa

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lucabarbieri/gestionale/internal/models"
)

const (
	paymentMethodDirectDebit = "DD"
	serviceLevel             = "SEPA"
	localInstrument          = "CORE"
	sequenceTypeRecurring    = "RCUR"
	currencyCode             = "EUR"

	// The creditor/debtor bank identifier is not tracked; SEPA admits an
	// explicit placeholder.
	bicNotProvided = "NOTPROVIDED"

	// Creditor scheme identifier suffix for the SEPA proprietary scheme.
	creditorSchemeSuffix = "ZZZ"
)

// Builder renders collection batches.
type Builder struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder creates a new Builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{
		logger: logger,
		now:    time.Now,
	}
}

// Filename returns the batch filename for a collection date: SDD_<ISO date>.xml
func Filename(collectionDate time.Time) string {
	return fmt.Sprintf("SDD_%s.xml", collectionDate.Format("2006-01-02"))
}

// Build renders one pain.008.001.02 batch with the issuer as creditor.
// Items must already have passed FilterEligible; the control sum is the exact
// sum of the per-transaction rounded amounts.
func (b *Builder) Build(issuer *models.Issuer, collectionDate time.Time, items []CollectionItem) ([]byte, string, error) {
	if len(items) == 0 {
		return nil, "", ErrNoTransactions
	}
	creditorIBAN := strings.ReplaceAll(issuer.IBAN, " ", "")
	if creditorIBAN == "" {
		return nil, "", ErrMissingCreditorIBAN
	}
	if issuer.FiscalCode == "" {
		return nil, "", ErrMissingCreditorFiscalCode
	}

	now := b.now()
	controlSum := decimal.Zero
	transactions := make([]transaction, 0, len(items))

	for _, item := range items {
		amount := item.Amount.Round(2)
		controlSum = controlSum.Add(amount)

		endToEndID := item.EndToEndID
		if endToEndID == "" {
			endToEndID = "E2E-" + randomToken(12)
		}

		signatureDate := item.MandateSignatureDate
		if signatureDate.IsZero() {
			signatureDate = now
		}

		transactions = append(transactions, transaction{
			PmtId: paymentId{EndToEndId: truncate(endToEndID, 35)},
			InstdAmt: instructedAmount{
				Ccy:    currencyCode,
				Amount: amount.StringFixed(2),
			},
			DrctDbtTx: directDebitTx{
				MndtRltdInf: mandateInfo{
					MndtId:    item.MandateID,
					DtOfSgntr: signatureDate.Format("2006-01-02"),
				},
			},
			DbtrAgt:  agent{FinInstnId: finInstitution{BIC: bicNotProvided}},
			Dbtr:     party{Nm: truncate(item.DebtorName, 70)},
			DbtrAcct: account{Id: accountId{IBAN: strings.ReplaceAll(item.DebtorIBAN, " ", "")}},
			RmtInf:   remittanceInfo{Ustrd: truncate(textOrDefault(item.Description, "Pagamento"), 140)},
		})
	}

	stamp := now.Format("20060102150405")
	doc := &document{
		Xmlns: Namespace,
		CstmrDrctDbtInitn: directDebitIn{
			GrpHdr: groupHeader{
				MsgId:    fmt.Sprintf("MSG-%s-%s", stamp, randomToken(8)),
				CreDtTm:  now.UTC().Format("2006-01-02T15:04:05"),
				NbOfTxs:  len(transactions),
				CtrlSum:  controlSum.StringFixed(2),
				InitgPty: party{Nm: truncate(issuer.LegalName, 70)},
			},
			PmtInf: paymentInfo{
				PmtInfId:  fmt.Sprintf("PMT-%s-%s", stamp, randomToken(8)),
				PmtMtd:    paymentMethodDirectDebit,
				BtchBookg: "true",
				NbOfTxs:   len(transactions),
				CtrlSum:   controlSum.StringFixed(2),
				PmtTpInf: paymentType{
					SvcLvl:    codeChoice{Cd: serviceLevel},
					LclInstrm: codeChoice{Cd: localInstrument},
					SeqTp:     sequenceTypeRecurring,
				},
				ReqdColltnDt: collectionDate.Format("2006-01-02"),
				Cdtr: creditor{
					Nm:      truncate(issuer.LegalName, 70),
					PstlAdr: postalAddress{Ctry: countryOrDefault(issuer.Country)},
				},
				CdtrAcct: account{Id: accountId{IBAN: creditorIBAN}},
				CdtrAgt:  agent{FinInstnId: finInstitution{BIC: bicNotProvided}},
				CdtrSchmeId: schemeId{
					Id: schemeIdChoice{
						PrvtId: privateId{
							Othr: otherId{
								Id:      fmt.Sprintf("IT%s%s", issuer.FiscalCode, creditorSchemeSuffix),
								SchmeNm: schemeName{Prtry: serviceLevel},
							},
						},
					},
				},
				DrctDbtTxInf: transactions,
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal collection batch: %w", err)
	}

	filename := Filename(collectionDate)
	b.logger.Info("Collection batch generated",
		zap.String("filename", filename),
		zap.Int("transaction_count", len(transactions)),
		zap.String("control_sum", controlSum.StringFixed(2)))

	return append([]byte(xml.Header), out...), filename, nil
}

// BatchResult carries a produced batch together with its eligibility report,
// so callers can inspect anomalies without exception-style control flow.
type BatchResult struct {
	XML          []byte           `json:"-"`
	Filename     string           `json:"filename"`
	Transactions []CollectionItem `json:"-"`
	Excluded     []Anomaly        `json:"excluded"`
	Warnings     []Anomaly        `json:"warnings"`
}

func randomToken(n int) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	if n > len(token) {
		n = len(token)
	}
	return token[:n]
}

// truncate limits s to max characters, not bytes, so multi-byte names are
// never cut mid-rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func textOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func countryOrDefault(country string) string {
	if country == "" {
		return "IT"
	}
	return country
}
